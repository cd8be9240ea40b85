package fs

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/sqip/internal/core/domain"
	"go.trai.ch/sqip/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Hasher = (*Hasher)(nil)

// Hasher derives cache keys from image content and generation options.
type Hasher struct{}

// NewHasher creates a new Hasher.
func NewHasher() *Hasher {
	return &Hasher{}
}

// ComputeFileHash computes the XXHash of a file's content.
func (h *Hasher) ComputeFileHash(path string) (uint64, error) {
	f, err := os.Open(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return 0, zerr.With(domain.WithCause(domain.ErrFileOpenFailed, err), "path", path)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	hasher := xxhash.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return 0, zerr.With(domain.WithCause(domain.ErrFileHashFailed, err), "path", path)
	}

	return hasher.Sum64(), nil
}

// ComputeFileDigest returns the hex form of ComputeFileHash.
func (h *Hasher) ComputeFileDigest(path string) (string, error) {
	sum, err := h.ComputeFileHash(path)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%016x", sum), nil
}

// DeriveKey joins the content digest with the digest of the canonical options.
func (h *Hasher) DeriveKey(contentDigest string, opts domain.Options) domain.CacheKey {
	return domain.CacheKey(contentDigest + "-" + h.OptionsDigest(opts))
}

// OptionsDigest hashes the canonical serialization of opts.
func (h *Hasher) OptionsDigest(opts domain.Options) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(canonicalOptions(opts)))
}

// canonicalOptions encodes the options as a JSON object. encoding/json sorts map
// keys, so the output does not depend on field or insertion order.
func canonicalOptions(opts domain.Options) []byte {
	fields := map[string]any{
		"numberOfPrimitives": opts.NumberOfPrimitives,
		"blur":               opts.Blur,
		"mode":               int(opts.Mode),
	}
	data, err := json.Marshal(fields)
	if err != nil {
		// NaN and infinities have no JSON number form. A quoted spelling keeps
		// them apart from each other and from every finite blur.
		fields["blur"] = strconv.FormatFloat(opts.Blur, 'g', -1, 64)
		data, _ = json.Marshal(fields) //nolint:errchkjson // Only ints and strings remain
	}
	return data
}

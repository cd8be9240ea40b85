// Package svg post-processes traced vector markup and encodes it for inlining.
package svg

import (
	"strings"

	"go.trai.ch/sqip/internal/core/ports"
)

// DataURIPrefix starts every encoded preview.
const DataURIPrefix = "data:image/svg+xml,"

const bom = "\ufeff"

var _ ports.Encoder = (*Encoder)(nil)

// Encoder produces compact, percent-encoded SVG data URIs.
type Encoder struct{}

// NewEncoder creates a new Encoder.
func NewEncoder() *Encoder {
	return &Encoder{}
}

// DataURI collapses whitespace, swaps double quotes for single quotes and
// percent-encodes the markup. Spaces, '=', ':' and '/' stay readable since
// browsers accept them unescaped inside a data URI.
func (e *Encoder) DataURI(svg string) string {
	svg = strings.TrimPrefix(svg, bom)
	body := strings.Join(strings.Fields(svg), " ")
	body = strings.ReplaceAll(body, `"`, "'")

	var b strings.Builder
	b.Grow(len(DataURIPrefix) + len(body) + len(body)/4)
	b.WriteString(DataURIPrefix)
	for i := 0; i < len(body); i++ {
		c := body[i]
		if keepLiteral(c) {
			b.WriteByte(c)
			continue
		}
		const hex = "0123456789abcdef"
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

func keepLiteral(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')', ' ', '=', ':', '/':
		return true
	}
	return false
}

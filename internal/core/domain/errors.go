package domain

import (
	"fmt"

	"go.trai.ch/zerr"
)

var (
	// ErrInvalidOptions is returned when generation options are out of range.
	ErrInvalidOptions = zerr.New("invalid generation options")

	// ErrInvalidMode is returned when a primitive mode name or number is not recognized.
	ErrInvalidMode = zerr.New("invalid primitive mode")

	// ErrInvalidCachePolicy is returned when a cache policy name is not recognized.
	ErrInvalidCachePolicy = zerr.New("invalid cache policy, expected 'return-cached' or 'regenerate-on-hit'")

	// ErrMissingImagePath is returned when a generation request has no image path.
	ErrMissingImagePath = zerr.New("missing image path")

	// ErrGenerationFailed is returned when the tracer could not produce vector markup.
	ErrGenerationFailed = zerr.New("failed to generate preview")

	// ErrTracerNotFound is returned when the tracer binary cannot be located.
	ErrTracerNotFound = zerr.New("tracer binary not found")

	// ErrArtifactReadFailed is returned when a persisted preview artifact cannot be read.
	ErrArtifactReadFailed = zerr.New("failed to read preview artifact")

	// ErrArtifactWriteFailed is returned when a preview artifact cannot be persisted.
	ErrArtifactWriteFailed = zerr.New("failed to write preview artifact")

	// ErrArtifactStatFailed is returned when the existence of an artifact cannot be determined.
	ErrArtifactStatFailed = zerr.New("failed to stat preview artifact")

	// ErrResultCacheReadFailed is returned when the result cache cannot be queried.
	ErrResultCacheReadFailed = zerr.New("failed to read result cache")

	// ErrResultCacheWriteFailed is returned when the result cache cannot be updated.
	ErrResultCacheWriteFailed = zerr.New("failed to write result cache")

	// ErrUnknownCacheBackend is returned when the configured result cache backend does not exist.
	ErrUnknownCacheBackend = zerr.New("unknown result cache backend, expected 'memory', 'disk' or 'redis'")

	// ErrQueueClosed is returned when a task is submitted to a closed queue.
	ErrQueueClosed = zerr.New("generation queue closed")

	// ErrTaskPanicked is returned when a queued task panics.
	ErrTaskPanicked = zerr.New("queued task panicked")

	// ErrFileOpenFailed is returned when a source image cannot be opened.
	ErrFileOpenFailed = zerr.New("failed to open file")

	// ErrFileHashFailed is returned when a source image cannot be hashed.
	ErrFileHashFailed = zerr.New("failed to hash file")

	// ErrConfigReadFailed is returned when the configuration file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the configuration file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrUnsupportedConfigVersion is returned when the configuration file declares an unknown version.
	ErrUnsupportedConfigVersion = zerr.New("unsupported config version")

	// ErrCleanFailed is returned when the cache directory cannot be removed.
	ErrCleanFailed = zerr.New("failed to clean cache")

	// ErrWatchFailed is returned when the image directory cannot be watched.
	ErrWatchFailed = zerr.New("failed to watch images")

	// ErrPreviewNameCollision is returned when two images would be written to the same preview file.
	ErrPreviewNameCollision = zerr.New("previews would share an output file")

	// ErrImageNotFound is returned when an image argument matches no file.
	ErrImageNotFound = zerr.New("image not found")

	// ErrNoImagesSpecified is returned when the generate command receives no images.
	ErrNoImagesSpecified = zerr.New("no images specified")
)

// WithCause returns an error matching both kind and cause with errors.Is.
// Its message reads "<kind>: <cause>". A nil cause returns nil.
func WithCause(kind, cause error) error {
	if cause == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", kind, cause)
}

package domain

// CacheKey identifies one preview: the source image digest joined with the options digest.
type CacheKey string

// String returns the key as a plain string.
func (k CacheKey) String() string {
	return string(k)
}

// GenerationRequest asks for the preview of one image under one set of options.
type GenerationRequest struct {
	ImagePath     string
	ContentDigest string
	Options       Options
}

// Validate checks that the request is complete.
func (r GenerationRequest) Validate() error {
	if r.ImagePath == "" {
		return ErrMissingImagePath
	}
	return r.Options.Validate()
}

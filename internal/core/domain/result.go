package domain

// PreviewResult is the outcome of a generation: the vector markup and its data URI.
type PreviewResult struct {
	SVG     string `json:"svg"`
	DataURI string `json:"dataURI"`
}

// NewPreviewResult builds a result whose DataURI is always the encoding of svg.
func NewPreviewResult(svg string, encode func(string) string) PreviewResult {
	return PreviewResult{
		SVG:     svg,
		DataURI: encode(svg),
	}
}

package ports

// Encoder turns vector markup into an inline data URI.
//
//go:generate mockgen -source=encoder.go -destination=mocks/mock_encoder.go -package=mocks
type Encoder interface {
	DataURI(svg string) string
}

package ports

// ImageResolver expands command line arguments into image paths.
//
//go:generate mockgen -source=resolver.go -destination=mocks/mock_resolver.go -package=mocks
type ImageResolver interface {
	// ResolveImages resolves files, directories and glob patterns relative to root.
	// Returns a sorted, de-duplicated list of absolute paths.
	ResolveImages(patterns []string, root string) ([]string, error)
}

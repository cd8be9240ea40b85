package domain

import "path/filepath"

const (
	// SqipDirName is the name of the internal working directory.
	SqipDirName = ".sqip"

	// CacheDirName is the name of the artifact cache directory.
	CacheDirName = "cache"

	// ResultsDirName is the name of the on-disk result cache directory.
	ResultsDirName = "results"

	// ConfigFileName is the name of the project configuration file.
	ConfigFileName = "sqip.yaml"

	// ArtifactExt is the file extension of persisted preview artifacts.
	ArtifactExt = ".svg"

	// ResultExt is the file extension of on-disk result cache entries.
	ResultExt = ".json.zst"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// PrivateFilePerm is the default permission for private files (rw-------).
	PrivateFilePerm = 0o600
)

// DefaultSqipPath returns the default root directory for sqip metadata.
func DefaultSqipPath() string {
	return SqipDirName
}

// DefaultCachePath returns the default path for preview artifacts.
// It joins .sqip and cache.
func DefaultCachePath() string {
	return filepath.Join(SqipDirName, CacheDirName)
}

// ResultsPath returns the on-disk result cache directory inside cacheDir.
func ResultsPath(cacheDir string) string {
	return filepath.Join(cacheDir, ResultsDirName)
}

// ArtifactPath returns the location of the artifact for key inside cacheDir.
func ArtifactPath(cacheDir string, key CacheKey) string {
	return filepath.Join(cacheDir, string(key)+ArtifactExt)
}

package fs

// CanonicalOptions exposes canonicalOptions for tests.
var CanonicalOptions = canonicalOptions

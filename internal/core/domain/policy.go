package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// CachePolicy decides what the generator does when the result cache already holds an entry.
type CachePolicy int

const (
	// PolicyReturnCached returns the cached result without touching the tracer.
	PolicyReturnCached CachePolicy = iota
	// PolicyRegenerateOnHit traces again on a hit and overwrites the artifact and the cache entry.
	PolicyRegenerateOnHit
)

const (
	policyReturnCachedName    = "return-cached"
	policyRegenerateOnHitName = "regenerate-on-hit"
)

// String returns the configuration name of the policy.
func (p CachePolicy) String() string {
	switch p {
	case PolicyReturnCached:
		return policyReturnCachedName
	case PolicyRegenerateOnHit:
		return policyRegenerateOnHitName
	default:
		return "unknown"
	}
}

// ParseCachePolicy converts a configuration value into a CachePolicy.
// The empty string selects PolicyReturnCached.
func ParseCachePolicy(s string) (CachePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", policyReturnCachedName:
		return PolicyReturnCached, nil
	case policyRegenerateOnHitName:
		return PolicyRegenerateOnHit, nil
	default:
		return 0, zerr.With(zerr.Wrap(ErrInvalidCachePolicy, "unknown policy"), "policy", s)
	}
}

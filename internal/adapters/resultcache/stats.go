package resultcache

import "fmt"

// Stats reports cache effectiveness counters.
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Entries   int64
}

// HitRate returns the fraction of lookups that were hits.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

func (s Stats) String() string {
	return fmt.Sprintf("%d hits, %d misses (%.0f%% hit rate), %d evictions, %d entries",
		s.Hits, s.Misses, s.HitRate()*100, s.Evictions, s.Entries)
}

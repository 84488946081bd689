package store

// Stats describes the entries currently held plus lifetime counters.
// Expired entries that have not been swept yet are included.
type Stats struct {
	Name               string  `json:"name"`
	Size               int     `json:"size"`
	MaxSize            int     `json:"max_size"`
	TotalAccessCount   int64   `json:"total_access_count"`
	AverageAccessCount float64 `json:"average_access_count"`

	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	Evictions int64 `json:"evictions"`
	Expired   int64 `json:"expired"`
}

// HitRatio is hits over all reads, zero before the first read.
func (st Stats) HitRatio() float64 {
	reads := st.Hits + st.Misses
	if reads == 0 {
		return 0
	}
	return float64(st.Hits) / float64(reads)
}

// Stats is read-only: it neither sweeps nor touches access bookkeeping.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Stats{
		Name:      s.name,
		Size:      len(s.data),
		MaxSize:   s.config.MaxSize,
		Hits:      s.hits,
		Misses:    s.misses,
		Evictions: s.evicted,
		Expired:   s.expired,
	}
	for _, e := range s.data {
		st.TotalAccessCount += e.AccessCount
	}
	if st.Size > 0 {
		st.AverageAccessCount = float64(st.TotalAccessCount) / float64(st.Size)
	}
	return st
}

package store

import "time"

// Entry represents a single value stored in the cache.
//
// LastAccessedAt is only used to order eviction; it never drives expiry.
type Entry struct {
	Value          any
	InsertedAt     time.Time
	TTL            time.Duration
	AccessCount    int64
	LastAccessedAt time.Time
}

// IsExpired checks whether the entry is expired at the given time.
// An entry read exactly TTL after insertion is still live.
func (e *Entry) IsExpired(now time.Time) bool {
	return now.Sub(e.InsertedAt) > e.TTL
}

// ExpiresAt is the last instant at which the entry is readable.
func (e *Entry) ExpiresAt() time.Time {
	return e.InsertedAt.Add(e.TTL)
}

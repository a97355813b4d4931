package cache

import (
	"encoding/json"
	"time"
)

// Entry is one cached JSON value. Entries are immutable once stored; Set
// replaces the whole entry.
type Entry struct {
	Key       string          `json:"key"`
	Data      json.RawMessage `json:"data"`
	CreatedAt time.Time       `json:"createdAt"`
	ExpiresAt time.Time       `json:"expiresAt"`
}

// NewEntry creates an entry stored at now that lives for ttlSeconds.
func NewEntry(key string, data json.RawMessage, ttlSeconds int, now time.Time) *Entry {
	return &Entry{
		Key:       key,
		Data:      data,
		CreatedAt: now,
		ExpiresAt: now.Add(time.Duration(ttlSeconds) * time.Second),
	}
}

// ExpiredAt reports whether the entry has expired at t. An entry is dead
// from its expiry instant onward.
func (e *Entry) ExpiredAt(t time.Time) bool {
	return !t.Before(e.ExpiresAt)
}

// RemainingAt returns the lifetime left at t, never negative.
func (e *Entry) RemainingAt(t time.Time) time.Duration {
	return max(e.ExpiresAt.Sub(t), 0)
}

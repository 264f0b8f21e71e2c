package auth

import (
	"sync"
	"time"
)

// RevocationList remembers revoked token ids until they expire.
type RevocationList struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

// NewRevocationList creates an empty list. A nil clock uses time.Now.
func NewRevocationList(now func() time.Time) *RevocationList {
	if now == nil {
		now = time.Now
	}
	return &RevocationList{
		revoked: make(map[string]time.Time),
		now:     now,
	}
}

// Revoke marks id as revoked until the given time.
func (l *RevocationList) Revoke(id string, until time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.revoked[id] = until
	l.pruneLocked()
}

// IsRevoked reports whether id has been revoked.
func (l *RevocationList) IsRevoked(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	until, ok := l.revoked[id]
	return ok && l.now().Before(until)
}

// Len returns the number of tracked ids.
func (l *RevocationList) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.revoked)
}

func (l *RevocationList) pruneLocked() {
	now := l.now()
	for id, until := range l.revoked {
		if !now.Before(until) {
			delete(l.revoked, id)
		}
	}
}

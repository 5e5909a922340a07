// Package history keeps the bounded, newest-first list of past translations
// and persists it as a single JSON value in a key-value backend.
package history

import (
	"time"

	"github.com/google/uuid"
)

// MaxEntries caps the store; older entries are dropped on insert.
const MaxEntries = 200

// Entry is one persisted translation.
type Entry struct {
	ID   string `json:"id"`
	When int64  `json:"when"` // milliseconds since epoch
	Src  string `json:"src"`
	Dst  string `json:"dst"`
}

// NewEntry builds an entry with a fresh random id.
func NewEntry(src, dst string, at time.Time) Entry {
	return Entry{
		ID:   uuid.NewString(),
		When: at.UnixMilli(),
		Src:  src,
		Dst:  dst,
	}
}

// Time returns the creation time.
func (e Entry) Time() time.Time {
	return time.UnixMilli(e.When)
}

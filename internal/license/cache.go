package license

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// CacheEntry is the last revocation status confirmed online for a user.
type CacheEntry struct {
	Revoked   bool      `json:"revoked"`
	CheckedAt time.Time `json:"checked_at"`
}

// StatusCache remembers the outcome of successful online revocation
// checks so verification can degrade gracefully when the authority is
// unreachable. Entries older than the staleness tolerance are unusable.
type StatusCache struct {
	entries   *expirable.LRU[string, CacheEntry]
	tolerance time.Duration
}

// NewStatusCache builds a cache holding up to size entries. tolerance
// bounds how old a cached status may be before the offline fallback
// refuses to use it.
func NewStatusCache(size int, tolerance time.Duration) *StatusCache {
	if size <= 0 {
		size = 1024
	}
	return &StatusCache{
		entries:   expirable.NewLRU[string, CacheEntry](size, nil, tolerance),
		tolerance: tolerance,
	}
}

// Record stores the status returned by a successful online check.
func (c *StatusCache) Record(userID string, revoked bool, at time.Time) {
	c.entries.Add(userID, CacheEntry{Revoked: revoked, CheckedAt: at})
}

// Lookup returns the cached status for userID if one exists and is still
// within the staleness tolerance as of now. The age check runs against
// the caller's clock, not the LRU's, so verification stays deterministic
// under an injected time source.
func (c *StatusCache) Lookup(userID string, now time.Time) (CacheEntry, bool) {
	entry, ok := c.entries.Get(userID)
	if !ok {
		return CacheEntry{}, false
	}
	if now.Sub(entry.CheckedAt) > c.tolerance {
		return CacheEntry{}, false
	}
	return entry, true
}

// SaveFile persists the cache contents so a short-lived verifying
// process keeps its grace window across restarts.
func (c *StatusCache) SaveFile(path string) error {
	snapshot := make(map[string]CacheEntry, c.entries.Len())
	for _, userID := range c.entries.Keys() {
		if entry, ok := c.entries.Peek(userID); ok {
			snapshot[userID] = entry
		}
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal status cache: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write status cache: %w", err)
	}
	return nil
}

// LoadFile restores a previously saved cache. A missing file is not an
// error; it just means no prior online check.
func (c *StatusCache) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read status cache: %w", err)
	}
	var snapshot map[string]CacheEntry
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return fmt.Errorf("failed to parse status cache: %w", err)
	}
	for userID, entry := range snapshot {
		c.entries.Add(userID, entry)
	}
	return nil
}

package ledger

import (
	"context"
	"sync"
)

// Ledger is the authoritative registry of revoked identities. An unknown
// userID is not revoked; no pre-registration is required. Revoke is
// idempotent and there is no transition back to not-revoked.
type Ledger interface {
	Revoke(ctx context.Context, userID string) error
	IsRevoked(ctx context.Context, userID string) (bool, error)
}

// Memory is the in-process Ledger: a mutex-guarded set of revoked
// userIDs. Safe for concurrent use from any number of callers; every
// operation is O(1) so a single lock is enough.
type Memory struct {
	mu      sync.Mutex
	revoked map[string]struct{}
}

func NewMemory() *Memory {
	return &Memory{revoked: make(map[string]struct{})}
}

func (m *Memory) Revoke(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked[userID] = struct{}{}
	return nil
}

func (m *Memory) IsRevoked(ctx context.Context, userID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.revoked[userID]
	return ok, nil
}

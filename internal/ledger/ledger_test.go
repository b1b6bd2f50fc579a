package ledger

import (
	"context"
	"fmt"
	"sync"
	"testing"
)

func TestMemoryDefaultsToNotRevoked(t *testing.T) {
	m := NewMemory()

	revoked, err := m.IsRevoked(context.Background(), "never-seen")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if revoked {
		t.Error("unknown user reported as revoked")
	}
}

func TestMemoryRevokeIsIdempotent(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if err := m.Revoke(ctx, "demo-user"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.Revoke(ctx, "demo-user"); err != nil {
		t.Fatalf("second revoke errored: %v", err)
	}

	revoked, err := m.IsRevoked(ctx, "demo-user")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !revoked {
		t.Error("revoked user reported as not revoked")
	}

	// Other users are unaffected.
	revoked, _ = m.IsRevoked(ctx, "other-user")
	if revoked {
		t.Error("unrelated user reported as revoked")
	}
}

func TestMemoryConcurrentAccess(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		userID := fmt.Sprintf("user-%d", i%10)
		wg.Add(2)
		go func() {
			defer wg.Done()
			if err := m.Revoke(ctx, userID); err != nil {
				t.Errorf("revoke failed: %v", err)
			}
		}()
		go func() {
			defer wg.Done()
			if _, err := m.IsRevoked(ctx, userID); err != nil {
				t.Errorf("read failed: %v", err)
			}
		}()
	}
	wg.Wait()

	for i := 0; i < 10; i++ {
		userID := fmt.Sprintf("user-%d", i)
		revoked, err := m.IsRevoked(ctx, userID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !revoked {
			t.Errorf("%s lost its revocation", userID)
		}
	}
}

package license

import (
	"context"
	"crypto/ed25519"
	"time"

	"tollgate/internal/token"
)

// Reason classifies why a verification attempt rejected a license. Each
// kind implies a different remediation, so callers surface it verbatim.
type Reason string

const (
	ReasonSignatureMismatch Reason = "signature_mismatch"
	ReasonMalformedToken    Reason = "malformed_token"
	ReasonExpired           Reason = "expired"
	ReasonRevoked           Reason = "revoked"
	ReasonUnreachable       Reason = "unreachable"
)

// Confirmation records how far the revocation check got. A valid result
// that was not confirmed online must never be presented as if it had
// been.
type Confirmation string

const (
	// ConfirmedOnline means the ledger answered during this verification.
	ConfirmedOnline Confirmation = "online"
	// CachedOffline means the ledger was unreachable and the decision
	// used a cached status still within the staleness tolerance.
	CachedOffline Confirmation = "cached_offline"
	// UnconfirmedOffline means the ledger was unreachable and no usable
	// cache entry existed; the result is provisional.
	UnconfirmedOffline Confirmation = "unconfirmed_offline"
)

// Result is the outcome of one verification attempt. When Valid is false
// Reason is set; Confirmation is set only once verification got past the
// local checks and reached the revocation stage.
type Result struct {
	Valid         bool
	Reason        Reason
	Token         token.Token
	DaysRemaining int
	Confirmation  Confirmation
}

// Unconfirmed reports whether a valid result still lacks online
// confirmation of revocation status.
func (r Result) Unconfirmed() bool {
	return r.Valid && r.Confirmation != ConfirmedOnline
}

// RevocationQuery asks the authority whether userID has been revoked.
// It crosses a process boundary in deployment and may fail or time out;
// any error is treated as unreachable, never as an answer.
type RevocationQuery func(ctx context.Context, userID string) (bool, error)

// Verifier runs the two-phase license check: offline cryptographic
// validation, then an online revocation check with a cached fallback.
// It holds no mutable state of its own and is safe for concurrent use;
// the StatusCache is internally synchronized.
type Verifier struct {
	Trusted ed25519.PublicKey
	Query   RevocationQuery
	Cache   *StatusCache

	// QueryTimeout bounds each revocation query so a stalled authority
	// cannot hang the verifying process.
	QueryTimeout time.Duration

	// FailClosed turns "unreachable with no usable cache entry" into a
	// rejection instead of an unconfirmed pass. Off by default to match
	// the reference behavior; flipping it is a policy decision.
	FailClosed bool

	// Now is the time source for expiry and staleness decisions.
	Now func() time.Time
}

const defaultQueryTimeout = 5 * time.Second

func NewVerifier(trusted ed25519.PublicKey, query RevocationQuery, cache *StatusCache) *Verifier {
	return &Verifier{
		Trusted:      trusted,
		Query:        query,
		Cache:        cache,
		QueryTimeout: defaultQueryTimeout,
		Now:          time.Now,
	}
}

// Verify checks a stored license artifact: the canonical token bytes and
// the detached signature. The order is load-bearing. The signature is
// checked over the raw bytes before any field is decoded or trusted;
// expiry is checked before revocation so dead tokens never cost a
// network round trip.
func (v *Verifier) Verify(ctx context.Context, tokenBytes, signature []byte) Result {
	if len(signature) != ed25519.SignatureSize || !ed25519.Verify(v.Trusted, tokenBytes, signature) {
		return Result{Reason: ReasonSignatureMismatch}
	}

	t, err := token.Decode(tokenBytes)
	if err != nil {
		return Result{Reason: ReasonMalformedToken}
	}

	now := v.Now()
	if now.Unix() >= t.ExpiresAt {
		return Result{Reason: ReasonExpired, Token: t}
	}
	daysRemaining := int((t.ExpiresAt - now.Unix()) / 86400)

	revoked, err := v.queryRevocation(ctx, t.UserID)
	if err == nil {
		if v.Cache != nil {
			v.Cache.Record(t.UserID, revoked, now)
		}
		if revoked {
			return Result{Reason: ReasonRevoked, Token: t, Confirmation: ConfirmedOnline}
		}
		return Result{Valid: true, Token: t, DaysRemaining: daysRemaining, Confirmation: ConfirmedOnline}
	}

	if entry, ok := v.cachedStatus(t.UserID, now); ok {
		if entry.Revoked {
			return Result{Reason: ReasonRevoked, Token: t, Confirmation: CachedOffline}
		}
		return Result{Valid: true, Token: t, DaysRemaining: daysRemaining, Confirmation: CachedOffline}
	}

	if v.FailClosed {
		return Result{Reason: ReasonUnreachable, Token: t}
	}
	return Result{Valid: true, Token: t, DaysRemaining: daysRemaining, Confirmation: UnconfirmedOffline}
}

func (v *Verifier) cachedStatus(userID string, now time.Time) (CacheEntry, bool) {
	if v.Cache == nil {
		return CacheEntry{}, false
	}
	return v.Cache.Lookup(userID, now)
}

func (v *Verifier) queryRevocation(ctx context.Context, userID string) (bool, error) {
	if v.Query == nil {
		return false, context.DeadlineExceeded
	}
	timeout := v.QueryTimeout
	if timeout <= 0 {
		timeout = defaultQueryTimeout
	}
	qctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return v.Query(qctx, userID)
}

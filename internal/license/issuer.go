package license

import (
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"tollgate/internal/keys"
	"tollgate/internal/token"
)

// ErrInvalidRequest is returned for bad issuance parameters. Nothing is
// mutated when it is returned.
var ErrInvalidRequest = errors.New("invalid request")

// SignedLicense pairs a token with the authority's signature over its
// canonical encoding. Encoded is the exact byte sequence that was signed;
// it is what gets transported and stored, and any mutation of it shows up
// as a signature mismatch at verification time.
type SignedLicense struct {
	Token     token.Token
	Encoded   []byte
	Signature []byte
}

// SignatureHex returns the signature in the hex form used on the wire.
func (s SignedLicense) SignatureHex() string {
	return hex.EncodeToString(s.Signature)
}

// ParseSignatureHex decodes a hex signature as served by the issue
// endpoint.
func ParseSignatureHex(s string) ([]byte, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("failed to decode signature: %w", err)
	}
	return b, nil
}

// Issuer mints signed trial licenses. It is stateless apart from the
// authority reference and safe for concurrent use.
type Issuer struct {
	Authority *keys.Authority

	// Now is the time source for issuance timestamps. Tests replace it.
	Now func() time.Time
}

func NewIssuer(a *keys.Authority) *Issuer {
	return &Issuer{Authority: a, Now: time.Now}
}

// Issue constructs a token valid from now until now+ttl, encodes it
// canonically and signs the encoding. The ttl must be at least one
// second so the validity window is non-empty in Unix seconds.
func (i *Issuer) Issue(userID string, ttl time.Duration) (SignedLicense, error) {
	if userID == "" {
		return SignedLicense{}, fmt.Errorf("%w: empty user id", ErrInvalidRequest)
	}
	if ttl < time.Second {
		return SignedLicense{}, fmt.Errorf("%w: ttl must be positive", ErrInvalidRequest)
	}

	now := i.Now().Unix()
	t := token.Token{
		UserID:    userID,
		IssuedAt:  now,
		ExpiresAt: now + int64(ttl/time.Second),
	}

	encoded, err := token.Encode(t)
	if err != nil {
		return SignedLicense{}, fmt.Errorf("failed to encode token: %w", err)
	}

	return SignedLicense{
		Token:     t,
		Encoded:   encoded,
		Signature: i.Authority.Sign(encoded),
	}, nil
}

package keys

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

// Authority holds the issuing keypair for the lifetime of the process.
// The private key never leaves this package: callers get Sign and the
// public half, nothing else.
type Authority struct {
	priv ed25519.PrivateKey
	pub  ed25519.PublicKey
}

// Generate creates a fresh authority from the system entropy source.
// Failure here is fatal for the caller; there is no degraded mode for
// a process that cannot mint keys.
func Generate() (*Authority, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate keys: %w", err)
	}
	return &Authority{priv: priv, pub: pub}, nil
}

// FromPrivateKeyBase64 rebuilds an authority from a configured private key.
// The public half is derived from the private key, not taken on trust.
func FromPrivateKeyBase64(privateKeyBase64 string) (*Authority, error) {
	privBytes, err := base64.StdEncoding.DecodeString(privateKeyBase64)
	if err != nil {
		return nil, fmt.Errorf("failed to decode private key: %w", err)
	}
	if len(privBytes) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("invalid private key size: %d", len(privBytes))
	}
	priv := ed25519.PrivateKey(privBytes)
	pub := priv.Public().(ed25519.PublicKey)
	return &Authority{priv: priv, pub: pub}, nil
}

// Sign signs msg with the authority's private key.
func (a *Authority) Sign(msg []byte) []byte {
	return ed25519.Sign(a.priv, msg)
}

// PublicKey returns the 32-byte verification key.
func (a *Authority) PublicKey() ed25519.PublicKey {
	return a.pub
}

// PublicKeyHex returns the verification key in the hex form served over
// the API and embedded by verifying applications.
func (a *Authority) PublicKeyHex() string {
	return hex.EncodeToString(a.pub)
}

// PrivateKeyBase64 exports the private key for persistence into config.
// Only config self-provisioning should call this; it must never end up
// in a log line or an API response.
func (a *Authority) PrivateKeyBase64() string {
	return base64.StdEncoding.EncodeToString(a.priv)
}

// ParsePublicKeyHex decodes a hex trust anchor as distributed to
// verifying applications.
func ParsePublicKeyHex(s string) (ed25519.PublicKey, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("failed to decode public key: %w", err)
	}
	if len(b) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("invalid public key size: %d", len(b))
	}
	return ed25519.PublicKey(b), nil
}

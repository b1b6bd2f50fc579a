package keys

import (
	"bytes"
	"crypto/ed25519"
	"testing"
)

func TestGenerateAndSign(t *testing.T) {
	authority, err := Generate()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	msg := []byte("the canonical token bytes")
	sig := authority.Sign(msg)
	if len(sig) != ed25519.SignatureSize {
		t.Fatalf("signature size = %d, want %d", len(sig), ed25519.SignatureSize)
	}
	if !ed25519.Verify(authority.PublicKey(), msg, sig) {
		t.Error("signature does not verify against own public key")
	}

	other, err := Generate()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bytes.Equal(authority.PublicKey(), other.PublicKey()) {
		t.Error("two generated authorities share a public key")
	}
	if ed25519.Verify(other.PublicKey(), msg, sig) {
		t.Error("signature verifies against an unrelated public key")
	}
}

func TestFromPrivateKeyBase64(t *testing.T) {
	authority, err := Generate()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	restored, err := FromPrivateKeyBase64(authority.PrivateKeyBase64())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The public half is derived, not stored, so it must match.
	if !bytes.Equal(authority.PublicKey(), restored.PublicKey()) {
		t.Error("restored authority derived a different public key")
	}

	msg := []byte("hello")
	if !ed25519.Verify(authority.PublicKey(), msg, restored.Sign(msg)) {
		t.Error("restored authority signatures do not verify")
	}

	if _, err := FromPrivateKeyBase64("not base64!!"); err == nil {
		t.Error("expected error for invalid base64")
	}
	if _, err := FromPrivateKeyBase64("aGVsbG8="); err == nil {
		t.Error("expected error for wrong key size")
	}
}

func TestParsePublicKeyHex(t *testing.T) {
	authority, err := Generate()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	pub, err := ParsePublicKeyHex(authority.PublicKeyHex())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(pub, authority.PublicKey()) {
		t.Error("hex round trip changed the key")
	}

	if _, err := ParsePublicKeyHex("zzzz"); err == nil {
		t.Error("expected error for invalid hex")
	}
	if _, err := ParsePublicKeyHex("abcd"); err == nil {
		t.Error("expected error for short key")
	}
}

package token

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformed is returned by Decode when the input is not something
// Encode could have produced. Use errors.Is() to test for it.
var ErrMalformed = errors.New("malformed token")

// Token is the unsigned trial entitlement: an identity plus its validity
// window in Unix seconds. It is a value; equality is field equality.
type Token struct {
	UserID    string `json:"user_id"`
	IssuedAt  int64  `json:"issued_at"`
	ExpiresAt int64  `json:"expires_at"`
}

// Validate checks the structural invariants shared by Encode and Decode.
func (t Token) Validate() error {
	if t.UserID == "" {
		return fmt.Errorf("%w: empty user_id", ErrMalformed)
	}
	if t.IssuedAt <= 0 {
		return fmt.Errorf("%w: issued_at must be positive", ErrMalformed)
	}
	if t.ExpiresAt <= t.IssuedAt {
		return fmt.Errorf("%w: expires_at must be after issued_at", ErrMalformed)
	}
	return nil
}

// Encode produces the canonical byte form of a token. The field order is
// frozen: user_id, issued_at, expires_at. These exact bytes are what gets
// signed, and what Decode must hand back unchanged for signatures to keep
// verifying. Equal tokens always encode to byte-identical output.
func Encode(t Token) ([]byte, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(t)
}

// Decode is the inverse of Encode. It rejects anything Encode could not
// have produced: unknown fields, missing fields, wrong types, or a token
// failing its own invariants.
func Decode(data []byte) (Token, error) {
	var t Token
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&t); err != nil {
		return Token{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	// Trailing garbage after the JSON object is not canonical either.
	if dec.More() {
		return Token{}, fmt.Errorf("%w: trailing data", ErrMalformed)
	}
	if err := t.Validate(); err != nil {
		return Token{}, err
	}
	return t, nil
}

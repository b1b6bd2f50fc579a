// Package client talks to the trial authority over HTTP. It is the
// verifying side's only network dependency: CheckRevocation satisfies
// license.RevocationQuery, and any transport failure surfaces as an
// error so the verifier can take the offline path.
package client

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"tollgate/internal/keys"
)

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

// IssueResponse is the wire form of an issued trial: the canonical token
// bytes as a string and the detached signature in hex. Both must be
// stored byte-identical or verification will report tampering.
type IssueResponse struct {
	Token     string `json:"token"`
	Signature string `json:"signature"`
	ExpiresAt int64  `json:"expires_at"`
}

// FetchLicense requests a new trial for userID.
func (c *Client) FetchLicense(ctx context.Context, userID string) (*IssueResponse, error) {
	body, err := json.Marshal(map[string]string{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to encode issue request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/trial/issue", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build issue request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var issued IssueResponse
	if err := c.do(req, &issued); err != nil {
		return nil, err
	}
	if issued.Token == "" || issued.Signature == "" {
		return nil, fmt.Errorf("issue response missing token or signature")
	}
	return &issued, nil
}

// CheckRevocation asks whether userID has been revoked. The error path
// means unreachable, never an answer; callers fall back to their cache.
func (c *Client) CheckRevocation(ctx context.Context, userID string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/api/trial/check?user_id="+url.QueryEscape(userID), nil)
	if err != nil {
		return false, fmt.Errorf("failed to build check request: %w", err)
	}

	var resp struct {
		Revoked bool `json:"revoked"`
	}
	if err := c.do(req, &resp); err != nil {
		return false, err
	}
	return resp.Revoked, nil
}

// PublicKey fetches the authority's verification key. Intended for
// provisioning only; a deployed verifier pins the key instead of asking
// the server it is about to distrust.
func (c *Client) PublicKey(ctx context.Context) (ed25519.PublicKey, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/api/public-key", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build public key request: %w", err)
	}

	var resp struct {
		PublicKey string `json:"public_key"`
	}
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}
	return keys.ParsePublicKeyHex(resp.PublicKey)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

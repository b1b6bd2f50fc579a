package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tollgate/internal/keys"
)

func TestFetchLicense(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/trial/issue", r.URL.Path)

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "demo-user", req["user_id"])

		json.NewEncoder(w).Encode(map[string]interface{}{
			"token":      `{"user_id":"demo-user","issued_at":1700000000,"expires_at":1701209600}`,
			"signature":  "deadbeef",
			"expires_at": 1701209600,
		})
	}))
	defer ts.Close()

	issued, err := New(ts.URL).FetchLicense(context.Background(), "demo-user")
	require.NoError(t, err)
	assert.Contains(t, issued.Token, `"user_id":"demo-user"`)
	assert.Equal(t, "deadbeef", issued.Signature)
	assert.Equal(t, int64(1701209600), issued.ExpiresAt)
}

func TestFetchLicenseRejectsEmptyResponse(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{})
	}))
	defer ts.Close()

	_, err := New(ts.URL).FetchLicense(context.Background(), "demo-user")
	assert.Error(t, err)
}

func TestFetchLicenseServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"nope"}`, http.StatusBadRequest)
	}))
	defer ts.Close()

	_, err := New(ts.URL).FetchLicense(context.Background(), "demo-user")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
}

func TestCheckRevocation(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/trial/check", r.URL.Path)
		revoked := r.URL.Query().Get("user_id") == "bad-user"
		json.NewEncoder(w).Encode(map[string]bool{"revoked": revoked})
	}))
	defer ts.Close()

	c := New(ts.URL)

	revoked, err := c.CheckRevocation(context.Background(), "good-user")
	require.NoError(t, err)
	assert.False(t, revoked)

	revoked, err = c.CheckRevocation(context.Background(), "bad-user")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestCheckRevocationHonorsContextDeadline(t *testing.T) {
	blocked := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-blocked
	}))
	defer func() {
		close(blocked)
		ts.Close()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := New(ts.URL).CheckRevocation(ctx, "demo-user")
	assert.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestCheckRevocationUnreachableHost(t *testing.T) {
	c := New("http://127.0.0.1:1")
	c.HTTP.Timeout = 250 * time.Millisecond

	_, err := c.CheckRevocation(context.Background(), "demo-user")
	assert.Error(t, err)
}

func TestPublicKey(t *testing.T) {
	authority, err := keys.Generate()
	require.NoError(t, err)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/public-key", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]string{
			"public_key": authority.PublicKeyHex(),
			"format":     "ed25519",
		})
	}))
	defer ts.Close()

	pub, err := New(ts.URL).PublicKey(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte(authority.PublicKey()), []byte(pub))
}

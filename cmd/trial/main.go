// Command trial is the consuming application. It refuses to run unless
// the stored license passes the two-phase check: offline signature and
// expiry validation against the pinned trust anchor, then an online
// revocation check degrading to the cached status when the authority is
// unreachable.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"tollgate/internal/client"
	"tollgate/internal/config"
	"tollgate/internal/keys"
	"tollgate/internal/license"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	var tokenPath, signaturePath string
	flag.StringVar(&tokenPath, "token", "trial.token", "Path to the stored token bytes")
	flag.StringVar(&signaturePath, "signature", "trial.signature", "Path to the stored hex signature")
	flag.Parse()

	if cfg.Verifier.PublicKey == "" {
		fmt.Fprintln(os.Stderr, "No trust anchor configured. Set verifier.public_key in config.yaml or TRIAL_PUBLIC_KEY.")
		os.Exit(1)
	}
	trusted, err := keys.ParsePublicKeyHex(cfg.Verifier.PublicKey)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid trust anchor: %v\n", err)
		os.Exit(1)
	}

	tokenBytes, err := os.ReadFile(tokenPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "No trial token found at %s. Run the fetch command first.\n", tokenPath)
		os.Exit(1)
	}
	signatureHex, err := os.ReadFile(signaturePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "No trial signature found at %s. Run the fetch command first.\n", signaturePath)
		os.Exit(1)
	}
	signature, err := license.ParseSignatureHex(strings.TrimSpace(string(signatureHex)))
	if err != nil {
		fmt.Fprintf(os.Stderr, "LICENSE INVALID: signature file is not valid hex: %v\n", err)
		os.Exit(1)
	}

	cache := license.NewStatusCache(cfg.Verifier.CacheSize, cfg.Verifier.StalenessTolerance)
	if err := cache.LoadFile(cfg.Verifier.CacheFile); err != nil {
		slog.Warn("Could not load offline status cache", "error", err)
	}

	verifier := license.NewVerifier(trusted, client.New(cfg.Verifier.ServerURL).CheckRevocation, cache)
	verifier.QueryTimeout = cfg.Verifier.QueryTimeout
	verifier.FailClosed = cfg.Verifier.FailClosed

	result := verifier.Verify(context.Background(), tokenBytes, signature)

	if err := cache.SaveFile(cfg.Verifier.CacheFile); err != nil {
		slog.Warn("Could not save offline status cache", "error", err)
	}

	if !result.Valid {
		switch result.Reason {
		case license.ReasonSignatureMismatch:
			fmt.Fprintln(os.Stderr, "LICENSE INVALID: the token was tampered with or not issued by the trusted authority.")
		case license.ReasonMalformedToken:
			fmt.Fprintln(os.Stderr, "LICENSE INVALID: the token file is corrupt.")
		case license.ReasonExpired:
			fmt.Fprintln(os.Stderr, "TRIAL EXPIRED: contact support to upgrade.")
		case license.ReasonRevoked:
			fmt.Fprintln(os.Stderr, "LICENSE REVOKED by the authority.")
		case license.ReasonUnreachable:
			fmt.Fprintln(os.Stderr, "LICENSE CHECK REQUIRED: the authority is unreachable and no recent online check exists.")
		}
		os.Exit(1)
	}

	switch result.Confirmation {
	case license.ConfirmedOnline:
		fmt.Println("License verified online.")
	case license.CachedOffline:
		fmt.Println("Authority unreachable; using cached revocation status (unconfirmed).")
	case license.UnconfirmedOffline:
		fmt.Println("Authority unreachable and no cached status; proceeding unconfirmed.")
	}

	fmt.Printf("LICENSE VALID for %s, %d day(s) remaining.\n", result.Token.UserID, result.DaysRemaining)
	fmt.Printf("Hello, %s. All features are unlocked.\n", result.Token.UserID)
}

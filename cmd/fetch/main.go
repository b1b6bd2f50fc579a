// Command fetch requests a trial license from the authority and writes
// the two artifacts the trial application verifies on startup.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"tollgate/internal/client"
	"tollgate/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	var serverURL, userID, outDir string
	flag.StringVar(&serverURL, "server", cfg.Verifier.ServerURL, "Trial server base URL")
	flag.StringVar(&userID, "user", "demo-user", "User identity to request a trial for")
	flag.StringVar(&outDir, "out", ".", "Directory to write trial.token and trial.signature into")
	flag.Parse()

	fmt.Printf("Requesting trial license for %q from %s\n", userID, serverURL)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	issued, err := client.New(serverURL).FetchLicense(ctx, userID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to fetch license: %v\n", err)
		os.Exit(1)
	}

	tokenPath := filepath.Join(outDir, "trial.token")
	signaturePath := filepath.Join(outDir, "trial.signature")

	// The token bytes are what got signed; write them verbatim. Any
	// rewrite, even whitespace, breaks the signature.
	if err := os.WriteFile(tokenPath, []byte(issued.Token), 0o600); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write token: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(signaturePath, []byte(issued.Signature), 0o600); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write signature: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("License files written:")
	fmt.Println("  " + tokenPath)
	fmt.Println("  " + signaturePath)
	fmt.Printf("Trial expires at %s\n", time.Unix(issued.ExpiresAt, 0).UTC().Format(time.RFC3339))
}

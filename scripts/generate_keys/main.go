package main

import (
	"encoding/base64"
	"fmt"

	"tollgate/internal/keys"
)

func main() {
	authority, err := keys.Generate()
	if err != nil {
		panic(err)
	}

	privBase64 := authority.PrivateKeyBase64()
	pubBase64 := base64.StdEncoding.EncodeToString(authority.PublicKey())

	fmt.Printf("\nGenerated Ed25519 Keys:\n")
	fmt.Printf("----------------------------------------------------------------\n")
	fmt.Printf("SigningPrivateKey: %s\n", privBase64)
	fmt.Printf("SigningPublicKey:  %s\n", pubBase64)
	fmt.Printf("TrustAnchor (hex): %s\n", authority.PublicKeyHex())
	fmt.Printf("----------------------------------------------------------------\n")
	fmt.Printf("\nAdd these to your config.yaml or environment variables:\n")
	fmt.Printf("config.yaml:\n")
	fmt.Printf("  signing_private_key: \"%s\"\n", privBase64)
	fmt.Printf("  signing_public_key: \"%s\"\n", pubBase64)
	fmt.Printf("\nEnvironment Variables:\n")
	fmt.Printf("  SIGNING_PRIVATE_KEY=%s\n", privBase64)
	fmt.Printf("  SIGNING_PUBLIC_KEY=%s\n", pubBase64)
	fmt.Printf("\nVerifying applications pin the hex trust anchor (TRIAL_PUBLIC_KEY).\n")
}

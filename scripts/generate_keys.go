//go:build ignore

// This script generates a JWT signing secret and API keys for the nutrition service.
// Run with: go run scripts/generate_keys.go [subject ...]
package main

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"
	"strings"
)

func generateSecureKey(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}

func main() {
	subjects := os.Args[1:]
	if len(subjects) == 0 {
		subjects = []string{"mobile"}
	}

	fmt.Println("=== Nutrition Service Key Generator ===")
	fmt.Println()

	// 32 bytes = 256 bits, the HS256 key size
	jwtSecret, err := generateSecureKey(32)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating JWT secret: %v\n", err)
		os.Exit(1)
	}

	apiKeys := make([]string, 0, len(subjects))
	for _, subject := range subjects {
		key, err := generateSecureKey(24)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error generating API key for %s: %v\n", subject, err)
			os.Exit(1)
		}
		apiKeys = append(apiKeys, subject+":"+key)
	}

	fmt.Println("Add these to your .env file:")
	fmt.Println()
	fmt.Println("AUTH_ENABLED=true")
	fmt.Println()
	fmt.Println("# Bearer tokens (omit to authenticate every request with an API key)")
	fmt.Printf("JWT_SECRET_KEY=%s\n", jwtSecret)
	fmt.Println()
	fmt.Println("# API keys as subject:key pairs")
	fmt.Printf("API_KEYS=%s\n", strings.Join(apiKeys, ","))
	fmt.Println()
	fmt.Println("=== IMPORTANT ===")
	fmt.Println("- Never commit these keys to version control")
	fmt.Println("- Use different keys for each environment")
}

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/poketrainer/api/pkg/jwt"
)

func main() {
	// Flags for customization
	privateKeyPath := flag.String("key", "./keys/private.pem", "Path to JWT private key")
	publicKeyPath := flag.String("pub", "./keys/public.pem", "Path to JWT public key (only used with -generate-keys)")
	generateKeys := flag.Bool("generate-keys", false, "Generate a new RSA keypair before signing")
	trainerID := flag.String("trainer", "admin-dev-trainer", "Trainer ID for the token")
	email := flag.String("email", "admin@poketrainer.dev", "Email for the token")
	issuer := flag.String("issuer", "api.poketrainer.dev", "JWT issuer")
	expMins := flag.Int("exp", 60*24*7, "Token expiration in minutes (default: 7 days)")
	outputJSON := flag.Bool("json", false, "Output as JSON")

	flag.Parse()

	if *generateKeys {
		if err := jwt.GenerateKeyPair(*privateKeyPath, *publicKeyPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error generating keypair: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Generated keypair at %s / %s\n", *privateKeyPath, *publicKeyPath)
	}

	// Create JWT service with just the private key
	jwtService, err := jwt.NewService(jwt.Config{
		PrivateKeyPath: *privateKeyPath,
		Issuer:         *issuer,
		ExpirationMins: *expMins,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating JWT service: %v\n", err)
		fmt.Fprintf(os.Stderr, "\nGenerate keys first with: admin-token -generate-keys\n")
		os.Exit(1)
	}

	// Create admin claims
	claims := jwt.Claims{
		Subject:   *trainerID,
		TrainerID: *trainerID,
		Email:     *email,
		Role:      "ADMIN",
	}

	// Sign token
	token, err := jwtService.Sign(claims)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error signing token: %v\n", err)
		os.Exit(1)
	}

	if *outputJSON {
		output := map[string]any{
			"access_token": token,
			"token_type":   "Bearer",
			"expires_in":   *expMins * 60,
			"trainer_id":   *trainerID,
			"email":        *email,
			"role":         "ADMIN",
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(output)
	} else {
		expTime := time.Now().Add(time.Duration(*expMins) * time.Minute)
		fmt.Println("Admin Token Generated")
		fmt.Println("=====================")
		fmt.Printf("Trainer ID:  %s\n", *trainerID)
		fmt.Printf("Email:       %s\n", *email)
		fmt.Printf("Role:        ADMIN\n")
		fmt.Printf("Expires:     %s\n", expTime.Format(time.RFC3339))
		fmt.Println()
		fmt.Println("Token:")
		fmt.Println(token)
		fmt.Println()
		fmt.Println("Usage:")
		fmt.Printf("  curl -H 'Authorization: Bearer %s' http://localhost:8080/v1/admin/trainers\n", token[:50]+"...")
	}
}

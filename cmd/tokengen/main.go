// Package main generates admin tokens for local development and testing.
// Tokens signed with the dev key will NOT work against a production deploy.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"rinkside/internal/jwttoken"
)

// Dev signing key - matches config.go when JWT_SIGNING_KEY is not set
const devSigningKey = "dev-secret-key-change-in-production"

type tokenOutput struct {
	Token     string `json:"token"`
	Subject   string `json:"subject"`
	Role      string `json:"role"`
	ExpiresIn string `json:"expires_in"`
	Usage     string `json:"usage"`
}

func main() {
	subject := flag.String("subject", "local-admin", "Token subject, recorded as the audit actor")
	ttl := flag.Duration("ttl", time.Hour, "Token time-to-live")
	signingKey := flag.String("signing-key", devSigningKey, "HS256 signing key, must match the server's JWT_SIGNING_KEY")
	asJSON := flag.Bool("json", false, "Output as JSON")
	flag.Parse()

	svc := jwttoken.NewService(*signingKey, "rinkside")
	token, err := svc.Generate(*subject, jwttoken.RoleAdmin, *ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "generate token: %v\n", err)
		os.Exit(1)
	}

	if *asJSON {
		out := tokenOutput{
			Token:     token,
			Subject:   *subject,
			Role:      string(jwttoken.RoleAdmin),
			ExpiresIn: ttl.String(),
			Usage:     "Authorization: Bearer <token>",
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(out)
		return
	}

	fmt.Println(token)
}

// Package main mints capability tokens for local development. Signing
// settings come from the same EDUREWARD_JWT_* variables the server reads.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"edureward/internal/identity"
	"edureward/internal/platform/config"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("tokengen", flag.ContinueOnError)
	fs.SetOutput(out)
	var address string
	var ttl time.Duration
	fs.StringVar(&address, "address", "", "identity the token proves control of (required)")
	fs.DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	if err := fs.Parse(args); err != nil {
		return err
	}

	addr, err := identity.ParseAddress(address)
	if err != nil {
		return fmt.Errorf("-address: %w", err)
	}
	if ttl <= 0 {
		return fmt.Errorf("-ttl must be positive")
	}

	token, err := identity.NewJWTService(cfg.Auth.SigningKey, cfg.Auth.Issuer, cfg.Auth.Audience).Issue(addr, ttl)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, token)
	return err
}

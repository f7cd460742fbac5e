// Command admintoken mints a signed token for the admin endpoints.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"cosmos-server/internal/auth"
	"cosmos-server/internal/shared/utils"

	"github.com/joho/godotenv"
)

func main() {
	subject := flag.String("subject", "", "operator name stored in the token")
	role := flag.String("role", string(auth.RoleAdmin), "admin or viewer")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "No .env file found, using system environment variables")
	}

	if err := run(os.Stdout, utils.GetEnv("JWT_SECRET", ""), *subject, auth.Role(*role), *ttl); err != nil {
		fmt.Fprintln(os.Stderr, "admintoken:", err)
		os.Exit(1)
	}
}

func run(w io.Writer, secret, subject string, role auth.Role, ttl time.Duration) error {
	if role != auth.RoleAdmin && role != auth.RoleViewer {
		return fmt.Errorf("unknown role %q", role)
	}

	tokens, err := auth.NewTokenManager(secret, ttl)
	if err != nil {
		return err
	}

	token, err := tokens.Generate(subject, role)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, token)
	return err
}

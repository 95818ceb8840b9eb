package main

import (
	"errors"
	"fmt"
	"time"

	"campus-events-backend/cmd/campus-events/identity"

	"github.com/spf13/pflag"
)

// tokenCommand signs a bearer token with JWT_SECRET for local use. In
// production tokens come from the campus authentication service.
func tokenCommand(args []string) error {
	flags := pflag.NewFlagSet("token", pflag.ContinueOnError)
	id := flags.String("id", "", "user id (token subject)")
	role := flags.String("role", "", "admin, faculty or student")
	name := flags.String("name", "", "display name")
	ttl := flags.Duration("ttl", 24*time.Hour, "token lifetime")
	if err := flags.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	token, err := mintToken(cfg.JWTSecret, *id, *role, *name, *ttl)
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}

func mintToken(secret, id, role, name string, ttl time.Duration) (string, error) {
	if id == "" {
		return "", errors.New("--id is required")
	}
	r, err := identity.ParseRole(role)
	if err != nil {
		return "", err
	}
	if ttl <= 0 {
		return "", fmt.Errorf("invalid ttl %s", ttl)
	}
	return identity.Issue(secret, identity.Actor{ID: id, Role: r, Name: name}, ttl)
}

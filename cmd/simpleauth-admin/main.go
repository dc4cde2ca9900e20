// simpleauth-admin is the operator tool for account management: creating
// users, assigning role flags, and deleting accounts, without going
// through the HTTP surface.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/term"

	"github.com/thejw23/simpleauth/internal/auth"
	"github.com/thejw23/simpleauth/internal/config"
	"github.com/thejw23/simpleauth/internal/cookiex"
	"github.com/thejw23/simpleauth/internal/logging"
	"github.com/thejw23/simpleauth/internal/models"
	"github.com/thejw23/simpleauth/internal/repositories/repomanager"
	"github.com/thejw23/simpleauth/internal/session"
	"github.com/thejw23/simpleauth/internal/tokens"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	_ = godotenv.Load()
	cfg := config.LoadConfig()

	ctx := context.Background()
	svc, db, err := newService(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init error: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	var ok bool
	switch os.Args[1] {
	case "createuser":
		ok = createUser(ctx, svc, os.Args[2:])
	case "setrole":
		ok = setRole(ctx, svc, os.Args[2:])
	case "deluser":
		ok = delUser(ctx, svc, os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}

	if !ok {
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: simpleauth-admin <createuser|setrole|deluser> [flags]")
}

// newService builds an orchestrator with an in-process session and cookie
// jar; the admin tool never authenticates, it only manages accounts.
func newService(cfg *config.Config) (*auth.Service, *sql.DB, error) {
	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, nil, err
	}

	rm := repomanager.NewPostgresRepositoryManager(cfg)

	verifier, err := auth.NewVerifier(cfg)
	if err != nil {
		db.Close()
		return nil, nil, err
	}

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	cache := auth.NewSessionCache(session.NewMemoryStore(), cfg.SessionKey)
	tokenStore := tokens.NewStore(db, rm, cfg.RotateOnRefresh)

	svc := auth.NewService(cfg, db, rm, tokenStore, cache, cookiex.NewMemJar(), verifier, logger, auth.RequestMeta{})
	return svc, db, nil
}

func createUser(ctx context.Context, svc *auth.Service, args []string) bool {
	fs := flag.NewFlagSet("createuser", flag.ExitOnError)
	email := fs.String("email", "", "primary unique identifier")
	username := fs.String("username", "", "secondary unique identifier")
	roles := fs.String("roles", "active", "comma-separated role flags to set")
	activeTo := fs.String("active-to", "", "end of validity window (2006-01-02 15:04:05)")
	_ = fs.Parse(args)

	if *email == "" {
		fmt.Fprintln(os.Stderr, "-email is required")
		return false
	}

	password, err := promptPassword()
	if err != nil {
		fmt.Fprintf(os.Stderr, "reading password: %v\n", err)
		return false
	}

	flags := make(map[string]int64)
	for _, name := range strings.Split(*roles, ",") {
		if name = strings.TrimSpace(name); name != "" {
			flags[name] = 1
		}
	}

	u := &models.User{
		Email:    *email,
		Username: *username,
		Password: password,
		ActiveTo: *activeTo,
		Flags:    flags,
	}

	id, ok := svc.CreateUser(ctx, u, *username != "")
	if !ok {
		fmt.Fprintln(os.Stderr, "could not create user")
		return false
	}
	fmt.Printf("created user %d\n", id)
	return true
}

func setRole(ctx context.Context, svc *auth.Service, args []string) bool {
	fs := flag.NewFlagSet("setrole", flag.ExitOnError)
	id := fs.Int64("id", 0, "account id")
	roles := fs.String("roles", "", "role assignments, e.g. admin=1,moderator=0")
	_ = fs.Parse(args)

	if *id == 0 || *roles == "" {
		fmt.Fprintln(os.Stderr, "-id and -roles are required")
		return false
	}

	assignments := make(map[string]bool)
	for _, pair := range strings.Split(*roles, ",") {
		name, value, found := strings.Cut(strings.TrimSpace(pair), "=")
		if !found {
			assignments[name] = true
			continue
		}
		on, err := strconv.ParseBool(value)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid role value: %s\n", pair)
			return false
		}
		assignments[name] = on
	}

	if !svc.SetRole(ctx, assignments, *id) {
		fmt.Fprintln(os.Stderr, "could not set roles")
		return false
	}
	fmt.Println("roles updated")
	return true
}

func delUser(ctx context.Context, svc *auth.Service, args []string) bool {
	fs := flag.NewFlagSet("deluser", flag.ExitOnError)
	id := fs.Int64("id", 0, "account id")
	_ = fs.Parse(args)

	if *id == 0 {
		fmt.Fprintln(os.Stderr, "-id is required")
		return false
	}

	if !svc.DeleteUser(ctx, *id) {
		fmt.Fprintln(os.Stderr, "could not delete user")
		return false
	}
	fmt.Println("user deleted")
	return true
}

func promptPassword() (string, error) {
	fmt.Fprint(os.Stderr, "password: ")
	first, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}

	fmt.Fprint(os.Stderr, "repeat password: ")
	second, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}

	if string(first) != string(second) {
		return "", fmt.Errorf("passwords do not match")
	}
	return string(first), nil
}

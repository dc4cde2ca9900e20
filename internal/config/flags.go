package config

import (
	"flag"
	"os"
	"time"

	"github.com/thejw23/simpleauth/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-r string   Redis address
//	-m string   hash method ("sha1", "bcrypt", ...)
//	-l int      remember-me token lifetime, seconds
//	-k string   auto-login cookie name
//	-s string   session key for the cached principal
//	-t          rotate the token value on every refresh
//
// The function first filters os.Args to the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with the -c/-config flag handled
// by the JSON layer.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-r", "-m", "-l", "-k", "-s", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.RedisAddr, "r", config.RedisAddr, "redis address")
	fs.StringVar(&config.HashMethod, "m", config.HashMethod, "password hash method")

	lifetime := fs.Int("l", int(config.Lifetime.Seconds()), "remember-me token lifetime (in seconds)")

	fs.StringVar(&config.CookieKey, "k", config.CookieKey, "auto-login cookie name")
	fs.StringVar(&config.SessionKey, "s", config.SessionKey, "session key for cached principal")
	fs.BoolVar(&config.RotateOnRefresh, "t", config.RotateOnRefresh, "rotate token value on refresh")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.Lifetime = time.Duration(*lifetime) * time.Second
}

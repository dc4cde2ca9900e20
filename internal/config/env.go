package config

import (
	"os"
	"strconv"
	"time"
)

// parseEnv overlays values from the environment. Only operational settings
// live here; the field-mapping and role-set knobs stay in JSON/flags.
func parseEnv(config *Config) {
	if v, ok := os.LookupEnv("ADDRESS"); ok {
		config.EndpointAddr = v
	}
	if v, ok := os.LookupEnv("DATABASE_DSN"); ok {
		config.DatabaseDSN = v
	}
	if v, ok := os.LookupEnv("REDIS_ADDR"); ok {
		config.RedisAddr = v
	}
	if v, ok := os.LookupEnv("REDIS_PASSWORD"); ok {
		config.RedisPassword = v
	}
	if v, ok := os.LookupEnv("AUTH_HASH_METHOD"); ok {
		config.HashMethod = v
	}
	if v, ok := os.LookupEnv("AUTH_SALT_PREFIX"); ok {
		config.SaltPrefix = v
	}
	if v, ok := os.LookupEnv("AUTH_SALT_SUFFIX"); ok {
		config.SaltSuffix = v
	}
	if v, ok := os.LookupEnv("AUTH_LIFETIME_SECONDS"); ok {
		if seconds, err := strconv.Atoi(v); err == nil {
			config.Lifetime = time.Duration(seconds) * time.Second
		}
	}
	if v, ok := os.LookupEnv("AUTH_ROTATE_ON_REFRESH"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			config.RotateOnRefresh = b
		}
	}
}

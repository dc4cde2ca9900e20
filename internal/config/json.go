package config

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/thejw23/simpleauth/internal/flagx"
	"github.com/thejw23/simpleauth/internal/timex"
)

// JsonConfig is the intermediate DTO used only for reading JSON config
// files. Duration fields accept either strings such as "336h" or integer
// nanoseconds; after unmarshalling the values are copied into Config.
type JsonConfig struct {
	EndpointAddr  string `json:"endpoint_addr"`
	DatabaseDSN   string `json:"database_dsn"`
	RedisAddr     string `json:"redis_addr"`
	RedisPassword string `json:"redis_password"`

	HashMethod *string `json:"hash_method"`
	SaltPrefix *string `json:"salt_prefix"`
	SaltSuffix *string `json:"salt_suffix"`

	Lifetime   timex.Duration `json:"lifetime"`
	SessionTTL timex.Duration `json:"session_ttl"`

	SessionKey string `json:"session_key"`
	CookieKey  string `json:"cookie_key"`

	Roles           string `json:"roles"`
	RotateOnRefresh *bool  `json:"rotate_on_refresh"`

	PrimaryKeyColumn   string `json:"primary_key_column"`
	UniqueColumn       string `json:"unique_column"`
	UniqueSecondColumn string `json:"unique_second_column"`
	PasswordColumn     string `json:"password_column"`
}

// parseJson loads configuration from the JSON file named by the -c/-config
// flag, if any. Absent fields keep their current values. Pointer fields
// distinguish "not set" from an intentional empty value: an explicitly
// empty hash_method selects the unhashed fallback.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.EndpointAddr != "" {
		config.EndpointAddr = c.EndpointAddr
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.RedisAddr != "" {
		config.RedisAddr = c.RedisAddr
	}
	if c.RedisPassword != "" {
		config.RedisPassword = c.RedisPassword
	}
	if c.HashMethod != nil {
		config.HashMethod = *c.HashMethod
	}
	if c.SaltPrefix != nil {
		config.SaltPrefix = *c.SaltPrefix
	}
	if c.SaltSuffix != nil {
		config.SaltSuffix = *c.SaltSuffix
	}
	if c.Lifetime.Duration != 0 {
		config.Lifetime = c.Lifetime.Duration
	}
	if c.SessionTTL.Duration != 0 {
		config.SessionTTL = c.SessionTTL.Duration
	}
	if c.SessionKey != "" {
		config.SessionKey = c.SessionKey
	}
	if c.CookieKey != "" {
		config.CookieKey = c.CookieKey
	}
	if c.Roles != "" {
		config.Roles = splitRoles(c.Roles)
	}
	if c.RotateOnRefresh != nil {
		config.RotateOnRefresh = *c.RotateOnRefresh
	}
	if c.PrimaryKeyColumn != "" {
		config.PrimaryKeyColumn = c.PrimaryKeyColumn
	}
	if c.UniqueColumn != "" {
		config.UniqueColumn = c.UniqueColumn
	}
	if c.UniqueSecondColumn != "" {
		config.UniqueSecondColumn = c.UniqueSecondColumn
	}
	if c.PasswordColumn != "" {
		config.PasswordColumn = c.PasswordColumn
	}
}

func splitRoles(s string) []string {
	parts := strings.Split(s, ",")
	roles := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			roles = append(roles, p)
		}
	}
	return roles
}

package auth

import (
	"github.com/thejw23/simpleauth/internal/config"
	"github.com/thejw23/simpleauth/internal/hasher"
)

// NewVerifier builds the credential verifier selected by configuration:
// "bcrypt" for the strengthened scheme, otherwise the salted digest with
// the configured algorithm (empty = the documented unhashed fallback).
func NewVerifier(cfg *config.Config) (hasher.Verifier, error) {
	if cfg.HashMethod == "bcrypt" {
		return hasher.NewBcrypt(0), nil
	}
	return hasher.New(cfg.HashMethod, cfg.SaltPrefix, cfg.SaltSuffix)
}

// Package hasher implements the credential verifier: turning a raw secret
// into a comparable digest using a configured algorithm and salt pair.
package hasher

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
)

// Verifier turns secrets into stored digests and checks candidates against
// them. Deterministic reports whether Digest is a pure function of the
// secret, i.e. whether the digest itself can be used as a lookup key.
type Verifier interface {
	Digest(secret string) (string, error)
	Verify(secret, stored string) bool
	Deterministic() bool
}

// SaltedHasher computes hex(hash(prefix + secret + suffix)) with the
// configured algorithm. With an empty algorithm it returns the raw salted
// concatenation unhashed. That fallback is insecure and exists only to
// mirror installations where no hash method is configured; it is kept
// deliberately and must not be upgraded silently.
type SaltedHasher struct {
	newHash func() hash.Hash
	prefix  string
	suffix  string
}

// New builds a SaltedHasher for the given method. Supported methods are
// "md5", "sha1", "sha256", "sha512" and "" (the unhashed fallback).
func New(method, saltPrefix, saltSuffix string) (*SaltedHasher, error) {
	h := &SaltedHasher{prefix: saltPrefix, suffix: saltSuffix}

	switch method {
	case "":
		h.newHash = nil
	case "md5":
		h.newHash = md5.New
	case "sha1":
		h.newHash = sha1.New
	case "sha256":
		h.newHash = sha256.New
	case "sha512":
		h.newHash = sha512.New
	default:
		return nil, fmt.Errorf("unsupported hash method: %q", method)
	}

	return h, nil
}

func (h *SaltedHasher) Digest(secret string) (string, error) {
	salted := h.prefix + secret + h.suffix
	if h.newHash == nil {
		return salted, nil
	}
	hh := h.newHash()
	hh.Write([]byte(salted))
	return hex.EncodeToString(hh.Sum(nil)), nil
}

// Verify recomputes the digest and compares by equality. The comparison is
// not constant-time; that matches the stored-digest contract, and callers
// wanting a stronger scheme should configure the bcrypt verifier instead.
func (h *SaltedHasher) Verify(secret, stored string) bool {
	digest, err := h.Digest(secret)
	if err != nil {
		return false
	}
	return digest == stored
}

func (h *SaltedHasher) Deterministic() bool { return true }

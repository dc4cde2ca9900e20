package hasher

import "golang.org/x/crypto/bcrypt"

// BcryptHasher is the opt-in strengthened verifier. Its digests carry their
// own salt, so they cannot serve as lookup keys; the orchestrator falls
// back to identifier-only lookup plus Verify when Deterministic is false.
type BcryptHasher struct {
	cost int
}

func NewBcrypt(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Digest(secret string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(secret), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (h *BcryptHasher) Verify(secret, stored string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(secret)) == nil
}

func (h *BcryptHasher) Deterministic() bool { return false }

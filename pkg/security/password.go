package security

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is used when the configured cost is out of range.
const DefaultBcryptCost = 12

// bcrypt ignores everything after the 72nd byte.
const maxPasswordBytes = 72

var ErrPasswordTooLong = errors.New("security: password must be 72 bytes or fewer")

// PasswordService hashes and verifies passwords with bcrypt.
type PasswordService struct {
	cost int

	dummyOnce sync.Once
	dummyHash []byte
}

func NewPasswordService(cost int) *PasswordService {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &PasswordService{cost: cost}
}

func (p *PasswordService) Hash(plaintext string) (string, error) {
	if len(plaintext) > maxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), p.cost)
	if err != nil {
		return "", fmt.Errorf("security: hashing password: %w", err)
	}
	return string(hashed), nil
}

// Verify reports whether plaintext matches the stored hash.
func (p *PasswordService) Verify(hash, plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

// VerifyDummy burns one comparison against a throwaway hash so that a login
// for an unknown email costs the same as one with a wrong password.
func (p *PasswordService) VerifyDummy(plaintext string) {
	p.dummyOnce.Do(func() {
		p.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("job-portal-dummy-password"), p.cost)
	})
	_ = bcrypt.CompareHashAndPassword(p.dummyHash, []byte(plaintext))
}

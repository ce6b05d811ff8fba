package security

import (
	"errors"

	"github.com/streamhub/account-server/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

type Hasher struct {
	Cost int
}

func (h Hasher) Hash(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.Cost)
	if err != nil {
		return "", domain.NewDomainError(domain.ErrCodeInternal, "failed to hash password", err)
	}
	return string(hashed), nil
}

func (h Hasher) VerifyHash(hashedtext []byte, plaintext string) error {
	err := bcrypt.CompareHashAndPassword(hashedtext, []byte(plaintext))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return domain.ErrInvalidCredentials
		}
		return domain.NewDomainError(domain.ErrCodeValidation, "invalid credentials", err)
	}
	return nil
}

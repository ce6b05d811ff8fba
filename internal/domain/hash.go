package domain

type HashRepository interface {
	Hash(plaintext string) (string, error)
	VerifyHash(hashedtext []byte, plaintext string) error
}

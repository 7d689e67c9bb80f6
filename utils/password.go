package utils

import (
	"github.com/matthewhartstonge/argon2"
)

type PasswordHasher struct {
	config argon2.Config
}

func NewPasswordHasher(config argon2.Config) *PasswordHasher {
	return &PasswordHasher{config: config}
}

func DefaultPasswordHasher() *PasswordHasher {
	return NewPasswordHasher(argon2.DefaultConfig())
}

// FastPasswordHasher trades strength for speed; meant for tests.
func FastPasswordHasher() *PasswordHasher {
	config := argon2.DefaultConfig()
	config.TimeCost = 1
	config.MemoryCost = 8 * 1024
	config.Parallelism = 1
	return NewPasswordHasher(config)
}

func (h *PasswordHasher) Hash(password string) (string, error) {
	encoded, err := h.config.HashEncoded([]byte(password))
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

func (h *PasswordHasher) Verify(encodedHash, password string) (bool, error) {
	return argon2.VerifyEncoded([]byte(password), []byte(encodedHash))
}

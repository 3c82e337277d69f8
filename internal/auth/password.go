package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrPasswordMismatch is returned by Compare when the password is wrong.
var ErrPasswordMismatch = errors.New("password does not match")

// PasswordHasher defines behavior for hashing and comparing passwords.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Compare(hash, plain string) error
}

// BcryptPasswordHasher is a PasswordHasher implementation using bcrypt.
type BcryptPasswordHasher struct {
	cost int
}

// NewBcryptPasswordHasher uses bcrypt.DefaultCost.
func NewBcryptPasswordHasher() *BcryptPasswordHasher {
	return NewBcryptPasswordHasherWithCost(bcrypt.DefaultCost)
}

// NewBcryptPasswordHasherWithCost clamps cost into the range bcrypt accepts.
func NewBcryptPasswordHasherWithCost(cost int) *BcryptPasswordHasher {
	cost = max(bcrypt.MinCost, min(cost, bcrypt.MaxCost))
	return &BcryptPasswordHasher{cost: cost}
}

// Hash hashes the given plain password string using bcrypt.
func (h *BcryptPasswordHasher) Hash(plain string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(bytes), nil
}

// Compare returns nil when plain matches hash and ErrPasswordMismatch when it does not.
func (h *BcryptPasswordHasher) Compare(hash, plain string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrPasswordMismatch
	}
	return err
}

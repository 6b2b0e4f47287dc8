package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// maxPasswordLen is the longest password bcrypt hashes without truncation.
const maxPasswordLen = 72

var (
	// ErrEmptyPassword is returned when hashing an empty node password.
	ErrEmptyPassword = errors.New("auth: empty password")
	// ErrPasswordTooLong is returned for passwords bcrypt would truncate.
	ErrPasswordTooLong = fmt.Errorf("auth: password longer than %d bytes", maxPasswordLen)
	// ErrPasswordMismatch means the hash is valid and the password is wrong.
	ErrPasswordMismatch = errors.New("auth: password mismatch")
	// ErrInvalidHash means a configured credential is not a bcrypt hash.
	ErrInvalidHash = errors.New("auth: invalid password hash")
)

// PasswordVerifier checks a node password against its stored hash.
type PasswordVerifier interface {
	Verify(hash, password string) error
}

// PasswordHasher hashes and verifies node passwords with bcrypt.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher returns a hasher using cost. Zero selects bcrypt's
// default cost.
func NewPasswordHasher(cost int) (*PasswordHasher, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("auth: bcrypt cost %d outside [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	return &PasswordHasher{cost: cost}, nil
}

// Cost is the bcrypt cost new hashes are generated with.
func (h *PasswordHasher) Cost() int {
	return h.cost
}

// Hash returns the bcrypt hash stored in auth.stations.
func (h *PasswordHasher) Hash(password string) (string, error) {
	switch {
	case password == "":
		return "", ErrEmptyPassword
	case len(password) > maxPasswordLen:
		return "", ErrPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hash password: %w", err)
	}
	return string(hash), nil
}

// Verify returns ErrPasswordMismatch for a wrong password and ErrInvalidHash
// when hash cannot be used at all.
func (h *PasswordHasher) Verify(hash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return ErrPasswordMismatch
	default:
		return fmt.Errorf("%w: %v", ErrInvalidHash, err)
	}
}

// Outdated reports whether hash was generated with a lower cost than h uses.
func (h *PasswordHasher) Outdated(hash string) bool {
	cost, err := bcrypt.Cost([]byte(hash))
	return err != nil || cost < h.cost
}

package userdata

import (
	"fmt"

	"github.com/phrazzld/visiondb/internal/config"
	"golang.org/x/crypto/bcrypt"
)

// passwordScheme decides what is stored for a password and how a login
// attempt is checked against it.
type passwordScheme interface {
	Hash(password string) (string, error)
	Matches(stored, given string) bool
}

func newPasswordScheme(name string, cost int) (passwordScheme, error) {
	switch name {
	case "", config.PasswordSchemePlaintext:
		return plaintextScheme{}, nil
	case config.PasswordSchemeBcrypt:
		if cost == 0 {
			cost = bcrypt.DefaultCost
		}
		if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
			return nil, fmt.Errorf("bcrypt cost %d out of range [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
		}
		return bcryptScheme{cost: cost}, nil
	default:
		return nil, fmt.Errorf("unknown password scheme %q", name)
	}
}

// plaintextScheme stores passwords as given.
type plaintextScheme struct{}

func (plaintextScheme) Hash(password string) (string, error) { return password, nil }

func (plaintextScheme) Matches(stored, given string) bool { return stored == given }

type bcryptScheme struct {
	cost int
}

func (b bcryptScheme) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), b.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func (bcryptScheme) Matches(stored, given string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(given)) == nil
}

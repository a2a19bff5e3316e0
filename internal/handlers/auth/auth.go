package auth

import (
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

// Package auth provides the operator login that unlocks mutating routes when
// a JWT secret is configured. There is a single operator account, taken from
// configuration; its password is held only as a bcrypt hash.

// TokenTTL is the lifetime of issued access tokens.
const TokenTTL = 60 * 60

// Handler issues and describes access tokens.
type Handler struct {
	username     string
	passwordHash []byte
	jwtSecret    string
}

// New hashes the operator password and returns a new auth handler. An empty
// username disables login.
func New(username, password, jwtSecret string) (*Handler, error) {
	h := &Handler{username: username, jwtSecret: jwtSecret}
	if username == "" {
		return h, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Wrap(err, "hashing operator password")
	}
	h.passwordHash = hash
	return h, nil
}

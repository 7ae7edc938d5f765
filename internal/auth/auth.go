// Package auth guards the host bridge with a shared bearer token.
package auth

import (
	"crypto/subtle"
	"errors"
	"strings"
)

const (
	Header       = "Authorization"
	bearerPrefix = "Bearer "
)

var ErrUnauthorized = errors.New("auth: unauthorized")

// Validator validates a bridge token.
type Validator interface {
	Validate(token string) error
}

// StaticToken accepts a single shared token. An empty Token denies everything.
type StaticToken struct {
	Token string
}

func (s StaticToken) Validate(token string) error {
	if s.Token == "" {
		return ErrUnauthorized
	}
	if subtle.ConstantTimeCompare([]byte(s.Token), []byte(token)) != 1 {
		return ErrUnauthorized
	}
	return nil
}

// FuncValidator adapts a function into a Validator.
type FuncValidator func(token string) error

func (f FuncValidator) Validate(token string) error {
	return f(token)
}

// Bearer formats token as an Authorization header value.
func Bearer(token string) string {
	return bearerPrefix + token
}

// ParseBearer extracts the token from an Authorization header value.
func ParseBearer(header string) (string, error) {
	header = strings.TrimSpace(header)
	if len(header) < len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return "", ErrUnauthorized
	}
	token := strings.TrimSpace(header[len(bearerPrefix):])
	if token == "" {
		return "", ErrUnauthorized
	}
	return token, nil
}

// Check validates an Authorization header value against v.
func Check(v Validator, header string) error {
	token, err := ParseBearer(header)
	if err != nil {
		return err
	}
	return v.Validate(token)
}

package validator

import (
	"errors"
	"strings"
)

var ErrInvalidEmail = errors.New("invalid email format")

// Email checks that email has the local@domain shape. It does not look the
// domain up.
func Email(email string) error {
	if strings.ContainsAny(email, " \t\r\n") {
		return ErrInvalidEmail
	}

	parts := strings.Split(email, "@")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return ErrInvalidEmail
	}

	domain := parts[1]
	if strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return ErrInvalidEmail
	}

	return nil
}

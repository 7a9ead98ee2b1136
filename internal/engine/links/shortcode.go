package links

import (
	"context"
	"errors"

	"github.com/jaevor/go-nanoid"
)

const (
	shortCodeChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	maxRetries     = 5
)

var ErrCodeSpaceExhausted = errors.New("failed to generate unique short code")

type CodeAvailabilityChecker interface {
	ExistsByShortCode(ctx context.Context, code string) (bool, error)
}

// CodeGenerator produces alphanumeric short codes that are not yet in use.
type CodeGenerator struct {
	next   func() string
	longer func() string
}

// NewCodeGenerator returns a generator for codes of the given length. After
// repeated collisions it makes one attempt at length+1.
func NewCodeGenerator(length int) (*CodeGenerator, error) {
	next, err := nanoid.CustomASCII(shortCodeChars, length)
	if err != nil {
		return nil, err
	}
	longer, err := nanoid.CustomASCII(shortCodeChars, length+1)
	if err != nil {
		return nil, err
	}
	return &CodeGenerator{next: next, longer: longer}, nil
}

func (g *CodeGenerator) Generate(ctx context.Context, checker CodeAvailabilityChecker) (string, error) {
	for i := 0; i < maxRetries; i++ {
		code := g.next()

		exists, err := checker.ExistsByShortCode(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}

	code := g.longer()
	exists, err := checker.ExistsByShortCode(ctx, code)
	if err != nil {
		return "", err
	}
	if exists {
		return "", ErrCodeSpaceExhausted
	}

	return code, nil
}

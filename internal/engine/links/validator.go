package links

import (
	"strings"

	apperrors "github.com/courtamos/tinyapp/internal/pkg/errors"
)

// ValidateLongURL only checks the scheme prefix.
func ValidateLongURL(longURL string) error {
	if longURL == "" {
		return apperrors.Validation("longURL is required")
	}

	for _, prefix := range []string{"http://", "https://"} {
		if strings.HasPrefix(longURL, prefix) && len(longURL) > len(prefix) {
			return nil
		}
	}

	return apperrors.Validation("longURL must start with http:// or https://")
}

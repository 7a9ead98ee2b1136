package middleware

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/courtamos/tinyapp/internal/pkg/errors"
)

func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				log.Error().
					Interface("panic", rec).
					Str("path", r.URL.Path).
					Msg("panic recovered")
				errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Internal server error")
			}
		}()

		next.ServeHTTP(w, r)
	})
}

package handlers

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/courtamos/tinyapp/internal/pkg/errors"
)

// writeError answers with err's status and message. Only internal failures
// are logged above debug.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := errors.Write(w, err)

	if appErr.Kind == errors.KindInternal {
		log.Error().Err(appErr.Err).Str("method", r.Method).Str("path", r.URL.Path).Msg("request failed")
		return
	}
	log.Debug().Str("kind", appErr.Kind.String()).Str("path", r.URL.Path).Msg(appErr.Message)
}

package middleware

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"

	apiContext "github.com/courtamos/tinyapp/internal/api/context"
	"github.com/courtamos/tinyapp/internal/pkg/errors"
	"github.com/courtamos/tinyapp/internal/platform/auth"
	"github.com/courtamos/tinyapp/internal/platform/models"
)

type UserLookup interface {
	Lookup(ctx context.Context, id string) (*models.User, error)
}

// SessionMiddleware resolves the session cookie once per request and puts
// the signed-in user in the request context.
type SessionMiddleware struct {
	sessions *auth.SessionManager
	users    UserLookup
}

func NewSessionMiddleware(sessions *auth.SessionManager, users UserLookup) *SessionMiddleware {
	return &SessionMiddleware{sessions: sessions, users: users}
}

func (m *SessionMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := m.sessions.Resolve(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		user, err := m.users.Lookup(r.Context(), userID)
		if err != nil {
			log.Error().Err(err).Str("user_id", userID).Msg("session lookup failed")
			errors.Write(w, err)
			return
		}
		if user == nil {
			// Stale session for a user this process does not know.
			m.sessions.Clear(w)
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), apiContext.CurrentUser, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireUser sends anonymous page requests to the login form.
func RequireUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if apiContext.User(r.Context()) == nil {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		next(w, r)
	}
}

// RequireUserAPI rejects anonymous mutations outright.
func RequireUserAPI(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if apiContext.User(r.Context()) == nil {
			errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, "You must be logged in to do that")
			return
		}
		next(w, r)
	}
}

// RedirectAuthenticated keeps signed-in users off the login and register forms.
func RedirectAuthenticated(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if apiContext.User(r.Context()) != nil {
			http.Redirect(w, r, "/urls", http.StatusFound)
			return
		}
		next(w, r)
	}
}

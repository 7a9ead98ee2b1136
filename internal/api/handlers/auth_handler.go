package handlers

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/courtamos/tinyapp/internal/api/views"
	"github.com/courtamos/tinyapp/internal/engine/accounts"
	"github.com/courtamos/tinyapp/internal/platform/auth"
)

type AuthHandler struct {
	accounts *accounts.Service
	sessions *auth.SessionManager
	views    *views.Renderer
}

func NewAuthHandler(accounts *accounts.Service, sessions *auth.SessionManager, views *views.Renderer) *AuthHandler {
	return &AuthHandler{
		accounts: accounts,
		sessions: sessions,
		views:    views,
	}
}

// Home has no page of its own.
func (h *AuthHandler) Home(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/login", http.StatusFound)
}

func (h *AuthHandler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	h.views.Render(w, http.StatusOK, "register.html", &views.Page{})
}

func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.views.Render(w, http.StatusOK, "login.html", &views.Page{})
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	user, err := h.accounts.Register(r.Context(), r.FormValue("email"), r.FormValue("password"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	log.Info().Str("user_id", user.ID).Msg("user registered")
	h.signIn(w, r, user.ID)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	user, err := h.accounts.Authenticate(r.Context(), r.FormValue("email"), r.FormValue("password"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.signIn(w, r, user.ID)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Clear(w)
	http.Redirect(w, r, "/login", http.StatusFound)
}

func (h *AuthHandler) signIn(w http.ResponseWriter, r *http.Request, userID string) {
	if err := h.sessions.Issue(w, userID); err != nil {
		writeError(w, r, err)
		return
	}
	http.Redirect(w, r, "/urls", http.StatusFound)
}

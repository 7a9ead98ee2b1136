package handlers

import (
	"net/http"

	apiContext "github.com/courtamos/tinyapp/internal/api/context"
	"github.com/courtamos/tinyapp/internal/engine/links"
)

// RedirectHandler serves the public /u/:short_code endpoint. It needs no
// session.
type RedirectHandler struct {
	links *links.Service
}

func NewRedirectHandler(links *links.Service) *RedirectHandler {
	return &RedirectHandler{links: links}
}

func (h *RedirectHandler) Handle(w http.ResponseWriter, r *http.Request) {
	link, err := h.links.Get(r.Context(), apiContext.Param(r, "short_code"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Cache-Control", "private, max-age=0")
	http.Redirect(w, r, link.LongURL, http.StatusFound)
}

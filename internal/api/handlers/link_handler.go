package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	apiContext "github.com/courtamos/tinyapp/internal/api/context"
	"github.com/courtamos/tinyapp/internal/api/views"
	"github.com/courtamos/tinyapp/internal/engine/links"
	"github.com/courtamos/tinyapp/internal/pkg/errors"
)

type LinkHandler struct {
	links   *links.Service
	views   *views.Renderer
	baseURL string
}

// NewLinkHandler builds short URLs from baseURL, or from the request host
// when baseURL is empty.
func NewLinkHandler(links *links.Service, views *views.Renderer, baseURL string) *LinkHandler {
	return &LinkHandler{
		links:   links,
		views:   views,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

type linkResponse struct {
	ShortCode string `json:"short_code"`
	LongURL   string `json:"long_url"`
	ShortURL  string `json:"short_url"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
}

func (h *LinkHandler) Index(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	owned, err := h.links.ListForUser(ctx, apiContext.UserID(ctx))
	if err != nil {
		writeError(w, r, err)
		return
	}

	page := &views.Page{User: apiContext.User(ctx), Links: make([]views.LinkView, 0, len(owned))}
	for _, link := range owned {
		page.Links = append(page.Links, h.view(r, link))
	}
	h.views.Render(w, http.StatusOK, "urls_index.html", page)
}

func (h *LinkHandler) IndexJSON(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	owned, err := h.links.ListForUser(ctx, apiContext.UserID(ctx))
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := make([]linkResponse, 0, len(owned))
	for _, link := range owned {
		resp = append(resp, linkResponse{
			ShortCode: link.ShortCode,
			LongURL:   link.LongURL,
			ShortURL:  h.shortURL(r, link.ShortCode),
			CreatedAt: link.CreatedAt,
			UpdatedAt: link.UpdatedAt,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Error().Err(err).Msg("encode links")
	}
}

func (h *LinkHandler) New(w http.ResponseWriter, r *http.Request) {
	h.views.Render(w, http.StatusOK, "urls_new.html", &views.Page{User: apiContext.User(r.Context())})
}

// Show renders one owned link. The router cannot register /urls/new beside
// /urls/:short_code, so "new" is dispatched from here.
func (h *LinkHandler) Show(w http.ResponseWriter, r *http.Request) {
	shortCode := apiContext.Param(r, "short_code")
	if shortCode == "new" {
		h.New(w, r)
		return
	}

	ctx := r.Context()
	link, err := h.links.GetOwned(ctx, shortCode, apiContext.UserID(ctx))
	if err != nil {
		writeError(w, r, err)
		return
	}

	view := h.view(r, link)
	h.views.Render(w, http.StatusOK, "urls_show.html", &views.Page{User: apiContext.User(ctx), Link: &view})
}

func (h *LinkHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	link, err := h.links.Create(ctx, strings.TrimSpace(r.FormValue("longURL")), apiContext.UserID(ctx))
	if err != nil {
		writeError(w, r, err)
		return
	}

	log.Info().Str("short_code", link.ShortCode).Str("owner_id", link.OwnerID).Msg("link created")
	http.Redirect(w, r, "/urls/"+link.ShortCode, http.StatusFound)
}

func (h *LinkHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	shortCode := apiContext.Param(r, "short_code")

	_, err := h.links.Update(ctx, shortCode, strings.TrimSpace(r.FormValue("longURL")), apiContext.UserID(ctx))
	if err != nil {
		writeError(w, r, err)
		return
	}

	http.Redirect(w, r, "/urls", http.StatusFound)
}

func (h *LinkHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	shortCode := apiContext.Param(r, "short_code")

	if err := h.links.Delete(ctx, shortCode, apiContext.UserID(ctx)); err != nil {
		writeError(w, r, err)
		return
	}

	log.Info().Str("short_code", shortCode).Msg("link deleted")
	http.Redirect(w, r, "/urls", http.StatusFound)
}

// QRCode serves a PNG of the link's short URL. ?size= sets the edge in pixels.
func (h *LinkHandler) QRCode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	shortCode := apiContext.Param(r, "short_code")

	size := 0
	if raw := r.URL.Query().Get("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, r, errors.Validation("size must be a number"))
			return
		}
		size = n
	}

	png, err := h.links.QRCode(ctx, shortCode, apiContext.UserID(ctx), h.shortURL(r, shortCode), size)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	_, _ = w.Write(png)
}

func (h *LinkHandler) view(r *http.Request, link *links.Link) views.LinkView {
	return views.LinkView{
		ShortCode: link.ShortCode,
		LongURL:   link.LongURL,
		ShortURL:  h.shortURL(r, link.ShortCode),
		CreatedAt: time.Unix(link.CreatedAt, 0),
	}
}

func (h *LinkHandler) shortURL(r *http.Request, shortCode string) string {
	base := h.baseURL
	if base == "" {
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		base = scheme + "://" + r.Host
	}
	return base + "/u/" + shortCode
}

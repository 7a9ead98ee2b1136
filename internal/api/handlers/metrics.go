package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
)

type Counter interface {
	Count(ctx context.Context) (int, error)
}

// MetricsHandler exports a few gauges in the Prometheus text format.
type MetricsHandler struct {
	users Counter
	links Counter
}

func NewMetricsHandler(users, links Counter) *MetricsHandler {
	return &MetricsHandler{users: users, links: links}
}

func (h *MetricsHandler) Export(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	fmt.Fprintf(w, "# HELP tinyapp_up Is the server up\n")
	fmt.Fprintf(w, "# TYPE tinyapp_up gauge\n")
	fmt.Fprintf(w, "tinyapp_up 1\n")

	h.gauge(r.Context(), w, "tinyapp_users", "Registered users", h.users)
	h.gauge(r.Context(), w, "tinyapp_links", "Stored short links", h.links)
}

func (h *MetricsHandler) gauge(ctx context.Context, w http.ResponseWriter, name, help string, c Counter) {
	n, err := c.Count(ctx)
	if err != nil {
		log.Warn().Err(err).Str("metric", name).Msg("metric unavailable")
		return
	}
	fmt.Fprintf(w, "# HELP %s %s\n", name, help)
	fmt.Fprintf(w, "# TYPE %s gauge\n", name)
	fmt.Fprintf(w, "%s %d\n", name, n)
}

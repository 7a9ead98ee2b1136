package api

import (
	"context"
	"net/http"

	"github.com/julienschmidt/httprouter"

	apiContext "github.com/courtamos/tinyapp/internal/api/context"
	"github.com/courtamos/tinyapp/internal/api/handlers"
	"github.com/courtamos/tinyapp/internal/api/middleware"
	"github.com/courtamos/tinyapp/internal/pkg/errors"
)

type Dependencies struct {
	AuthHandler       *handlers.AuthHandler
	LinkHandler       *handlers.LinkHandler
	RedirectHandler   *handlers.RedirectHandler
	HealthHandler     *handlers.HealthHandler
	MetricsHandler    *handlers.MetricsHandler
	SessionMiddleware *middleware.SessionMiddleware
}

func NewRouter(deps *Dependencies) http.Handler {
	router := httprouter.New()
	router.NotFound = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		errors.WriteError(w, http.StatusNotFound, errors.ErrCodeNotFound, "Page not found")
	})

	requireUser := middleware.RequireUser
	requireUserAPI := middleware.RequireUserAPI
	guest := middleware.RedirectAuthenticated

	// Public redirect endpoint
	router.GET("/u/:short_code", wrap(deps.RedirectHandler.Handle))

	// Authentication
	router.GET("/", wrap(deps.AuthHandler.Home))
	router.GET("/register", chain(deps.AuthHandler.RegisterPage, guest))
	router.GET("/login", chain(deps.AuthHandler.LoginPage, guest))
	router.POST("/register", wrap(deps.AuthHandler.Register))
	router.POST("/login", wrap(deps.AuthHandler.Login))
	router.POST("/logout", wrap(deps.AuthHandler.Logout))

	// Link pages. /urls/new is served by Show.
	router.GET("/urls", chain(deps.LinkHandler.Index, requireUser))
	router.GET("/urls.json", chain(deps.LinkHandler.IndexJSON, requireUserAPI))
	router.GET("/urls/:short_code", chain(deps.LinkHandler.Show, requireUser))
	router.GET("/urls/:short_code/qr", chain(deps.LinkHandler.QRCode, requireUser))

	// Link mutations
	router.POST("/urls", chain(deps.LinkHandler.Create, requireUserAPI))
	router.POST("/urls/:short_code", chain(deps.LinkHandler.Update, requireUserAPI))
	router.POST("/urls/:short_code/delete", chain(deps.LinkHandler.Delete, requireUserAPI))

	// Operations
	router.GET("/healthz", wrap(deps.HealthHandler.Check))
	router.GET("/metrics", wrap(deps.MetricsHandler.Export))

	var handler http.Handler = router
	handler = deps.SessionMiddleware.Wrap(handler)
	handler = middleware.Recover(handler)
	handler = middleware.AccessLog(handler)
	return handler
}

// Helper function to chain middlewares
func chain(handler http.HandlerFunc, middlewares ...func(http.HandlerFunc) http.HandlerFunc) httprouter.Handle {
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}
	return wrap(handler)
}

// Convert http.HandlerFunc to httprouter.Handle
func wrap(handler http.HandlerFunc) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		ctx := context.WithValue(r.Context(), apiContext.Params, ps)
		handler(w, r.WithContext(ctx))
	}
}

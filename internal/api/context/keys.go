package context

import (
	"context"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/courtamos/tinyapp/internal/platform/models"
)

type Key string

const (
	CurrentUser Key = "current_user"
	Params      Key = "params"
)

// User returns the signed-in user, or nil for an anonymous request.
func User(ctx context.Context) *models.User {
	user, _ := ctx.Value(CurrentUser).(*models.User)
	return user
}

// UserID returns the signed-in user's id, or "" when anonymous.
func UserID(ctx context.Context) string {
	if user := User(ctx); user != nil {
		return user.ID
	}
	return ""
}

func Param(r *http.Request, name string) string {
	ps, _ := r.Context().Value(Params).(httprouter.Params)
	return ps.ByName(name)
}

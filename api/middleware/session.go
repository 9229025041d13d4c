package middleware

import (
	"net/http"

	"github.com/tallypos/terminal/api/responses"
	"github.com/tallypos/terminal/internal/session"
	"github.com/tallypos/terminal/pkg/enums"
	pkgerrors "github.com/tallypos/terminal/pkg/errors"
	"github.com/tallypos/terminal/pkg/logger"
)

type identitySource interface {
	Current() *session.Identity
}

// RequireSession rejects requests issued before a cashier has signed in.
func RequireSession(guard identitySource, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := guard.Current()
			if identity == nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in to use the terminal"))
				return
			}

			ctx := r.Context()
			if logg != nil {
				ctx = logg.WithCashier(logg.WithUserID(ctx, identity.Subject), identity.Username)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole further restricts a route group to one role.
func RequireRole(guard identitySource, logg *logger.Logger, role enums.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := guard.Current()
			if identity == nil || identity.Role != role {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeUnauthorized, "this area needs the "+role.String()+" role"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

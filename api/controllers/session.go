package controllers

import (
	"net/http"

	"github.com/tallypos/terminal/api/responses"
	"github.com/tallypos/terminal/api/validators"
	"github.com/tallypos/terminal/internal/session"
	pkgerrors "github.com/tallypos/terminal/pkg/errors"
	"github.com/tallypos/terminal/pkg/logger"
)

type loginRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required,min=6,max=128"`
}

type identityResponse struct {
	Subject  string `json:"subject"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Route    string `json:"route"`
}

func toIdentityResponse(identity session.Identity) identityResponse {
	return identityResponse{
		Subject:  identity.Subject,
		Username: identity.Username,
		Role:     identity.Role.String(),
		Route:    identity.Route(),
	}
}

// SessionLogin signs the cashier in against the backend.
func SessionLogin(guard session.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body loginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		identity, err := guard.Login(r.Context(), validators.SanitizeString(body.Username, 64), body.Password)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toIdentityResponse(identity))
	}
}

// SessionCurrent returns the signed-in identity, if any.
func SessionCurrent(guard session.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := guard.Current()
		if identity == nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeUnauthorized, "no active session"))
			return
		}
		responses.WriteSuccess(w, toIdentityResponse(*identity))
	}
}

// SessionLogout ends the session and forgets the persisted token.
func SessionLogout(guard session.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := guard.Logout(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"loggedOut": true})
	}
}

package controllers

import (
	"net/http"

	"github.com/Yashjain18111/VMS/api/responses"
	"github.com/Yashjain18111/VMS/api/validators"
	"github.com/Yashjain18111/VMS/internal/auth"
	pkgerrors "github.com/Yashjain18111/VMS/pkg/errors"
	"github.com/Yashjain18111/VMS/pkg/logger"
)

// GenerateToken issues a fresh access token for the supplied username,
// provisioning the user on first sight.
func GenerateToken(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var payload auth.GenerateTokenRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		token, err := svc.GenerateToken(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, token)
	}
}

package auth

import (
	"net/http"

	"github.com/angelmondragon/cardshop-backend/api/responses"
	"github.com/angelmondragon/cardshop-backend/api/validators"
	"github.com/angelmondragon/cardshop-backend/internal/auth"
	pkgerrors "github.com/angelmondragon/cardshop-backend/pkg/errors"
	"github.com/angelmondragon/cardshop-backend/pkg/logger"
)

// DevLogin mints a bearer token for the supplied email, creating the user on
// first sight. Only mounted outside production.
func DevLogin(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var body auth.DevLoginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.DevLogin(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

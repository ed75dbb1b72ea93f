package handler

import (
	"net/http"

	"github.com/Dharaneeshsl/CSEA-EVENT-PORTAL/services/portal-service/internal/middleware"
	"github.com/Dharaneeshsl/CSEA-EVENT-PORTAL/services/portal-service/internal/usecase"
	"github.com/Dharaneeshsl/CSEA-EVENT-PORTAL/shared/utilities"
)

const internalServerError = "Internal server error"

// playerFromRequest returns the authenticated player. Routes using it sit
// behind middleware.Authenticate, so a missing player is a wiring bug.
func playerFromRequest(w http.ResponseWriter, r *http.Request) (usecase.Player, bool) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		utilities.WriteMessage(w, http.StatusUnauthorized, "Invalid or expired token")
		return usecase.Player{}, false
	}

	return usecase.Player{Email: claims.Email, Year: claims.Year}, true
}

// decodeAndValidate decodes the JSON body into dst and validates it. On
// failure it writes a 400 envelope with message and returns false.
func decodeAndValidate(
	w http.ResponseWriter,
	r *http.Request,
	v *utilities.Validator,
	dst any,
	message string,
) bool {
	if err := utilities.DecodeJSON(r, dst); err != nil {
		utilities.WriteEnvelope(w, http.StatusBadRequest, message, nil)
		return false
	}

	if fieldErrs := v.Struct(dst); fieldErrs != nil {
		utilities.WriteJSON(w, http.StatusBadRequest, utilities.EnvelopeResponse{
			Message: message,
			Errors:  fieldErrs,
		})
		return false
	}

	return true
}

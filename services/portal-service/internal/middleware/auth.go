package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	portaltypes "github.com/Dharaneeshsl/CSEA-EVENT-PORTAL/services/portal-service/pkg/types"
	"github.com/Dharaneeshsl/CSEA-EVENT-PORTAL/shared/auth"
	"github.com/Dharaneeshsl/CSEA-EVENT-PORTAL/shared/utilities"
)

type contextKey struct{}

// UserClaimsKey is the request context key of the verified session claims.
var UserClaimsKey = contextKey{}

// Authenticate rejects requests without a valid "Bearer <token>"
// Authorization header and stores the session claims in the request context.
func Authenticate(jwtAuth auth.JWTAuthenticator, secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			parts := strings.Split(r.Header.Get("Authorization"), " ")
			if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
				utilities.WriteMessage(w, http.StatusUnauthorized, "Authorization header missing or malformed")
				return
			}

			claims := &portaltypes.SessionClaims{}
			if _, err := jwtAuth.ValidateTokenWithClaims(parts[1], secret, claims); err != nil {
				utilities.WriteMessage(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), UserClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext returns the claims stored by Authenticate.
func ClaimsFromContext(ctx context.Context) (*portaltypes.SessionClaims, bool) {
	claims, ok := ctx.Value(UserClaimsKey).(*portaltypes.SessionClaims)
	return claims, ok
}

var yearRestrictedMessages = map[int]string{
	1: "Access restricted to first-year students",
	2: "Access restricted to second-year students",
}

// RequireYear only lets members of the given cohort through. It must run
// after Authenticate.
func RequireYear(year int) func(http.Handler) http.Handler {
	message, ok := yearRestrictedMessages[year]
	if !ok {
		message = "Access restricted to year " + strconv.Itoa(year) + " students"
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok || claims.Year != year {
				utilities.WriteMessage(w, http.StatusForbidden, message)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// AuthorizeYear only lets a player through when the {year} URL parameter
// is their own cohort. It must run after Authenticate.
func AuthorizeYear(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok || chi.URLParam(r, "year") != strconv.Itoa(claims.Year) {
			utilities.WriteMessage(w, http.StatusForbidden, "Access denied: Not your year portal")
			return
		}

		next.ServeHTTP(w, r)
	})
}

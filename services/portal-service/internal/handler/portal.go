package handler

import (
	"fmt"
	"net/http"

	"github.com/Dharaneeshsl/CSEA-EVENT-PORTAL/services/portal-service/internal/middleware"
	"github.com/Dharaneeshsl/CSEA-EVENT-PORTAL/shared/utilities"
)

var portalSubjects = map[int][]string{
	1: {"C Programming", "Digital Logic", "Engineering Math I"},
	2: {"Data Structures", "OOP in Java", "DBMS"},
}

type PortalUser struct {
	Email string `json:"email"`
	Year  int    `json:"year"`
}

type PortalResponse struct {
	Message  string     `json:"message"`
	User     PortalUser `json:"user"`
	Subjects []string   `json:"subjects"`
}

type PortalHandler struct{}

func NewPortalHandler() *PortalHandler {
	return &PortalHandler{}
}

// Portal renders the landing data of the caller's cohort. Cohort checks
// are done by the route middleware.
func (h *PortalHandler) Portal(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		utilities.WriteMessage(w, http.StatusUnauthorized, "Invalid or expired token")
		return
	}

	utilities.WriteJSON(w, http.StatusOK, PortalResponse{
		Message:  fmt.Sprintf("Welcome to Year %d Portal", claims.Year),
		User:     PortalUser{Email: claims.Email, Year: claims.Year},
		Subjects: portalSubjects[claims.Year],
	})
}

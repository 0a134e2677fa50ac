package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"mealcore/internal/auth"
	"mealcore/pkg/domain"
)

type contextKey string

const identityKey contextKey = "identity"

// identityFrom returns the authenticated caller stored by requireAuth.
func identityFrom(ctx context.Context) (auth.Identity, bool) {
	ident, ok := ctx.Value(identityKey).(auth.Identity)
	return ident, ok
}

// requireAuth resolves the bearer token to a full identity. The user record
// is re-read on every request so a role or school change takes effect
// immediately.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			s.writeFailure(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		userID, err := s.tokens.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			s.writeFailure(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}
		user, err := s.repos.Users.FindByID(r.Context(), userID)
		if err != nil {
			s.writeFailure(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}
		ident := auth.Identity{UserID: user.ID, Role: user.Role}
		if user.SchoolID != nil {
			ident.SchoolID = *user.SchoolID
		}
		if user.District != nil {
			ident.District = *user.District
		}
		ctx := context.WithValue(r.Context(), identityKey, ident)
		next(w, r.WithContext(ctx))
	}
}

// requireRole additionally gates a handler to one role.
func (s *Server) requireRole(role domain.Role, next http.HandlerFunc) http.HandlerFunc {
	return s.requireAuth(func(w http.ResponseWriter, r *http.Request) {
		ident, ok := identityFrom(r.Context())
		if !ok || ident.Role != role {
			s.writeFailure(w, http.StatusForbidden, "Insufficient permissions")
			return
		}
		next(w, r)
	})
}

// schoolScope resolves which school a request may touch. A school admin is
// always pinned to their own school; an oversight caller may pass an
// explicit schoolId, or none for a district-wide view.
func schoolScope(ident auth.Identity, requested string) (string, error) {
	if ident.Role == domain.RoleSchoolAdmin {
		if ident.SchoolID == "" {
			return "", domain.ValidationError{Message: "No school assigned to this account"}
		}
		return ident.SchoolID, nil
	}
	return requested, nil
}

// logRequests is the outermost middleware: one structured line per request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debug("request", "method", r.Method, "path", r.URL.Path, "dur", time.Since(start))
	})
}

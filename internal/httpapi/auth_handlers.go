package httpapi

import (
	"net/http"

	"mealcore/internal/auth"
	"mealcore/pkg/domain"
)

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role"`
}

type loginResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	user, err := s.repos.Users.FindByUsername(r.Context(), req.Username)
	if err != nil || !auth.CheckPassword(user.Password, req.Password) {
		s.writeFailure(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if req.Role != "" && user.Role != domain.Role(req.Role) {
		s.writeFailure(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	user.Password = ""
	s.writeData(w, http.StatusOK, loginResponse{Token: token, User: user})
}

type meResponse struct {
	User   domain.User    `json:"user"`
	School *domain.School `json:"school,omitempty"`
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	ident, _ := identityFrom(r.Context())
	user, err := s.repos.Users.FindByID(r.Context(), ident.UserID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	resp := meResponse{User: user}
	if user.SchoolID != nil {
		school, err := s.repos.Schools.FindByID(r.Context(), *user.SchoolID)
		if err == nil {
			resp.School = &school
		}
	}
	s.writeData(w, http.StatusOK, resp)
}

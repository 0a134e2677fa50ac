package httpapi

import (
	"net/http"
	"strconv"

	"mealcore/internal/aggregate"
	"mealcore/internal/auth"
	"mealcore/pkg/domain"
)

func scopeFor(ident auth.Identity, requestedSchool string) (aggregate.Scope, error) {
	if ident.Role == domain.RoleSchoolAdmin {
		if ident.SchoolID == "" {
			return aggregate.Scope{}, domain.ValidationError{Message: "No school assigned to this account"}
		}
		return aggregate.Scope{SchoolID: ident.SchoolID}, nil
	}
	if requestedSchool != "" {
		return aggregate.Scope{SchoolID: requestedSchool}, nil
	}
	return aggregate.Scope{District: ident.District}, nil
}

func (s *Server) handleDashboardSummary(w http.ResponseWriter, r *http.Request) {
	ident, _ := identityFrom(r.Context())
	scope, err := scopeFor(ident, r.URL.Query().Get("schoolId"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	summary, err := s.engine.Dashboard(r.Context(), scope)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeData(w, http.StatusOK, summary)
}

func (s *Server) handleAttendanceTrend(w http.ResponseWriter, r *http.Request) {
	ident, _ := identityFrom(r.Context())
	scope, err := scopeFor(ident, r.URL.Query().Get("schoolId"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	buckets, err := s.engine.Trend(r.Context(), scope)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeData(w, http.StatusOK, buckets)
}

func (s *Server) handleActivityFeed(w http.ResponseWriter, r *http.Request) {
	ident, _ := identityFrom(r.Context())
	schoolID, err := schoolScope(ident, r.URL.Query().Get("schoolId"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries, err := s.repos.Activity.Find(r.Context(), schoolID, limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeList(w, entries, len(entries))
}

func (s *Server) handleListSchools(w http.ResponseWriter, r *http.Request) {
	ident, _ := identityFrom(r.Context())
	district := r.URL.Query().Get("district")
	if district == "" && ident.Role == domain.RoleGovtOfficer {
		district = ident.District
	}
	schools, err := s.repos.Schools.Find(r.Context(), district)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeList(w, schools, len(schools))
}

func (s *Server) handleComparison(w http.ResponseWriter, r *http.Request) {
	ident, _ := identityFrom(r.Context())
	month, _ := strconv.Atoi(r.URL.Query().Get("month"))
	year, _ := strconv.Atoi(r.URL.Query().Get("year"))
	district := r.URL.Query().Get("district")
	if district == "" {
		district = ident.District
	}
	rows, err := s.engine.Comparison(r.Context(), month, year, district)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeList(w, rows, len(rows))
}

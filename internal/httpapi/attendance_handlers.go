package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"mealcore/internal/repo"
	"mealcore/pkg/domain"
)

type submitAttendanceRequest struct {
	Date            string `json:"date"`
	StudentsPresent *int   `json:"studentsPresent" validate:"required,min=0"`
	MenuServed      string `json:"menuServed" validate:"required"`
}

func (s *Server) handleSubmitAttendance(w http.ResponseWriter, r *http.Request) {
	ident, _ := identityFrom(r.Context())
	var req submitAttendanceRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	schoolID, err := schoolScope(ident, "")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	// The enrollment snapshot always comes from the school record; the
	// client never supplies it, since it drives participation math.
	school, err := s.repos.Schools.FindByID(r.Context(), schoolID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	rec, err := s.repos.Attendance.Create(r.Context(), domain.Attendance{
		SchoolID:        schoolID,
		Date:            req.Date,
		TotalEnrolled:   school.TotalEnrolled,
		StudentsPresent: *req.StudentsPresent,
		MenuServed:      req.MenuServed,
		SubmittedBy:     ident.UserID,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if _, err := s.repos.Activity.Log(r.Context(), domain.ActivityLog{
		SchoolID:    &schoolID,
		Type:        repo.ActivityMealSubmitted,
		Title:       "Daily Meal Data Submitted",
		Description: fmt.Sprintf("Today's count: %d students - %s", rec.StudentsPresent, rec.MenuServed),
		UserID:      ident.UserID,
		Icon:        "check",
		IconColor:   "green",
	}); err != nil {
		s.log.Warn("log activity", "type", repo.ActivityMealSubmitted, "err", err)
	}
	s.writeMessage(w, http.StatusCreated, "Attendance submitted", rec)
}

func (s *Server) handleListAttendance(w http.ResponseWriter, r *http.Request) {
	ident, _ := identityFrom(r.Context())
	schoolID, err := schoolScope(ident, r.URL.Query().Get("schoolId"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	from, to := r.URL.Query().Get("from"), r.URL.Query().Get("to")
	if from != "" || to != "" {
		// Either bound may stand alone; the missing side stays open.
		start := time.Time{}
		end := time.Date(9999, 12, 31, 23, 59, 59, 0, time.UTC)
		if from != "" {
			parsed, err := domain.ParseTime(from)
			if err != nil {
				s.writeError(w, r, domain.ValidationError{Message: "from must be an ISO-8601 instant"})
				return
			}
			start = parsed
		}
		if to != "" {
			parsed, err := domain.ParseTime(to)
			if err != nil {
				s.writeError(w, r, domain.ValidationError{Message: "to must be an ISO-8601 instant"})
				return
			}
			end = parsed
		}
		records, err := s.repos.Attendance.FindInRange(r.Context(), schoolID, start, end)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		s.writeList(w, records, len(records))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	records, err := s.repos.Attendance.Find(r.Context(), schoolID, limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeList(w, records, len(records))
}

func (s *Server) handleVerifyAttendance(w http.ResponseWriter, r *http.Request) {
	ident, _ := identityFrom(r.Context())
	rec, err := s.repos.Attendance.Verify(r.Context(), r.PathValue("id"), ident.UserID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if _, err := s.repos.Activity.Log(r.Context(), domain.ActivityLog{
		SchoolID:    &rec.SchoolID,
		Type:        repo.ActivityAttendanceVerified,
		Title:       "Attendance Record Verified",
		Description: fmt.Sprintf("Record for %s verified by officer", rec.DateStr),
		UserID:      ident.UserID,
		Icon:        "check-circle",
		IconColor:   "blue",
	}); err != nil {
		s.log.Warn("log activity", "type", repo.ActivityAttendanceVerified, "err", err)
	}
	s.writeMessage(w, http.StatusOK, "Attendance verified", rec)
}

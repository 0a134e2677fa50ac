package httpapi

import (
	"fmt"
	"net/http"
	"strconv"

	"mealcore/pkg/domain"
)

type generateReportRequest struct {
	SchoolID string `json:"schoolId"`
	Month    int    `json:"month" validate:"required,min=1,max=12"`
	Year     int    `json:"year" validate:"required"`
}

func (s *Server) handleGenerateReport(w http.ResponseWriter, r *http.Request) {
	ident, _ := identityFrom(r.Context())
	var req generateReportRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	schoolID, err := schoolScope(ident, req.SchoolID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	rec, err := s.reports.Generate(r.Context(), schoolID, req.Month, req.Year, ident.UserID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeMessage(w, http.StatusCreated, "Report generated", rec)
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	ident, _ := identityFrom(r.Context())
	schoolID, err := schoolScope(ident, r.URL.Query().Get("schoolId"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	reports, err := s.repos.Reports.Find(r.Context(), schoolID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if rawYear := r.URL.Query().Get("year"); rawYear != "" {
		year, err := strconv.Atoi(rawYear)
		if err != nil {
			s.writeError(w, r, domain.ValidationError{Message: "year must be a number"})
			return
		}
		kept := []domain.Report{}
		for _, rep := range reports {
			if rep.Year == year {
				kept = append(kept, rep)
			}
		}
		reports = kept
	}
	s.writeList(w, reports, len(reports))
}

func (s *Server) handleDownloadReport(w http.ResponseWriter, r *http.Request) {
	rec, info, body, err := s.reports.Download(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	contentType := info.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", rec.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	if _, err := w.Write(body); err != nil {
		s.log.Error("stream report", "report", rec.ID, "err", err)
	}
}

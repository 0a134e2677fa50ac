package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"mealcore/pkg/domain"
)

// envelope is the response shape every endpoint uses.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Count   *int   `json:"count,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, env envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		s.log.Error("encode response", "err", err)
	}
}

func (s *Server) writeData(w http.ResponseWriter, status int, data any) {
	s.writeJSON(w, status, envelope{Success: true, Data: data})
}

func (s *Server) writeList(w http.ResponseWriter, data any, count int) {
	s.writeJSON(w, http.StatusOK, envelope{Success: true, Count: &count, Data: data})
}

func (s *Server) writeMessage(w http.ResponseWriter, status int, message string, data any) {
	s.writeJSON(w, status, envelope{Success: true, Message: message, Data: data})
}

func (s *Server) writeFailure(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, envelope{Success: false, Message: message})
}

// writeError maps the error taxonomy onto status codes. NotFound is 404,
// Duplicate and Validation are 400 with their specific message, anything
// else is a generic 500 with the detail kept to the log.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case domain.IsNotFound(err):
		s.writeFailure(w, http.StatusNotFound, err.Error())
	case domain.IsDuplicate(err), domain.IsValidation(err):
		s.writeFailure(w, http.StatusBadRequest, err.Error())
	default:
		if verrs, ok := err.(validator.ValidationErrors); ok {
			s.writeFailure(w, http.StatusBadRequest, verrs.Error())
			return
		}
		s.log.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		s.writeFailure(w, http.StatusInternalServerError, "Server error")
	}
}

func (s *Server) decode(r *http.Request, target any) error {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		return domain.ValidationError{Message: "invalid request body"}
	}
	return s.validate.Struct(target)
}

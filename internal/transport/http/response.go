package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"blog-service/internal/app"
	"blog-service/internal/domain"
	"blog-service/internal/logger"
)

type errorPayload struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case app.IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrQuestionNotFound), errors.Is(err, domain.ErrOptionOutOfRange):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, log *logger.Logger, err error) {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		log.Error("request failed", "error", err)
		message = http.StatusText(status)
	}
	writeJSON(w, status, errorPayload{Message: message})
}

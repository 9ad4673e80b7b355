package api

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/matzehuels/sankeyflow/pkg/errors"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code       errors.Code `json:"code"`
	Kind       string      `json:"kind"`
	Message    string      `json:"message"`
	Suggestion string      `json:"suggestion,omitempty"`
	RequestID  string      `json:"request_id,omitempty"`
}

// statusError is a transport-level failure with a fixed status.
type statusError struct {
	status int
	msg    string
}

func (e *statusError) Error() string { return e.msg }

func notFound(format string, args ...any) error {
	return errors.New(errors.ErrCodeNotFound, format, args...)
}

func badRequest(format string, args ...any) error {
	return errors.New(errors.ErrCodeInvalidInput, format, args...)
}

// statusFor maps an error to an HTTP status code.
func statusFor(err error) int {
	var se *statusError
	if stderrors.As(err, &se) {
		return se.status
	}
	var tooLarge *http.MaxBytesError
	if stderrors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeParse, errors.ErrCodeValidation,
		errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat:
		return http.StatusBadRequest
	case errors.ErrCodeLayout:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	resp := ErrorResponse{
		Code:       errors.GetCode(err),
		Kind:       errors.Kind(err),
		Message:    errors.UserMessage(err),
		Suggestion: errors.Suggestion(err),
		RequestID:  RequestIDFromContext(r.Context()),
	}
	if resp.Code == "" {
		resp.Code = errors.ErrCodeInternal
	}
	switch status {
	case http.StatusRequestEntityTooLarge:
		resp.Code = errors.ErrCodeInvalidInput
		resp.Kind = "input"
		resp.Message = fmt.Sprintf("request body exceeds %d bytes", s.cfg.MaxBodyBytes)
	case http.StatusMethodNotAllowed:
		resp.Code = errors.ErrCodeInvalidInput
		resp.Kind = "input"
	case http.StatusInternalServerError:
		s.logger.Error("request failed", "id", resp.RequestID, "err", err)
		resp.Message = "internal error"
	}
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

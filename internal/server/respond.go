package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/chartcore/pkg/errors"
	"github.com/matzehuels/chartcore/pkg/observability"
)

// errorResponse is the body of every non-2xx response.
type errorResponse struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
	Key     string      `json:"key,omitempty"`
	Field   string      `json:"field,omitempty"`
}

// statusFor maps an error code onto an HTTP status. Engine errors are
// problems with the submitted data and report 422.
func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidChart, errors.ErrCodeInvalidScale,
		errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidConfig:
		return http.StatusBadRequest
	case errors.ErrCodeDegenerateDomain, errors.ErrCodeUnknownCategory,
		errors.ErrCodeInvalidExtent, errors.ErrCodeMissingField:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound, errors.ErrCodeSessionNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	body := errorResponse{Code: errors.GetCode(err), Message: errors.UserMessage(err)}
	var e *errors.Error
	if stderrors.As(err, &e) {
		body.Key, body.Field = e.Key, e.Field
	}
	if body.Code == "" {
		body.Code = errors.ErrCodeInternal
	}

	status := statusFor(body.Code)
	if status >= http.StatusInternalServerError {
		route := chi.RouteContext(r.Context()).RoutePattern()
		observability.HTTP().OnError(r.Context(), r.Method, route, err)
		s.cfg.Logger.Error("request failed", "method", r.Method, "route", route, "err", err)
		body.Message = "internal error"
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeBytes(w http.ResponseWriter, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// decodeJSON reads a size-limited JSON body and rejects unknown fields.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body")
	}
	return nil
}

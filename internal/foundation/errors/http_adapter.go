package errors

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
)

// retryAfterSeconds is advertised on responses for transient failures.
const retryAfterSeconds = 5

var statusByCategory = map[ErrorCategory]int{
	CategoryValidation: http.StatusBadRequest,
	CategoryConfig:     http.StatusBadRequest,
	CategoryNotFound:   http.StatusNotFound,
	CategoryAbsent:     http.StatusNotFound,
	CategoryNetwork:    http.StatusBadGateway,
	CategoryResource:   http.StatusBadGateway,
	CategoryModule:     http.StatusBadGateway,
	CategoryMalformed:  http.StatusUnprocessableEntity,
}

// HTTPErrorAdapter turns page load failures into JSON responses.
type HTTPErrorAdapter struct {
	logger *slog.Logger
}

// NewHTTPErrorAdapter logs through logger, or slog.Default when nil.
func NewHTTPErrorAdapter(logger *slog.Logger) *HTTPErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPErrorAdapter{logger: logger}
}

// HTTPErrorResponse is the JSON error body.
type HTTPErrorResponse struct {
	Error   string         `json:"error"`
	Code    string         `json:"code,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// StatusCodeFor maps err to a status; unclassified errors are 500.
func (a *HTTPErrorAdapter) StatusCodeFor(err error) int {
	if err == nil {
		return http.StatusOK
	}
	if c, ok := AsClassified(err); ok {
		if status, ok := statusByCategory[c.Category()]; ok {
			return status
		}
	}
	return http.StatusInternalServerError
}

// WriteErrorResponse writes err as JSON and logs it. Transient failures
// carry a Retry-After header.
func (a *HTTPErrorAdapter) WriteErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		w.WriteHeader(http.StatusOK)
		return
	}
	status := a.StatusCodeFor(err)
	h := w.Header()
	h.Set("Content-Type", "application/json")
	h.Set("Cache-Control", "no-store")
	if IsTransient(err) {
		h.Set("Retry-After", strconv.Itoa(retryAfterSeconds))
	}
	w.WriteHeader(status)
	if encErr := json.NewEncoder(w).Encode(a.FormatErrorResponse(err)); encErr != nil {
		a.logger.Warn("Failed to encode error response", "error", encErr)
	}

	level := slog.LevelError
	if c, ok := AsClassified(err); ok {
		level = logLevel(c.Severity())
	}
	a.logger.Log(r.Context(), level, err.Error(), "path", r.URL.Path, "status", status)
}

// FormatErrorResponse builds the JSON body for err.
func (a *HTTPErrorAdapter) FormatErrorResponse(err error) HTTPErrorResponse {
	c, ok := AsClassified(err)
	switch {
	case err == nil:
		return HTTPErrorResponse{}
	case !ok:
		return HTTPErrorResponse{Error: err.Error()}
	}
	resp := HTTPErrorResponse{Error: c.Message(), Code: string(c.Category())}
	if len(c.Context()) > 0 {
		resp.Details = c.Context()
	}
	return resp
}

package http

import (
	"encoding/json"
	"net/http"

	"github.com/fwojciec/docmerge"
)

// codes maps application error codes to HTTP status codes.
var codes = map[string]int{
	docmerge.EINVALID:     http.StatusBadRequest,
	docmerge.ENOTFOUND:    http.StatusNotFound,
	docmerge.ETIMEOUT:     http.StatusGatewayTimeout,
	docmerge.EUNAVAILABLE: http.StatusServiceUnavailable,
	docmerge.EINTERNAL:    http.StatusInternalServerError,
}

// ErrorStatusCode returns the HTTP status code for an application error code.
func ErrorStatusCode(code string) int {
	if v, ok := codes[code]; ok {
		return v
	}
	return http.StatusInternalServerError
}

// Error writes err as a JSON {"detail": ...} body with the matching status.
// Internal errors are logged.
func (s *Server) Error(w http.ResponseWriter, r *http.Request, err error) {
	code, message := docmerge.ErrorCode(err), docmerge.ErrorMessage(err)

	if code == docmerge.EINTERNAL {
		s.logger().Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	}

	writeJSON(w, ErrorStatusCode(code), errorResponse{Detail: message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

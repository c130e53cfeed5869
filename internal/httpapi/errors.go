package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"predictd/pkg/types"
)

// HTTPError allows services to provide an HTTP status code for an error.
type HTTPError interface {
	error
	StatusCode() int
}

// predictionErrorPrefix starts the detail of every 5xx /predict response.
const predictionErrorPrefix = "Prediction error: "

// statusFor maps a service error to a status code. Errors without a
// StatusCode are internal.
func statusFor(err error) int {
	var he HTTPError
	if errors.As(err, &he) {
		return he.StatusCode()
	}
	return http.StatusInternalServerError
}

// writePredictError writes err with the status it maps to.
func writePredictError(w http.ResponseWriter, err error) int {
	status := statusFor(err)
	detail := err.Error()
	if status >= http.StatusInternalServerError {
		detail = predictionErrorPrefix + detail
	}
	writeJSONError(w, status, detail)
	return status
}

// writeJSONError writes a consistent JSON error payload.
func writeJSONError(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.ErrorResponse{Detail: detail})
}

package devapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string, fields map[string]string) {
	writeJSON(w, status, errorResponse{
		Message:   message,
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Errors:    fields,
	})
}

// writeValidation answers 400 with per-field messages from ozzo-validation.
func writeValidation(w http.ResponseWriter, err error) {
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	fields := make(map[string]string, len(verrs))
	for name, fieldErr := range verrs {
		fields[name] = fieldErr.Error()
	}
	writeError(w, http.StatusBadRequest, "Validation failed", fields)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(v)
}

package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/clepbridge/clepbridge/internal/match"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type fieldErrors struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

// writeMatchError maps engine errors onto status codes. Data-source failures
// are logged with the request id and hidden from the caller.
func writeMatchError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *match.ValidationError
	var dse *match.DataSourceError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, fieldErrors{Error: "validation failed", Fields: ve.Fields})
	case errors.As(err, &dse):
		log.Printf("[%s] %s %s: %v", middleware.GetReqID(r.Context()), r.Method, r.URL.Path, err)
		http.Error(w, "data source unavailable", http.StatusInternalServerError)
	default:
		log.Printf("[%s] %s %s: %v", middleware.GetReqID(r.Context()), r.Method, r.URL.Path, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return false
	}
	return true
}

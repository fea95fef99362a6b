package common

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// WriteJSON serializes payload to JSON with status and logs on failure.
func WriteJSON(logger *zap.Logger, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil && logger != nil {
		logger.Warn("failed to encode JSON response", zap.Error(err))
	}
}

// DecodeJSON reads at most MaxRequestBody bytes of JSON into dst.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxRequestBody))
	return dec.Decode(dst)
}

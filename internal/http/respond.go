package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

type successEnvelope struct {
	Success bool `json:"success"`
	Result  any  `json:"result"`
}

type errorEnvelope struct {
	Error string `json:"error"`
}

// respondOK writes the success envelope around result.
func respondOK(w http.ResponseWriter, result any) {
	writeJSON(w, http.StatusOK, successEnvelope{Success: true, Result: result})
}

// respondError writes the error envelope. A nil or empty error message
// falls back to "unknown error" so the client always gets a reason.
func respondError(w http.ResponseWriter, status int, err error) {
	msg := "unknown error"
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	writeJSON(w, status, errorEnvelope{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// decodeJSON decodes the request body into dst, rejecting unknown
// syntax but not unknown fields.
func decodeJSON(r *http.Request, dst any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}

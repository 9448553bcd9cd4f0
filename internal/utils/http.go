package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
)

const contentTypeJSON = "application/json"

// WriteJSON encodes data and writes it with the given status.
// The body is encoded before any header is sent, so an encoding failure
// still yields a clean 500 instead of a truncated success response.
func WriteJSON(w http.ResponseWriter, data any, statusCode int) (int, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(data); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return 0, fmt.Errorf("encode response body: %w", err)
	}

	w.Header().Set("Content-Type", contentTypeJSON)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(statusCode)

	return w.Write(bytes.TrimRight(buf.Bytes(), "\n"))
}

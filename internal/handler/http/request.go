package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/MKhiriev/go-task-keeper/internal/validators"
	"github.com/go-chi/chi/v5"
)

const fieldID = "id"

// decodeJSON reads the request body into v.
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}
	return nil
}

// decodeOptionalJSON is decodeJSON for endpoints whose body may be empty.
func decodeOptionalJSON(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidJSON, err)
}

// pathID reads the {id} route parameter.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, fieldID), 10, 64)
	if err != nil || id <= 0 {
		return 0, validators.Single(fieldID, "Id must be a positive integer")
	}
	return id, nil
}

package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	type owner struct {
		Email string `json:"email"`
	}
	type task struct {
		ID    int64  `json:"id"`
		Title string `json:"title"`
		Owner owner  `json:"owner"`
	}

	tests := []struct {
		name   string
		data   any
		status int
		body   string
	}{
		{
			name:   "struct",
			data:   task{ID: 3, Title: "write report", Owner: owner{Email: "a@b.c"}},
			status: http.StatusCreated,
			body:   `{"id":3,"title":"write report","owner":{"email":"a@b.c"}}`,
		},
		{name: "nil", data: nil, status: http.StatusOK, body: `null`},
		{name: "empty slice", data: []int{}, status: http.StatusOK, body: `[]`},
		{name: "html kept verbatim", data: map[string]string{"q": "<a&b>"}, status: http.StatusOK, body: `{"q":"<a&b>"}`},
		{name: "error status", data: map[string]string{"kind": "not_found"}, status: http.StatusNotFound, body: `{"kind":"not_found"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()

			n, err := WriteJSON(w, tt.data, tt.status)

			require.NoError(t, err)
			assert.Equal(t, len(tt.body), n)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, contentTypeJSON, w.Header().Get("Content-Type"))
			assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
			assert.Equal(t, tt.body, w.Body.String())
		})
	}
}

func TestWriteJSON_Unencodable(t *testing.T) {
	w := httptest.NewRecorder()

	n, err := WriteJSON(w, make(chan int), http.StatusOK)

	require.Error(t, err)
	assert.Zero(t, n)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotEqual(t, contentTypeJSON, w.Header().Get("Content-Type"))
}

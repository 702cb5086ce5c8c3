package http

import (
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONResponseBuilder_Basic(t *testing.T) {
	w := httptest.NewRecorder()

	err := NewJSONResponse().
		Status(http.StatusAccepted).
		Header("X-Test", "1").
		Body(map[string]int{"n": 1}).
		Write(w)

	require.NoError(t, err)
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-Test"))
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"n":1}`, w.Body.String())
}

func TestJSONResponseBuilder_EncodeFailure(t *testing.T) {
	w := httptest.NewRecorder()

	err := NewJSONResponse().Body(math.NaN()).Write(w)

	assert.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal error"}`, w.Body.String())
}

func TestErrorAndMessageResponses(t *testing.T) {
	tests := []struct {
		name   string
		b      *JSONResponseBuilder
		status int
		body   string
	}{
		{"internal", InternalServerError("Error fetching statistics"), 500, `{"error":"Error fetching statistics"}`},
		{"unavailable", ServiceUnavailableError("store unavailable"), 503, `{"error":"store unavailable"}`},
		{"message", MessageResponse("Database initialized successfully"), 200, `{"message":"Database initialized successfully"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			require.NoError(t, tt.b.Write(w))
			assert.Equal(t, tt.status, w.Code)
			assert.JSONEq(t, tt.body, w.Body.String())
		})
	}
}

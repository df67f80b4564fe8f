package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/g0c0de0rd1e/audiomagister/pkg/api"
)

func TestRecoveryMiddleware(t *testing.T) {
	tests := []struct {
		panicValue any
		name       string
	}{
		{name: "string panic", panicValue: "boom"},
		{name: "error panic", panicValue: assert.AnError},
		{name: "nil map write", panicValue: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
				if tt.panicValue == nil {
					var m map[string]int
					m["x"] = 1
				}
				panic(tt.panicValue)
			})

			w := httptest.NewRecorder()
			assert.NotPanics(t, func() {
				RecoveryMiddleware(newBufferLogger(&buf))(next).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/uploadfile/", nil))
			})

			assert.Equal(t, http.StatusInternalServerError, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

			var errResp api.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
			assert.Equal(t, "internal server error", errResp.Detail)

			assert.Contains(t, buf.String(), "Panic recovered")
			assert.Contains(t, buf.String(), "goroutine", "stack trace should be logged")
		})
	}
}

func TestRecoveryMiddleware_NoPanic(t *testing.T) {
	var buf bytes.Buffer
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})

	w := httptest.NewRecorder()
	RecoveryMiddleware(newBufferLogger(&buf))(next).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Empty(t, buf.String())
}

func TestRecoveryMiddleware_RepanicsOnAbortHandler(t *testing.T) {
	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(http.ErrAbortHandler)
	})

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		RecoveryMiddleware(setupTestLogger())(next).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}

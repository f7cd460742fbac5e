package response

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"cosmos-server/internal/shared/errors"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestErrorStatusMapping(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errors.NotFoundf("cosmos %d", 1), http.StatusNotFound},
		{errors.Validation("bad range"), http.StatusBadRequest},
		{errors.Conflictf("exists"), http.StatusConflict},
		{errors.Unauthorized("no token"), http.StatusUnauthorized},
		{errors.Forbidden("admin only"), http.StatusForbidden},
		{errors.MethodNotAllowed(http.MethodPut), http.StatusMethodNotAllowed},
		{errors.RateLimited("slow down"), http.StatusTooManyRequests},
		{errors.WrapExternal("redis", io.EOF), http.StatusServiceUnavailable},
		{errors.Configurationf("bad table"), http.StatusInternalServerError},
		{io.ErrUnexpectedEOF, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(errors.GetType(tt.err)), func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/cosmoses", nil)
			w := httptest.NewRecorder()

			Error(w, r, discardLogger(), tt.err)

			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}

			var body ErrorResponse
			if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Code != tt.want || body.Error != string(errors.GetType(tt.err)) {
				t.Errorf("body = %+v", body)
			}
		})
	}
}

func TestErrorWithMessage(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	ErrorWithMessage(w, r, discardLogger(), errors.WrapInternal("pq: relation missing", io.EOF), "failed to load cosmos")

	var body ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Message != "failed to load cosmos" {
		t.Errorf("message = %q", body.Message)
	}
}

func TestSuccess(t *testing.T) {
	w := httptest.NewRecorder()
	Success(w, http.StatusCreated, map[string]int{"stars": 4})

	if w.Code != http.StatusCreated {
		t.Errorf("status = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}
	if w.Body.String() != "{\"stars\":4}\n" {
		t.Errorf("body = %q", w.Body.String())
	}
}

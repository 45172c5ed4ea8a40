package httputil

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "github.com/YuriTheCoder/AuditCenter-API/pkg/domain-errors"
)

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestWriteErrorStatusMapping(t *testing.T) {
	cases := []struct {
		code   dErrors.Code
		status int
	}{
		{dErrors.CodeValidation, http.StatusBadRequest},
		{dErrors.CodeBadRequest, http.StatusBadRequest},
		{dErrors.CodeUnauthorized, http.StatusUnauthorized},
		{dErrors.CodeForbidden, http.StatusForbidden},
		{dErrors.CodeNotFound, http.StatusNotFound},
		{dErrors.CodeConflict, http.StatusConflict},
		{dErrors.CodeInternal, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(string(tc.code), func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(rec, dErrors.New(tc.code, "boom"))

			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, string(tc.code), decodeBody(t, rec)["error"])
		})
	}
}

func TestWriteErrorHidesInternalDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, dErrors.Wrap(errors.New("pq: connection refused"), dErrors.CodeInternal, "db down"))

	body := decodeBody(t, rec)
	assert.NotContains(t, body, "error_description")
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestWriteErrorIncludesClientSafeDescription(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, dErrors.New(dErrors.CodeValidation, "invalid request").
		WithDetails(map[string]string{"email": "is required"}))

	body := decodeBody(t, rec)
	assert.Equal(t, "invalid request", body["error_description"])
	details, ok := body["details"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "is required", details["email"])
}

func TestWriteErrorUnclassified(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, errors.New("somebody forgot to wrap this"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

type prepared struct {
	Email string `json:"email"`

	normalized bool
}

func (p *prepared) Normalize() {
	p.Email = strings.ToLower(p.Email)
	p.normalized = true
}

func (p *prepared) Validate() error {
	if p.Email == "" {
		return dErrors.New(dErrors.CodeValidation, "invalid request")
	}
	return nil
}

func TestDecodeAndPrepare(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("runs normalize then validate", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"A@X.COM"}`))
		rec := httptest.NewRecorder()

		got, ok := DecodeAndPrepare[prepared](rec, req, logger, req.Context(), "rid")
		require.True(t, ok)
		assert.True(t, got.normalized)
		assert.Equal(t, "a@x.com", got.Email)
	})

	t.Run("malformed json is a bad request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":`))
		rec := httptest.NewRecorder()

		_, ok := DecodeAndPrepare[prepared](rec, req, logger, req.Context(), "rid")
		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("validation failure writes the error", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))
		rec := httptest.NewRecorder()

		_, ok := DecodeAndPrepare[prepared](rec, req, logger, req.Context(), "rid")
		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

package request

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"
)

type payload struct {
	Amount int64 `json:"amount" validate:"required,gt=0"`
}

func TestBind(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	v := validator.New()

	tests := []struct {
		name       string
		body       string
		wantOK     bool
		wantStatus int
		wantBody   string
	}{
		{name: "валидное тело", body: `{"amount":150}`, wantOK: true, wantStatus: http.StatusOK},
		{name: "пустое тело", body: ``, wantStatus: http.StatusBadRequest, wantBody: `"error":"empty request"`},
		{name: "битый json", body: `{`, wantStatus: http.StatusBadRequest, wantBody: `"error":"failed to decode request"`},
		{name: "ноль", body: `{"amount":0}`, wantStatus: http.StatusBadRequest, wantBody: `field Amount is a required field`},
		{name: "отрицательная сумма", body: `{"amount":-5}`, wantStatus: http.StatusBadRequest, wantBody: `field Amount must be greater than 0`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			var dst payload
			ok := Bind(w, req, log, v, &dst)

			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}
}

func TestID(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		raw    string
		want   int64
		wantOK bool
	}{
		{raw: "42", want: 42, wantOK: true},
		{raw: "abc"},
		{raw: "0"},
		{raw: "-3"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.raw)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
			w := httptest.NewRecorder()

			id, ok := ID(w, req, log, "id")

			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, id)
			if !ok {
				assert.Equal(t, http.StatusBadRequest, w.Code)
			}
		})
	}
}

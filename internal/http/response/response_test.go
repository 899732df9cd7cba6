package response

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/subscription-wallet/internal/access"
	"github.com/magabrotheeeer/subscription-wallet/internal/ledger"
	"github.com/magabrotheeeer/subscription-wallet/internal/models"
)

func TestStatusAndMessage(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "not found",
			err:        fmt.Errorf("topup.Resolve: %w", models.ErrNotFound),
			wantStatus: http.StatusNotFound,
			wantMsg:    "not found",
		},
		{
			name:       "invalid input keeps detail",
			err:        fmt.Errorf("topup.Submit: %w: amount must be at least 100", models.ErrInvalidInput),
			wantStatus: http.StatusBadRequest,
			wantMsg:    "invalid input: amount must be at least 100",
		},
		{
			name:       "already processed",
			err:        fmt.Errorf("a: b: %w", models.ErrAlreadyProcessed),
			wantStatus: http.StatusBadRequest,
			wantMsg:    "topup already processed",
		},
		{
			name:       "insufficient funds",
			err:        fmt.Errorf("subscription.Purchase: %w", fmt.Errorf("ledger.Debit: %w: have 1, need 2", ledger.ErrInsufficientFunds)),
			wantStatus: http.StatusPaymentRequired,
			wantMsg:    "insufficient funds: have 1, need 2",
		},
		{
			name:       "self action",
			err:        fmt.Errorf("user.ChangeRole: %w", access.ErrSelfAction),
			wantStatus: http.StatusForbidden,
			wantMsg:    "forbidden: action on own account is not allowed",
		},
		{
			name:       "banned",
			err:        access.ErrBanned,
			wantStatus: http.StatusForbidden,
			wantMsg:    "account banned",
		},
		{
			name:       "internal error is hidden",
			err:        errors.New("pq: connection refused at 10.0.0.5"),
			wantStatus: http.StatusInternalServerError,
			wantMsg:    InternalMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantStatus, Status(tt.err))
			assert.Equal(t, tt.wantMsg, Message(tt.err))
		})
	}
}

func TestValidationError(t *testing.T) {
	type request struct {
		Amount int64  `validate:"required,gt=0"`
		Status string `validate:"required,oneof=approved rejected"`
	}
	err := validator.New().Struct(request{Amount: 0, Status: "maybe"})
	require.Error(t, err)

	resp := ValidationError(err.(validator.ValidationErrors))
	assert.Equal(t, StatusError, resp.Status)
	assert.Contains(t, resp.Error, "field Amount is a required field")
	assert.Contains(t, resp.Error, "field Status must be one of [approved rejected]")

	type capped struct {
		Amount int64 `validate:"required,gt=0,max=1000"`
	}
	err = validator.New().Struct(capped{Amount: 1001})
	require.Error(t, err)
	resp = ValidationError(err.(validator.ValidationErrors))
	assert.Equal(t, "field Amount must not exceed 1000", resp.Error)
}

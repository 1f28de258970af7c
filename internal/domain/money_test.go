package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPayment_Amount(t *testing.T) {
	now := time.Date(2026, 10, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		amount  string
		wantErr bool
	}{
		{name: "whole", amount: "500"},
		{name: "two decimals", amount: "10.25"},
		{name: "largest storable", amount: "9999999999.99"},
		{name: "zero", amount: "0", wantErr: true},
		{name: "fraction of a cent", amount: "0.001", wantErr: true},
		{name: "three decimals", amount: "10.004", wantErr: true},
		{name: "too large", amount: "10000000000", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewPayment(NewPaymentParams{
				ID: "pay-1", FirmID: "firm-1", EventID: "event-1", ReceivedBy: "user-1",
				Amount: decimal.RequireFromString(tt.amount), PaymentMethod: PaymentMethodUPI,
			}, now)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, now, p.PaymentDate)
		})
	}
}

func TestNewExpense_Amount(t *testing.T) {
	now := time.Date(2026, 10, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		amount  string
		wantErr bool
	}{
		{name: "two decimals", amount: "199.90"},
		{name: "negative", amount: "-5", wantErr: true},
		{name: "three decimals", amount: "199.905", wantErr: true},
		{name: "too large", amount: "12345678901", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewExpense(NewExpenseParams{
				ID: "exp-1", FirmID: "firm-1", CreatedBy: "user-1", Title: "Lens rental",
				Amount: decimal.RequireFromString(tt.amount), Category: "equipment",
			}, now)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrValidation)
				return
			}
			assert.NoError(t, err)
		})
	}
}

package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuotation_Convert(t *testing.T) {
	now := time.Now()
	q, err := NewQuotation(NewQuotationParams{
		ID: "q-1", FirmID: "firm-1", ClientID: "client-1", CreatedBy: "user-1",
		Title: "Pre-wedding shoot", EventType: "pre_wedding",
		EventDate: now.AddDate(0, 1, 0), TotalAmount: decimal.NewFromInt(5000),
	}, now)
	require.NoError(t, err)
	assert.True(t, q.CanConvert())

	params := q.EventParams("event-1", decimal.NewFromInt(1000), nil, nil)
	assert.Equal(t, q.ClientID, params.ClientID)
	assert.True(t, params.TotalAmount.Equal(q.TotalAmount))

	require.NoError(t, q.MarkConverted("event-1", now))
	assert.Equal(t, QuotationStatusConverted, q.Status)
	require.NotNil(t, q.EventID)
	assert.Equal(t, "event-1", *q.EventID)

	assert.ErrorIs(t, q.MarkConverted("event-2", now), ErrValidation)
}

func TestNewQuotation_Invalid(t *testing.T) {
	_, err := NewQuotation(NewQuotationParams{ClientID: "c", Title: "Shoot", EventType: "x", EventDate: time.Now()}, time.Now())
	assert.ErrorIs(t, err, ErrValidation)

	for _, amount := range []string{"4999.999", "10000000000"} {
		_, err := NewQuotation(NewQuotationParams{
			ClientID: "c", Title: "Shoot", EventType: "x", EventDate: time.Now(),
			TotalAmount: decimal.RequireFromString(amount),
		}, time.Now())
		assert.ErrorIs(t, err, ErrValidation, amount)
	}
}

func TestClampActivityLimit(t *testing.T) {
	assert.Equal(t, DefaultActivityLimit, ClampActivityLimit(0))
	assert.Equal(t, DefaultActivityLimit, ClampActivityLimit(-5))
	assert.Equal(t, 25, ClampActivityLimit(25))
	assert.Equal(t, MaxActivityLimit, ClampActivityLimit(1000))
}

package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/edu-portal-api/internal/models"
	appErrors "github.com/noah-isme/edu-portal-api/pkg/errors"
)

func TestFeeServiceAmountFor(t *testing.T) {
	svc := NewFeeService(models.FeeStructure{MonthlyFee: 500, AnnualFee: 4800})

	amount, err := svc.AmountFor(models.PaymentTypeMonthly)
	require.NoError(t, err)
	assert.Equal(t, int64(500), amount)

	amount, err = svc.AmountFor(models.PaymentTypeAnnual)
	require.NoError(t, err)
	assert.Equal(t, int64(4800), amount)

	_, err = svc.AmountFor(models.PaymentType("quarterly"))
	assert.True(t, errors.Is(err, appErrors.ErrInvalidArgument))
}

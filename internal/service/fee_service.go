package service

import (
	"fmt"

	"github.com/noah-isme/edu-portal-api/internal/models"
	appErrors "github.com/noah-isme/edu-portal-api/pkg/errors"
)

// FeeService serves the fee structure provisioned at start-up.
type FeeService struct {
	fees models.FeeStructure
}

// NewFeeService wraps an immutable fee structure.
func NewFeeService(fees models.FeeStructure) *FeeService {
	return &FeeService{fees: fees}
}

// Current returns the fee structure.
func (s *FeeService) Current() models.FeeStructure {
	return s.fees
}

// AmountFor returns the fee charged for a payment type.
func (s *FeeService) AmountFor(paymentType models.PaymentType) (int64, error) {
	switch paymentType {
	case models.PaymentTypeMonthly:
		return s.fees.MonthlyFee, nil
	case models.PaymentTypeAnnual:
		return s.fees.AnnualFee, nil
	default:
		return 0, appErrors.Clone(appErrors.ErrInvalidArgument, fmt.Sprintf("unknown payment type %q", paymentType))
	}
}

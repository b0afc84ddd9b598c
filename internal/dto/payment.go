package dto

// InitiatePaymentRequest opens a pending payment.
type InitiatePaymentRequest struct {
	PaymentType string `json:"paymentType" validate:"required"`
}

// InitiatePaymentResponse carries the id of the new payment.
type InitiatePaymentResponse struct {
	ID     int64  `json:"id"`
	Amount int64  `json:"amount"`
	Status string `json:"status"`
}

// RecordCompletionRequest reports the gateway outcome of a payment.
type RecordCompletionRequest struct {
	Success *bool `json:"success" validate:"required"`
}

// PaymentStatusResponse reports the current status of a payment.
type PaymentStatusResponse struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
}

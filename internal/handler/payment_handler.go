package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/edu-portal-api/internal/dto"
	"github.com/noah-isme/edu-portal-api/internal/middleware"
	"github.com/noah-isme/edu-portal-api/internal/models"
	"github.com/noah-isme/edu-portal-api/internal/service"
	appErrors "github.com/noah-isme/edu-portal-api/pkg/errors"
	"github.com/noah-isme/edu-portal-api/pkg/response"
)

type paymentService interface {
	Initiate(ctx context.Context, caller models.Caller, paymentType models.PaymentType) (*models.Payment, error)
	RecordCompletion(ctx context.Context, caller models.Caller, student string, id int64, success bool) (*models.Payment, error)
	Status(ctx context.Context, caller models.Caller, student string, id int64) (models.PaymentStatus, bool, error)
	History(ctx context.Context, caller models.Caller, student string) ([]models.Payment, error)
}

type statementExporter interface {
	ExportHistory(ctx context.Context, caller models.Caller, student string, format service.StatementFormat) (*service.Statement, error)
}

// PaymentHandler exposes the payment ledger.
type PaymentHandler struct {
	service  paymentService
	exporter statementExporter
}

// NewPaymentHandler builds a new handler.
func NewPaymentHandler(service paymentService, exporter statementExporter) *PaymentHandler {
	return &PaymentHandler{service: service, exporter: exporter}
}

// Initiate godoc
// @Summary Open a pending payment for the caller
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.InitiatePaymentRequest true "Payment payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /payments [post]
func (h *PaymentHandler) Initiate(c *gin.Context) {
	var req dto.InitiatePaymentRequest
	if err := bindJSON(c, &req, "invalid payment payload"); err != nil {
		response.Error(c, err)
		return
	}
	paymentType, err := models.ParsePaymentType(req.PaymentType)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInvalidArgument.Code, appErrors.ErrInvalidArgument.Status, "unknown payment type"))
		return
	}
	payment, err := h.service.Initiate(c.Request.Context(), callerFromContext(c), paymentType)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.InitiatePaymentResponse{ID: payment.ID, Amount: payment.Amount, Status: string(payment.Status)})
}

// History godoc
// @Summary List a student's payments
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Param principal path string true "Student identity"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /students/{principal}/payments [get]
func (h *PaymentHandler) History(c *gin.Context) {
	payments, err := h.service.History(c.Request.Context(), callerFromContext(c), c.Param(middleware.PrincipalParam))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, payments)
}

// Status godoc
// @Summary Get the status of a payment
// @Description Responds with null data when the id is unknown for the student.
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Param principal path string true "Student identity"
// @Param id path int true "Payment ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /students/{principal}/payments/{id}/status [get]
func (h *PaymentHandler) Status(c *gin.Context) {
	id, err := int64Param(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	status, found, err := h.service.Status(c.Request.Context(), callerFromContext(c), c.Param(middleware.PrincipalParam), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !found {
		response.JSON(c, http.StatusOK, nil, map[string]interface{}{"found": false})
		return
	}
	response.JSON(c, http.StatusOK, dto.PaymentStatusResponse{ID: id, Status: string(status)}, map[string]interface{}{"found": true})
}

// Complete godoc
// @Summary Record the gateway outcome of a pending payment
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param principal path string true "Student identity"
// @Param id path int true "Payment ID"
// @Param payload body dto.RecordCompletionRequest true "Outcome payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /students/{principal}/payments/{id}/completion [post]
func (h *PaymentHandler) Complete(c *gin.Context) {
	id, err := int64Param(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.RecordCompletionRequest
	if err := bindJSON(c, &req, "invalid completion payload"); err != nil {
		response.Error(c, err)
		return
	}
	payment, err := h.service.RecordCompletion(c.Request.Context(), callerFromContext(c), c.Param(middleware.PrincipalParam), id, *req.Success)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, payment)
}

// Export godoc
// @Summary Download a payment statement
// @Tags Payments
// @Produce text/csv
// @Produce application/pdf
// @Security BearerAuth
// @Param principal path string true "Student identity"
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /students/{principal}/payments/export [get]
func (h *PaymentHandler) Export(c *gin.Context) {
	format, err := service.ParseStatementFormat(c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	statement, err := h.exporter.ExportHistory(c.Request.Context(), callerFromContext(c), c.Param(middleware.PrincipalParam), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, statement.Filename, statement.ContentType, statement.Body)
}

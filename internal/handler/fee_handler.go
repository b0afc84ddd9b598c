package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/edu-portal-api/internal/models"
	"github.com/noah-isme/edu-portal-api/pkg/response"
)

type feeReader interface {
	Current() models.FeeStructure
}

// FeeHandler serves the fee structure.
type FeeHandler struct {
	fees feeReader
}

// NewFeeHandler builds a new handler.
func NewFeeHandler(fees feeReader) *FeeHandler {
	return &FeeHandler{fees: fees}
}

// Get godoc
// @Summary Get the fee structure
// @Tags Payments
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /fees [get]
func (h *FeeHandler) Get(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.fees.Current())
}

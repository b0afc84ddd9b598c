package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/edu-portal-api/internal/models"
	"github.com/noah-isme/edu-portal-api/internal/service"
	appErrors "github.com/noah-isme/edu-portal-api/pkg/errors"
)

type paymentServiceMock struct {
	initiated     []models.PaymentType
	completions   []bool
	completionErr error
	status        models.PaymentStatus
	found         bool
}

func (m *paymentServiceMock) Initiate(ctx context.Context, caller models.Caller, paymentType models.PaymentType) (*models.Payment, error) {
	m.initiated = append(m.initiated, paymentType)
	return &models.Payment{ID: 7, Student: caller.Principal, PaymentType: paymentType, Amount: 500, Status: models.PaymentStatusPending}, nil
}

func (m *paymentServiceMock) RecordCompletion(ctx context.Context, caller models.Caller, student string, id int64, success bool) (*models.Payment, error) {
	m.completions = append(m.completions, success)
	if m.completionErr != nil {
		return nil, m.completionErr
	}
	return &models.Payment{ID: id, Student: student, Status: models.SettlementStatus(success)}, nil
}

func (m *paymentServiceMock) Status(ctx context.Context, caller models.Caller, student string, id int64) (models.PaymentStatus, bool, error) {
	return m.status, m.found, nil
}

func (m *paymentServiceMock) History(ctx context.Context, caller models.Caller, student string) ([]models.Payment, error) {
	return []models.Payment{}, nil
}

type exporterMock struct {
	format service.StatementFormat
}

func (m *exporterMock) ExportHistory(ctx context.Context, caller models.Caller, student string, format service.StatementFormat) (*service.Statement, error) {
	m.format = format
	return &service.Statement{Filename: "payments_" + student + ".csv", ContentType: "text/csv", Body: []byte("ID\n")}, nil
}

func TestPaymentHandlerInitiate(t *testing.T) {
	mockSvc := &paymentServiceMock{}
	handler := NewPaymentHandler(mockSvc, &exporterMock{})

	c, w := newTestContext(http.MethodPost, "/payments", `{"paymentType":"monthly"}`, "asha", nil)
	handler.Initiate(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"id":7,"amount":500,"status":"pending"}`, string(decodeEnvelope(t, w).Data))

	c, w = newTestContext(http.MethodPost, "/payments", `{"paymentType":"weekly"}`, "asha", nil)
	handler.Initiate(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, appErrors.ErrInvalidArgument.Code, decodeEnvelope(t, w).Error.Code)
	assert.Equal(t, []models.PaymentType{models.PaymentTypeMonthly}, mockSvc.initiated)
}

func TestPaymentHandlerComplete(t *testing.T) {
	mockSvc := &paymentServiceMock{}
	handler := NewPaymentHandler(mockSvc, &exporterMock{})
	params := gin.Params{{Key: "principal", Value: "asha"}, {Key: "id", Value: "7"}}

	c, w := newTestContext(http.MethodPost, "/students/asha/payments/7/completion", `{"success":false}`, "asha", params)
	handler.Complete(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(decodeEnvelope(t, w).Data), `"status":"failed"`)

	c, w = newTestContext(http.MethodPost, "/students/asha/payments/7/completion", `{}`, "asha", params)
	handler.Complete(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []bool{false}, mockSvc.completions)

	mockSvc.completionErr = appErrors.Clone(appErrors.ErrInvalidState, "payment 7 is already failed")
	c, w = newTestContext(http.MethodPost, "/students/asha/payments/7/completion", `{"success":true}`, "asha", params)
	handler.Complete(c)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, appErrors.ErrInvalidState.Code, decodeEnvelope(t, w).Error.Code)
}

func TestPaymentHandlerStatus(t *testing.T) {
	mockSvc := &paymentServiceMock{status: models.PaymentStatusPending, found: true}
	handler := NewPaymentHandler(mockSvc, &exporterMock{})
	params := gin.Params{{Key: "principal", Value: "asha"}, {Key: "id", Value: "7"}}

	c, w := newTestContext(http.MethodGet, "/students/asha/payments/7/status", "", "asha", params)
	handler.Status(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":7,"status":"pending"}`, string(decodeEnvelope(t, w).Data))

	mockSvc.found = false
	c, w = newTestContext(http.MethodGet, "/students/asha/payments/7/status", "", "asha", params)
	handler.Status(c)
	require.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	assert.Equal(t, "null", string(env.Data))
	assert.Equal(t, false, env.Meta["found"])
}

func TestPaymentHandlerExport(t *testing.T) {
	exporter := &exporterMock{}
	handler := NewPaymentHandler(&paymentServiceMock{}, exporter)
	params := gin.Params{{Key: "principal", Value: "asha"}}

	c, w := newTestContext(http.MethodGet, "/students/asha/payments/export?format=csv", "", "asha", params)
	handler.Export(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="payments_asha.csv"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, service.StatementFormatCSV, exporter.format)

	c, w = newTestContext(http.MethodGet, "/students/asha/payments/export?format=xml", "", "asha", params)
	handler.Export(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

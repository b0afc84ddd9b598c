package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/edu-portal-api/internal/models"
	appErrors "github.com/noah-isme/edu-portal-api/pkg/errors"
	"github.com/noah-isme/edu-portal-api/pkg/export"
)

// StatementFormat selects the rendering of a payment statement.
type StatementFormat string

const (
	StatementFormatCSV StatementFormat = "csv"
	StatementFormatPDF StatementFormat = "pdf"
)

// ParseStatementFormat validates raw input. An empty value selects CSV.
func ParseStatementFormat(raw string) (StatementFormat, error) {
	switch f := StatementFormat(strings.ToLower(strings.TrimSpace(raw))); f {
	case "":
		return StatementFormatCSV, nil
	case StatementFormatCSV, StatementFormatPDF:
		return f, nil
	default:
		return "", appErrors.Clone(appErrors.ErrInvalidArgument, fmt.Sprintf("unsupported statement format %q", raw))
	}
}

type paymentHistorian interface {
	History(ctx context.Context, caller models.Caller, student string) ([]models.Payment, error)
}

type statementRenderer interface {
	Render(data export.Dataset) ([]byte, error)
	ContentType() string
	Extension() string
}

// Statement is a rendered payment statement ready to be served as an attachment.
type Statement struct {
	Filename    string
	ContentType string
	Body        []byte
}

// ExportService renders payment statements.
type ExportService struct {
	payments paymentHistorian
	csv      statementRenderer
	pdf      statementRenderer
	logger   *zap.Logger
	now      func() time.Time
}

// NewExportService constructs an ExportService. Nil renderers select the defaults.
func NewExportService(payments paymentHistorian, csv, pdf statementRenderer, logger *zap.Logger) *ExportService {
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{payments: payments, csv: csv, pdf: pdf, logger: logger, now: time.Now}
}

// ExportHistory renders the payment history of student. Access follows History.
func (s *ExportService) ExportHistory(ctx context.Context, caller models.Caller, student string, format StatementFormat) (*Statement, error) {
	payments, err := s.payments.History(ctx, caller, student)
	if err != nil {
		return nil, err
	}

	var renderer statementRenderer
	switch format {
	case StatementFormatCSV:
		renderer = s.csv
	case StatementFormatPDF:
		renderer = s.pdf
	default:
		return nil, appErrors.Clone(appErrors.ErrInvalidArgument, fmt.Sprintf("unsupported statement format %q", format))
	}

	body, err := renderer.Render(buildStatementDataset(student, payments))
	if err != nil {
		s.logger.Error("render statement failed", zap.String("student", student), zap.String("format", string(format)), zap.Error(err))
		return nil, appErrors.Internal(err, "failed to render statement")
	}
	return &Statement{
		Filename:    fmt.Sprintf("payments_%s_%s.%s", sanitizeFilename(student), s.now().UTC().Format("20060102"), renderer.Extension()),
		ContentType: renderer.ContentType(),
		Body:        body,
	}, nil
}

func buildStatementDataset(student string, payments []models.Payment) export.Dataset {
	rows := make([]map[string]string, 0, len(payments))
	var settled int64
	for _, p := range payments {
		row := map[string]string{
			"ID":     strconv.FormatInt(p.ID, 10),
			"Type":   string(p.PaymentType),
			"Amount": strconv.FormatInt(p.Amount, 10),
			"Status": string(p.Status),
			"Date":   p.PaymentDate.UTC().Format(time.RFC3339),
		}
		if p.SettledAt != nil {
			row["Settled"] = p.SettledAt.UTC().Format(time.RFC3339)
		}
		if p.Status == models.PaymentStatusCompleted {
			settled += p.Amount
		}
		rows = append(rows, row)
	}
	return export.Dataset{
		Title:   fmt.Sprintf("Payment statement for %s", student),
		Headers: []string{"ID", "Type", "Amount", "Status", "Date", "Settled"},
		Rows:    rows,
		Summary: []string{
			fmt.Sprintf("Payments: %d", len(payments)),
			fmt.Sprintf("Total completed: %d", settled),
		},
	}
}

func sanitizeFilename(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "student"
	}
	return b.String()
}

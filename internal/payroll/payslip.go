package payroll

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/haingladys/jsdc-accounting/internal"
	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

// Payslip renders a one-page PDF for the payroll entry and returns it with a
// download file name.
func (s *Service) Payslip(ctx context.Context, id string) ([]byte, string, error) {
	e, err := s.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}

	data, err := renderPayslip(s.company, e)
	if err != nil {
		s.logger.Error("failed to render payslip", "error", err, "payroll_id", id)
		return nil, "", internal.NewInternalError("failed to render payslip", err)
	}

	name := strings.ToLower(strings.Join(strings.Fields(e.Name), "-"))
	filename := fmt.Sprintf("payslip-%s-%04d-%02d.pdf", name, e.Year, e.Month)
	return data, filename, nil
}

func renderPayslip(company Company, e *Employee) ([]byte, error) {
	money := func(d decimal.Decimal) string {
		if company.Currency == "" {
			return d.StringFixed(2)
		}
		return d.StringFixed(2) + " " + company.Currency
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	if company.Name != "" {
		pdf.Cell(0, 10, company.Name)
		pdf.Ln(10)
	}
	pdf.Cell(40, 10, "Payslip")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s", e.Name))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s %d", time.Month(e.Month).String(), e.Year))
	pdf.Ln(7)
	if e.SalaryDate != "" {
		pdf.Cell(0, 8, fmt.Sprintf("Salary date: %s", e.SalaryDate))
		pdf.Ln(7)
	}
	pdf.Ln(3)

	lines := []struct {
		label string
		value decimal.Decimal
	}{
		{"Basic salary", e.BasicSalary},
		{"SPR", e.SPRAmount},
		{"Advances", e.Advances.Neg()},
	}
	for _, l := range lines {
		pdf.CellFormat(80, 8, l.label, "1", 0, "L", false, 0, "")
		pdf.CellFormat(60, 8, money(l.value), "1", 1, "R", false, 0, "")
	}
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(80, 8, "Net salary", "1", 0, "L", false, 0, "")
	pdf.CellFormat(60, 8, money(e.NetSalary), "1", 1, "R", false, 0, "")

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 8, fmt.Sprintf("Status: %s", e.Status))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

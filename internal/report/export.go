package report

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/haingladys/jsdc-accounting/internal"
	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	ContentTypeExcel = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypePDF   = "application/pdf"
)

// Export is a rendered report ready to be sent as a download.
type Export struct {
	Data        []byte
	ContentType string
	Filename    string
}

func (s *Service) Export(ctx context.Context, q Query, format string) (*Export, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = FormatExcel
	}
	if format != FormatExcel && format != FormatPDF {
		return nil, internal.NewValidationFieldError("format", "format must be excel or pdf", internal.ErrCodeValidationFailed)
	}

	r, err := s.Generate(ctx, q)
	if err != nil {
		return nil, err
	}

	tables := tablesOf(r)
	var out *Export
	if format == FormatPDF {
		data, err := renderPDF(r, tables)
		if err != nil {
			return nil, internal.NewInternalError("failed to render PDF report", err)
		}
		out = &Export{Data: data, ContentType: ContentTypePDF, Filename: r.Filename("pdf")}
	} else {
		data, err := renderExcel(tables)
		if err != nil {
			return nil, internal.NewInternalError("failed to render Excel report", err)
		}
		out = &Export{Data: data, ContentType: ContentTypeExcel, Filename: r.Filename("xlsx")}
	}

	s.logger.Info("report exported", "format", format, "filename", out.Filename, "bytes", len(out.Data))
	return out, nil
}

// table is one report section flattened for the renderers.
type table struct {
	Title  string
	Header []string
	Rows   [][]interface{}
}

func money(d decimal.Decimal) interface{} {
	return d.Round(2)
}

func tablesOf(r *Report) []table {
	var tables []table
	d := r.Data

	if d.Summary != nil {
		s := d.Summary
		t := table{
			Title:  "Summary",
			Header: []string{"Item", "Count", "Amount", "GST"},
			Rows: [][]interface{}{
				{"Period", r.StartDate + " to " + r.EndDate, "", ""},
				{"Income", s.Income.Count, money(s.Income.Total), money(s.Income.GST)},
				{"Expenses", s.Expense.Count, money(s.Expense.Total), money(s.Expense.GST)},
				{"Purchases", s.Purchase.Count, money(s.Purchase.Total), money(s.Purchase.GST)},
				{"Payroll (net)", "", money(s.PayrollNet), ""},
				{"Profit", "", money(s.Profit), ""},
			},
		}
		tables = append(tables, t)

		breakdown := table{Title: "By Category", Header: []string{"Type", "Category", "Count", "Total"}}
		for _, group := range []struct {
			name string
			rows []CategoryTotal
		}{
			{"Income", s.IncomeBySource},
			{"Expense", s.ExpenseByCategory},
			{"Purchase", s.PurchaseByCategory},
		} {
			for _, c := range group.rows {
				breakdown.Rows = append(breakdown.Rows, []interface{}{group.name, c.Category, c.Count, money(c.Total)})
			}
		}
		tables = append(tables, breakdown)
	}

	if d.Income != nil {
		t := table{Title: "Income", Header: []string{"Date", "Source", "Description", "Amount", "Payment Mode", "Status"}}
		for _, i := range d.Income.Rows {
			t.Rows = append(t.Rows, []interface{}{i.Date, i.Source, i.Description, money(i.Amount), i.PaymentMode, i.Status})
		}
		t.Rows = append(t.Rows, []interface{}{"Total", "", "", money(d.Income.Totals.Total), "", ""})
		tables = append(tables, t)
	}

	if d.Expense != nil {
		t := table{Title: "Expenses", Header: []string{"Date", "Category", "Description", "Vendor", "Total", "GST", "Status"}}
		for _, e := range d.Expense.Rows {
			t.Rows = append(t.Rows, []interface{}{e.Date, e.Category, e.Description, e.Vendor, money(e.TotalAmount), money(e.GSTAmount), e.Status})
		}
		t.Rows = append(t.Rows, []interface{}{"Total", "", "", "", money(d.Expense.Totals.Total), money(d.Expense.Totals.GST), ""})
		tables = append(tables, t)
	}

	if d.Purchase != nil {
		t := table{Title: "Purchases", Header: []string{"Date", "Category", "Vendor", "Quantity", "Unit Price", "GST", "Total", "Status"}}
		for _, p := range d.Purchase.Rows {
			t.Rows = append(t.Rows, []interface{}{p.Date, p.Category, p.Vendor, p.Quantity, money(p.UnitPrice), money(p.GSTAmount), money(p.TotalAmount), p.Status})
		}
		t.Rows = append(t.Rows, []interface{}{"Total", "", "", "", "", money(d.Purchase.Totals.GST), money(d.Purchase.Totals.Total), ""})
		tables = append(tables, t)
	}

	if d.Payroll != nil {
		t := table{Title: "Payroll", Header: []string{"Name", "Month", "Basic", "SPR", "Advances", "Net", "Status"}}
		for _, e := range d.Payroll.Rows {
			t.Rows = append(t.Rows, []interface{}{e.Name, fmt.Sprintf("%04d-%02d", e.Year, e.Month), money(e.BasicSalary), money(e.SPRAmount), money(e.Advances), money(e.NetSalary), e.Status})
		}
		sum := d.Payroll.Summary
		t.Rows = append(t.Rows, []interface{}{"Total", "", money(sum.TotalBasic), money(sum.TotalSPR), money(sum.TotalAdvances), money(sum.TotalNet), ""})
		tables = append(tables, t)
	}

	if d.Attendance != nil {
		t := table{Title: "Attendance", Header: []string{"Employee", "Present", "Half Days", "Absent", "Working Days", "Percentage"}}
		for _, a := range d.Attendance {
			pct := "-"
			if a.Percentage.Defined {
				pct = a.Percentage.Value.StringFixed(2) + "%"
			}
			t.Rows = append(t.Rows, []interface{}{a.Name, a.Present, a.HalfDays, a.Absent, a.WorkingDays, pct})
		}
		tables = append(tables, t)
	}
	return tables
}

func renderExcel(tables []table) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	for i, t := range tables {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", t.Title); err != nil {
				return nil, err
			}
		} else if _, err := f.NewSheet(t.Title); err != nil {
			return nil, err
		}

		headerRow := make([]interface{}, len(t.Header))
		for j, h := range t.Header {
			headerRow[j] = h
		}
		if err := f.SetSheetRow(t.Title, "A1", &headerRow); err != nil {
			return nil, err
		}
		if err := f.SetRowStyle(t.Title, 1, 1, header); err != nil {
			return nil, err
		}

		for r, row := range t.Rows {
			cells := make([]interface{}, len(row))
			for j, v := range row {
				cells[j] = excelValue(v)
			}
			cell, err := excelize.CoordinatesToCellName(1, r+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetSheetRow(t.Title, cell, &cells); err != nil {
				return nil, err
			}
		}
		if err := f.SetColWidth(t.Title, "A", "H", 16); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func excelValue(v interface{}) interface{} {
	if d, ok := v.(decimal.Decimal); ok {
		return d.InexactFloat64()
	}
	return v
}

func cellText(v interface{}) string {
	switch x := v.(type) {
	case decimal.Decimal:
		return x.StringFixed(2)
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}

func renderPDF(r *Report, tables []table) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 12)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	title := "Report"
	if r.Company != "" {
		title = r.Company + " - Report"
	}
	pdf.Cell(0, 10, tr(title))
	pdf.Ln(9)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Type: %s   Period: %s to %s   Generated: %s",
		r.Type, r.StartDate, r.EndDate, r.GeneratedAt.Format("2006-01-02 15:04")))
	pdf.Ln(10)

	pageWidth, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	usable := pageWidth - left - right

	for _, t := range tables {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 8, t.Title)
		pdf.Ln(8)

		width := usable / float64(len(t.Header))
		pdf.SetFont("Helvetica", "B", 9)
		for _, h := range t.Header {
			pdf.CellFormat(width, 7, h, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont("Helvetica", "", 9)
		for _, row := range t.Rows {
			for _, v := range row {
				align := "L"
				if _, ok := v.(decimal.Decimal); ok {
					align = "R"
				}
				pdf.CellFormat(width, 6, tr(truncate(cellText(v), 32)), "1", 0, align, false, 0, "")
			}
			pdf.Ln(-1)
		}
		pdf.Ln(4)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}

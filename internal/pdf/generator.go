package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/nurpe/workhub-contracts/internal/model"
)

type Generator struct {
	fontName string
}

func NewGenerator() *Generator {
	return &Generator{fontName: "Helvetica"}
}

// Generate renders a contract statement: project header, milestone schedule
// and payment summary.
func (g *Generator) Generate(statement model.ContractStatement) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pdf.SetFont(g.fontName, "B", 14)
	pdf.CellFormat(0, 10, "Contract Statement", "", 1, "C", false, 0, "")

	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Project: %s", statement.Project.Title), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Contract %s, deadline %s", statement.Contract.ID, formatDate(statement.Contract.Deadline)), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 8, "Parties", "", 1, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 10)
	pdf.CellFormat(0, 5, fmt.Sprintf("Company: %s", statement.Contract.CompanyID), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, fmt.Sprintf("Freelancer: %s", statement.Contract.FreelancerID), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 8, "Milestone schedule", "", 1, "L", false, 0, "")

	headers := []string{"Milestone", "Due", "Amount", "Status", "Paid at"}
	colWidths := []float64{70, 28, 28, 28, 28}
	drawTableRow(pdf, g.fontName, headers, colWidths, true)

	for _, m := range statement.Milestones {
		row := []string{
			m.Title,
			formatDate(m.DueDate),
			formatAmount(m.Amount),
			string(m.Status),
			formatStamp(m.PaidAt),
		}
		drawTableRow(pdf, g.fontName, row, colWidths, false)
	}

	pdf.Ln(2)
	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Total amount: %s", formatAmount(statement.Contract.TotalAmount)), "", 1, "R", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Paid: %s", formatAmount(statement.Progress.PaidValue)), "", 1, "R", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Outstanding: %s", formatAmount(statement.Progress.PendingValue)), "", 1, "R", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Progress: %d%% (%d of %d milestones)",
		statement.Progress.ProgressPercent,
		statement.Progress.CompletedCount,
		statement.Progress.TotalMilestones,
	), "", 1, "R", false, 0, "")

	if statement.Progress.AllPaid {
		pdf.SetFont(g.fontName, "B", 11)
		pdf.CellFormat(0, 8, "All milestones are paid in full.", "", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func drawTableRow(pdf *gofpdf.Fpdf, fontName string, cols []string, widths []float64, header bool) {
	style := ""
	if header {
		style = "B"
	}
	pdf.SetFont(fontName, style, 10)
	for i, col := range cols {
		align := "L"
		if i == 2 {
			align = "R"
		}
		pdf.CellFormat(widths[i], 8, col, "1", 0, align, false, 0, "")
	}
	pdf.Ln(-1)
}

func formatAmount(value float64) string {
	return fmt.Sprintf("%.2f", value)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("02.01.2006")
}

func formatStamp(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("02.01.2006")
}

package excel

import (
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/nurpe/workhub-contracts/internal/model"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Generate builds a contract statement workbook: a summary sheet and a
// milestone schedule sheet.
func (g *Generator) Generate(statement model.ContractStatement) ([]byte, error) {
	file := excelize.NewFile()

	summarySheet := "Summary"
	file.SetSheetName("Sheet1", summarySheet)
	if err := g.writeSummary(file, summarySheet, statement); err != nil {
		return nil, err
	}

	scheduleSheet := "Milestones"
	file.NewSheet(scheduleSheet)
	if err := g.writeSchedule(file, scheduleSheet, statement); err != nil {
		return nil, err
	}

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) writeSummary(file *excelize.File, sheet string, statement model.ContractStatement) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("A1", "Project")
	set("B1", statement.Project.Title)
	set("A2", "Contract")
	set("B2", statement.Contract.ID.String())
	set("A3", "Deadline")
	set("B3", formatDate(statement.Contract.Deadline))
	set("A4", "Total amount")
	set("B4", statement.Contract.TotalAmount)
	set("A5", "Paid")
	set("B5", statement.Progress.PaidValue)
	set("A6", "Outstanding")
	set("B6", statement.Progress.PendingValue)
	set("A7", "Progress")
	set("B7", fmt.Sprintf("%d%%", statement.Progress.ProgressPercent))
	set("A8", "Status")
	set("B8", string(statement.Contract.Status))

	_ = file.SetColWidth(sheet, "A", "A", 20)
	_ = file.SetColWidth(sheet, "B", "B", 40)
	return nil
}

func (g *Generator) writeSchedule(file *excelize.File, sheet string, statement model.ContractStatement) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	headers := []string{
		"Milestone",
		"Description",
		"Amount",
		"Due date",
		"Status",
		"Deliverables",
		"Completed at",
		"Approved at",
		"Paid at",
	}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		set(cell, header)
	}

	for i, m := range statement.Milestones {
		row := 2 + i
		set(fmt.Sprintf("A%d", row), m.Title)
		set(fmt.Sprintf("B%d", row), m.Description)
		set(fmt.Sprintf("C%d", row), m.Amount)
		set(fmt.Sprintf("D%d", row), formatDate(m.DueDate))
		set(fmt.Sprintf("E%d", row), string(m.Status))
		set(fmt.Sprintf("F%d", row), strings.Join(m.Deliverables, "; "))
		set(fmt.Sprintf("G%d", row), formatStamp(m.CompletedAt))
		set(fmt.Sprintf("H%d", row), formatStamp(m.ApprovedAt))
		set(fmt.Sprintf("I%d", row), formatStamp(m.PaidAt))
	}

	_ = file.SetColWidth(sheet, "A", "A", 28)
	_ = file.SetColWidth(sheet, "B", "B", 40)
	_ = file.SetColWidth(sheet, "C", "E", 14)
	_ = file.SetColWidth(sheet, "F", "F", 48)
	_ = file.SetColWidth(sheet, "G", "I", 16)
	return nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func formatStamp(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02 15:04")
}

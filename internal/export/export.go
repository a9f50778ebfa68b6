// Package export writes the audit trail to XLSX workbooks.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"roombook/internal/models"

	"github.com/xuri/excelize/v2"
)

const (
	auditSheet = "Audit"
	dateLayout = "2006-01-02"
	timeLayout = "2006-01-02 15:04:05"
)

var auditHeaders = []string{"At (UTC)", "Actor", "Action", "Entity type", "Entity ID", "Event ID"}

// AuditFileName is the default workbook name for the [from, to) period.
func AuditFileName(from, to time.Time) string {
	return fmt.Sprintf("audit_%s_to_%s.xlsx", from.UTC().Format(dateLayout), to.UTC().Format(dateLayout))
}

// WriteAuditWorkbook saves events to path, creating parent directories.
func WriteAuditWorkbook(path string, from, to time.Time, events []*models.AuditEvent) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("error creating export directory: %w", err)
		}
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(auditSheet)
	if err != nil {
		return fmt.Errorf("error creating sheet: %w", err)
	}
	f.SetActiveSheet(index)

	_ = f.SetCellValue(auditSheet, "A1", fmt.Sprintf("Period: %s - %s",
		from.UTC().Format(dateLayout), to.UTC().Format(dateLayout)))
	lastCol, _ := excelize.ColumnNumberToName(len(auditHeaders))
	_ = f.MergeCell(auditSheet, "A1", lastCol+"1")

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	_ = f.SetCellStyle(auditSheet, "A1", "A1", titleStyle)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	for i, header := range auditHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		_ = f.SetCellValue(auditSheet, cell, header)
		_ = f.SetCellStyle(auditSheet, cell, cell, headerStyle)
	}

	cancelStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#FFC7CE"}, Pattern: 1},
	})
	for i, e := range events {
		row := i + 3
		values := []interface{}{e.At.UTC().Format(timeLayout), e.ActorEmail, e.Action, e.EntityType, e.EntityID, e.ID}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(auditSheet, cell, v)
		}
		if e.Action == models.ActionCancel {
			cell, _ := excelize.CoordinatesToCellName(3, row)
			_ = f.SetCellStyle(auditSheet, cell, cell, cancelStyle)
		}
	}

	_ = f.SetColWidth(auditSheet, "A", "A", 22)
	_ = f.SetColWidth(auditSheet, "B", "B", 28)
	_ = f.SetColWidth(auditSheet, "C", "D", 12)
	_ = f.SetColWidth(auditSheet, "E", "F", 40)

	_ = f.DeleteSheet("Sheet1")

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("error saving file: %w", err)
	}
	return nil
}

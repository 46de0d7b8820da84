package services

import (
	"fmt"
	"io"
	"strings"
	"time"

	"cms-console/pkg/models"

	"github.com/xuri/excelize/v2"
)

const (
	questionsSheet  = "Questions"
	exportTimestamp = "Jan 2, 2006 3:04 PM"
)

var questionColumns = []struct {
	title string
	width float64
}{
	{"No", 5},
	{"Question", 50},
	{"Response Count", 15},
	{"Status", 10},
	{"Created Date", 20},
	{"Updated Date", 20},
	{"Answers", 50},
}

// QuestionsExportFilename names the workbook after the export time.
func QuestionsExportFilename(now time.Time) string {
	return fmt.Sprintf("Questions_Export_%s.xlsx", now.Format("2006-01-02_15-04-05"))
}

// WriteQuestionsWorkbook writes questions as an xlsx workbook to w.
func WriteQuestionsWorkbook(w io.Writer, questions []models.Question) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", questionsSheet); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}

	header := make([]interface{}, len(questionColumns))
	for i, col := range questionColumns {
		header[i] = col.title
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(questionsSheet, name, name, col.width); err != nil {
			return fmt.Errorf("set column width: %w", err)
		}
	}
	if err := f.SetSheetRow(questionsSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, q := range questions {
		row := questionRow(i+1, q)
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(questionsSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func questionRow(n int, q models.Question) []interface{} {
	status := "Inactive"
	if q.Active() {
		status = "Active"
	}
	answers := "No answers"
	if len(q.Answers) > 0 {
		texts := make([]string, len(q.Answers))
		for i, a := range q.Answers {
			texts[i] = a.Answer
		}
		answers = strings.Join(texts, " | ")
	}
	return []interface{}{
		n,
		q.Question,
		len(q.Answers),
		status,
		q.CreatedAt.Format(exportTimestamp),
		q.UpdatedAt.Format(exportTimestamp),
		answers,
	}
}

package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/codeGROOVE-dev/estcalc/internal/session"
)

// Sheet names used by XLSX.
const (
	SheetItems   = "Items"
	SheetSummary = "Summary"
)

type sheet struct {
	headers []string
	rows    [][]any
}

// XLSX writes r as a workbook with an Items sheet and a Summary sheet.
func XLSX(w io.Writer, r session.Report) error {
	items, summary, err := sheets(r)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck // in-memory workbook

	itemsIndex, err := f.NewSheet(SheetItems)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetSummary); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	if err := fill(f, SheetItems, items); err != nil {
		return err
	}
	if err := fill(f, SheetSummary, summary); err != nil {
		return err
	}
	f.SetActiveSheet(itemsIndex)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("delete default sheet: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func fill(f *excelize.File, name string, s sheet) error {
	for col, header := range s.headers {
		if err := f.SetCellValue(name, cellName(col, 1), header); err != nil {
			return fmt.Errorf("set header: %w", err)
		}
	}
	for i, row := range s.rows {
		for col, value := range row {
			if err := f.SetCellValue(name, cellName(col, i+2), value); err != nil {
				return fmt.Errorf("set cell: %w", err)
			}
		}
	}
	return nil
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col+1, row)
	return name
}

func sheets(r session.Report) (items, summary sheet, err error) {
	summary.headers = []string{"Metric", "Value"}
	switch rep := r.(type) {
	case session.CoDReport:
		items.headers = []string{"Rank", "Feature", "Effort", "User", "Time", "Risk", "CoD", "WSJF"}
		for i, it := range rep.Items {
			items.rows = append(items.rows, []any{i + 1, it.Title, it.Effort, it.User, it.Time, it.Risk, it.CoD, it.WSJF})
		}
		summary.rows = [][]any{{"Features", len(rep.Items)}}
	case session.FPAReport:
		items.headers = []string{"Function", "Type", "DET", "RET", "FTR", "Complexity", "UFP"}
		for _, it := range rep.Items {
			items.rows = append(items.rows, []any{it.Name, it.Type.String(), it.DET, it.RET, it.FTR, it.Complexity.String(), it.UFP})
		}
		summary.rows = [][]any{
			{"UFP", rep.Result.UFP},
			{"VAF", rep.Result.VAF},
			{"FP", rep.Result.FP},
		}
		if rep.Effort != nil {
			summary.rows = append(summary.rows, []any{"LOC", rep.Effort.LOC}, []any{"Effort Hours", rep.Effort.Hours})
			if rep.Effort.Cost != nil {
				summary.rows = append(summary.rows, []any{"Cost", rep.Effort.Cost.TotalCost})
			}
		}
	case session.PERTReport:
		items.headers = []string{"Task", "O", "M", "P", "Effort", "Error"}
		for _, it := range rep.Items {
			items.rows = append(items.rows, []any{it.Name, it.Optimistic, it.MostLikely, it.Pessimistic, it.Effort, it.Error})
		}
		summary.rows = [][]any{
			{"Effort", rep.Result.Effort},
			{"Error", rep.Result.Error},
			{"E95", rep.Result.E95},
			{"Confidence", rep.Grade},
		}
		if rep.Cost != nil {
			summary.rows = append(summary.rows,
				[]any{"Expected Cost", rep.Cost.Expected.TotalCost},
				[]any{"E95 Cost", rep.Cost.E95.TotalCost})
		}
	default:
		return items, summary, fmt.Errorf("unsupported report type %T", r)
	}
	return items, summary, nil
}

package export

import (
	"bytes"
	"fmt"

	"github.com/UMEZAWADAN/SD-5/internal/domain"

	"github.com/xuri/excelize/v2"
)

const (
	visitsSheet     = "訪問記録"
	assessmentSheet = "DASC-21"
)

// VisitsXLSX 访问记录 Excel，列与 CSV 相同；Excel 单元格天然处理逗号
func VisitsXLSX(visits []domain.VisitEntry) (Artifact, error) {
	rows := make([][]any, 0, len(visits))
	for _, v := range visits {
		rows = append(rows, []any{v.Date, v.Staff, v.Type, v.Note})
	}
	body, err := buildWorkbook(visitsSheet, toAny(VisitsCSVHeader), rows, []float64{14, 16, 12, 60})
	if err != nil {
		return Artifact{}, err
	}
	return Artifact{Filename: VisitsXLSXFilename, MIMEType: MIMEXLSX, Body: body}, nil
}

// AssessmentXLSX 每项一行（番号/質問/得点），末尾追加合计与分级
func AssessmentXLSX(labels []string, scores []int, result domain.AssessmentResult) (Artifact, error) {
	rows := make([][]any, 0, len(scores)+2)
	for i, s := range scores {
		label := ""
		if i < len(labels) {
			label = labels[i]
		}
		rows = append(rows, []any{i + 1, label, s})
	}
	rows = append(rows, []any{"total", "", result.Total})
	rows = append(rows, []any{"tier", result.Tier.Label(), string(result.Tier)})

	body, err := buildWorkbook(assessmentSheet, []any{"No", "質問", "得点"}, rows, []float64{8, 70, 10})
	if err != nil {
		return Artifact{}, err
	}
	return Artifact{Filename: AssessmentXLSXFilename, MIMEType: MIMEXLSX, Body: body}, nil
}

func buildWorkbook(sheet string, header []any, rows [][]any, widths []float64) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to delete default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return nil, fmt.Errorf("failed to convert coordinates: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return nil, fmt.Errorf("failed to set header style: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("failed to convert coordinates: %w", err)
		}
		row := row
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	for i, w := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, fmt.Errorf("failed to convert column number: %w", err)
		}
		if err := f.SetColWidth(sheet, col, col, w); err != nil {
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write excel: %w", err)
	}
	return buf.Bytes(), nil
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

// Package export 访问记录与 DASC-21 评估的 CSV / Excel 导出
package export

import (
	"strconv"
	"strings"

	"github.com/UMEZAWADAN/SD-5/internal/domain"
)

const (
	MIMECSV  = "text/csv"
	MIMEXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	VisitsCSVFilename      = "visit_records.csv"
	AssessmentCSVFilename  = "dasc21.csv"
	VisitsXLSXFilename     = "visit_records.xlsx"
	AssessmentXLSXFilename = "dasc21.xlsx"
)

// VisitsCSVHeader 列顺序固定
var VisitsCSVHeader = []string{"date", "staff", "type", "note"}

// VisitsCSV 表头 + 每条记录一行，按列表顺序，行间 "\n"，末尾不加换行
// 字段不做引号转义：含逗号的备注会错列（已知限制）
func VisitsCSV(visits []domain.VisitEntry) string {
	lines := make([]string, 0, len(visits)+1)
	lines = append(lines, strings.Join(VisitsCSVHeader, ","))
	for _, v := range visits {
		lines = append(lines, strings.Join([]string{v.Date, v.Staff, v.Type, v.Note}, ","))
	}
	return strings.Join(lines, "\n")
}

// AssessmentCSV 两行：total,<sum>,tier,<tier> 与 21 项原始得分
func AssessmentCSV(scores []int, result domain.AssessmentResult) string {
	values := make([]string, len(scores))
	for i, s := range scores {
		values[i] = strconv.Itoa(s)
	}
	summary := "total," + strconv.Itoa(result.Total) + ",tier," + string(result.Tier)
	return summary + "\n" + strings.Join(values, ",")
}

// VisitsCSVArtifact 生成 visit_records.csv
func VisitsCSVArtifact(visits []domain.VisitEntry) Artifact {
	return Artifact{Filename: VisitsCSVFilename, MIMEType: MIMECSV, Body: []byte(VisitsCSV(visits))}
}

// AssessmentCSVArtifact 生成 dasc21.csv
func AssessmentCSVArtifact(scores []int, result domain.AssessmentResult) Artifact {
	return Artifact{Filename: AssessmentCSVFilename, MIMEType: MIMECSV, Body: []byte(AssessmentCSV(scores, result))}
}

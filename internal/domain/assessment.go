package domain

// AssessmentItemCount DASC-21 固定 21 项
const AssessmentItemCount = 21

// MaxItemScore 每项 0..3
const MaxItemScore = 3

// Tier 严重程度分级
type Tier string

const (
	TierMild     Tier = "mild"
	TierModerate Tier = "moderate"
	TierSevere   Tier = "severe"
)

// Label 画面显示用
func (t Tier) Label() string {
	switch t {
	case TierSevere:
		return "重度"
	case TierModerate:
		return "中等度"
	default:
		return "軽度"
	}
}

// AssessmentItem 单个评估项
type AssessmentItem struct {
	Index int `json:"index"` // 1..21
	Score int `json:"score"` // 0..3
}

// AssessmentResult 由各项得分推导，不保存
type AssessmentResult struct {
	Total int  `json:"total"`
	Tier  Tier `json:"tier"`
}

// AssessmentForms 五个自由文本区域
type AssessmentForms struct {
	Kihon   string `json:"kihon"`
	Kiroku  string `json:"kiroku"`
	Shintai string `json:"shintai"`
	Dasc21  string `json:"dasc21"`
	Dbd13   string `json:"dbd13"`
}

// FormNames 固定的表单名，顺序即页面顺序
var FormNames = []string{"kihon", "kiroku", "shintai", "dasc21", "dbd13"}

// Set 按名称写入文本，未知名称返回 false
func (f *AssessmentForms) Set(name, text string) bool {
	switch name {
	case "kihon":
		f.Kihon = text
	case "kiroku":
		f.Kiroku = text
	case "shintai":
		f.Shintai = text
	case "dasc21":
		f.Dasc21 = text
	case "dbd13":
		f.Dbd13 = text
	default:
		return false
	}
	return true
}

// Get 按名称读取文本
func (f AssessmentForms) Get(name string) string {
	switch name {
	case "kihon":
		return f.Kihon
	case "kiroku":
		return f.Kiroku
	case "shintai":
		return f.Shintai
	case "dasc21":
		return f.Dasc21
	case "dbd13":
		return f.Dbd13
	}
	return ""
}

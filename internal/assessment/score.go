package assessment

import (
	"strconv"
	"strings"

	"github.com/UMEZAWADAN/SD-5/internal/domain"
)

const (
	moderateThreshold = 30
	severeThreshold   = 50
)

// ParseScore 解析单项得分；空值、非数字、越界一律为 0（不报错）
func ParseScore(raw string) int {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return clamp(v)
}

// TierFor 下界包含：30 属于 moderate，50 属于 severe
func TierFor(total int) domain.Tier {
	switch {
	case total >= severeThreshold:
		return domain.TierSevere
	case total >= moderateThreshold:
		return domain.TierModerate
	default:
		return domain.TierMild
	}
}

// Aggregate 合计并分级
func Aggregate(scores []int) domain.AssessmentResult {
	total := 0
	for _, s := range scores {
		total += clamp(s)
	}
	return domain.AssessmentResult{Total: total, Tier: TierFor(total)}
}

// AggregateRaw 直接对表单原始值合计
func AggregateRaw(raw []string) domain.AssessmentResult {
	scores := make([]int, len(raw))
	for i, r := range raw {
		scores[i] = ParseScore(r)
	}
	return Aggregate(scores)
}

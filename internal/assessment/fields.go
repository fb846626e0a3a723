// Package assessment DASC-21 评估：得分字段生成、合计与分级
package assessment

import (
	"fmt"

	"github.com/UMEZAWADAN/SD-5/internal/domain"
)

// ItemLabels DASC-21 各项问题，下标 0 对应第 1 项
var ItemLabels = [domain.AssessmentItemCount]string{
	"財布や鍵など、物を置いた場所がわからなくなることがありますか",
	"5分前に聞いた話を思い出せないことがありますか",
	"自分の生年月日がわからなくなることがありますか",
	"今日が何月何日かわからないときがありますか",
	"自分のいる場所がどこだかわからなくなることはありますか",
	"道に迷って家に帰ってこられなくなることはありますか",
	"電気やガスや水道が止まってしまったときに、自分で適切に対処できますか",
	"一日の計画を自分で立てることができますか",
	"季節や状況に合った服を自分で選ぶことができますか",
	"一人で買い物はできますか",
	"バスや電車、自家用車などを使って一人で外出できますか",
	"貯金の出し入れや、家賃や公共料金の支払いは一人でできますか",
	"電話をかけることができますか",
	"自分で食事の準備はできますか",
	"自分で、薬を決まった時間に決まった分量を飲むことはできますか",
	"入浴は一人でできますか",
	"着替えは一人でできますか",
	"トイレは一人でできますか",
	"身だしなみを整えることは一人でできますか",
	"食事は一人でできますか",
	"家のなかでの移動は一人でできますか",
}

// ScoreOption 单个可选分值
type ScoreOption struct {
	Value    int
	Selected bool
}

// ScoreField 一个评估项的选择控件
type ScoreField struct {
	Index   int    // 1..21
	Name    string // 表单字段名 q1..q21
	Label   string
	Options []ScoreOption
}

// Fields 按当前得分生成 21 个选择控件，缺失的得分按 0 处理
func Fields(scores []int) []ScoreField {
	fields := make([]ScoreField, domain.AssessmentItemCount)
	for i := range fields {
		selected := 0
		if i < len(scores) {
			selected = clamp(scores[i])
		}
		opts := make([]ScoreOption, domain.MaxItemScore+1)
		for v := range opts {
			opts[v] = ScoreOption{Value: v, Selected: v == selected}
		}
		fields[i] = ScoreField{
			Index:   i + 1,
			Name:    FieldName(i + 1),
			Label:   ItemLabels[i],
			Options: opts,
		}
	}
	return fields
}

// FieldName 第 index 项的字段名
func FieldName(index int) string {
	return fmt.Sprintf("q%d", index)
}

func clamp(v int) int {
	if v < 0 || v > domain.MaxItemScore {
		return 0
	}
	return v
}

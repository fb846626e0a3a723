package main

import (
	"fmt"

	"github.com/UMEZAWADAN/SD-5/internal/assessment"
	"github.com/UMEZAWADAN/SD-5/internal/domain"
	"github.com/UMEZAWADAN/SD-5/internal/export"

	"github.com/spf13/cobra"
)

// scoreCmd 离线计算 DASC-21：21 个 0〜3 的得分，输出与 dasc21.csv 相同的内容
func scoreCmd() *cobra.Command {
	var summary bool

	cmd := &cobra.Command{
		Use:   "score <q1> ... <q21>",
		Short: "Compute the DASC-21 total and tier",
		Args:  cobra.ExactArgs(domain.AssessmentItemCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			scores := make([]int, len(args))
			for i, raw := range args {
				scores[i] = assessment.ParseScore(raw)
			}
			result := assessment.Aggregate(scores)

			out := cmd.OutOrStdout()
			if summary {
				_, err := fmt.Fprintf(out, "%d %s (%s)\n", result.Total, result.Tier, result.Tier.Label())
				return err
			}
			_, err := fmt.Fprintln(out, export.AssessmentCSV(scores, result))
			return err
		},
	}
	cmd.Flags().BoolVar(&summary, "summary", false, "Print only total and tier")
	return cmd
}

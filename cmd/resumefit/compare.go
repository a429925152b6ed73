package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"resumefit/internal/analyses"
	"resumefit/internal/extract"
	"resumefit/internal/shared/telemetry"
)

func newCompareCmd() *cobra.Command {
	var (
		jobFile string
		jobText string
		format  string
	)
	cmd := &cobra.Command{
		Use:   "compare [flags] ORIGINAL REWRITTEN",
		Short: "Compare an original and a rewritten resume against the same job",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "text" && format != "json" {
				return fmt.Errorf("unknown format %q", format)
			}
			ctx := cmd.Context()
			ex := extract.Extractor{}
			jd, err := jobDescription(ctx, ex, jobFile, jobText)
			if err != nil {
				return err
			}
			original, err := readDocument(ctx, ex, args[0])
			if err != nil {
				return err
			}
			rewritten, err := readDocument(ctx, ex, args[1])
			if err != nil {
				return err
			}

			svc := &analyses.Service{}
			res, err := svc.Compare(ctx, original, rewritten, jd)
			if err != nil {
				return err
			}
			telemetry.Debug("compare.completed", map[string]any{
				"original":      args[0],
				"rewritten":     args[1],
				"score_change":  res.Improvement.Score,
				"newly_matched": len(res.NewlyMatched),
			})

			out := cmd.OutOrStdout()
			if format == "json" {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			fmt.Fprintf(out, "%-12s %8s %10s %8s\n", "", "original", "rewritten", "change")
			row := func(name string, before, after, delta float64) {
				fmt.Fprintf(out, "%-12s %8.1f %10.1f %+8.1f\n", name, before, after, delta)
			}
			row("score", res.Original.Score, res.Rewritten.Score, res.Improvement.Score)
			row("similarity", res.Original.SimilarityScore, res.Rewritten.SimilarityScore, res.Improvement.SimilarityScore)
			row("keywords", res.Original.KeywordMatchScore, res.Rewritten.KeywordMatchScore, res.Improvement.KeywordMatchScore)
			row("skills", res.Original.SkillsMatchScore, res.Rewritten.SkillsMatchScore, res.Improvement.SkillsMatchScore)
			if len(res.NewlyMatched) > 0 {
				fmt.Fprintf(out, "\nnewly matched: %s\n", strings.Join(res.NewlyMatched, ", "))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&jobFile, "job", "j", "", "Path to the job description (PDF, DOCX or TXT)")
	cmd.Flags().StringVar(&jobText, "job-text", "", "Job description text (overrides --job)")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text or json")
	return cmd
}

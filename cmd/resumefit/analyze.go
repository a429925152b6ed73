package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"runtime"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"resumefit/internal/analyzer"
	"resumefit/internal/bootstrap"
	"resumefit/internal/extract"
	"resumefit/internal/llm"
	"resumefit/internal/shared/config"
	"resumefit/internal/shared/telemetry"
)

type analyzeOptions struct {
	jobFile     string
	jobText     string
	format      string
	rank        bool
	enhance     bool
	concurrency int
	maxBytes    int64
}

type fileResult struct {
	File             string   `json:"file"`
	Error            string   `json:"error,omitempty"`
	AISuggestions    []string `json:"aiSuggestions,omitempty"`
	EnhancementError string   `json:"enhancementError,omitempty"`
	*analyzer.Result
}

func newAnalyzeCmd() *cobra.Command {
	opts := analyzeOptions{}
	cmd := &cobra.Command{
		Use:   "analyze [flags] RESUME...",
		Short: "Analyze one or more resumes against a job description",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, opts, args)
		},
	}
	cmd.Flags().StringVarP(&opts.jobFile, "job", "j", "", "Path to the job description (PDF, DOCX or TXT)")
	cmd.Flags().StringVar(&opts.jobText, "job-text", "", "Job description text (overrides --job)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "Output format: text or json")
	cmd.Flags().BoolVar(&opts.rank, "rank", false, "Order results by score, best first")
	cmd.Flags().BoolVar(&opts.enhance, "enhance", false, "Ask the configured LLM provider for tailored suggestions")
	cmd.Flags().IntVarP(&opts.concurrency, "concurrency", "c", runtime.GOMAXPROCS(0), "Resumes analyzed in parallel")
	cmd.Flags().Int64Var(&opts.maxBytes, "max-bytes", extract.DefaultMaxBytes, "Maximum resume file size")
	return cmd
}

func runAnalyze(cmd *cobra.Command, opts analyzeOptions, files []string) error {
	if opts.format != "text" && opts.format != "json" {
		return fmt.Errorf("unknown format %q", opts.format)
	}
	ctx := cmd.Context()
	ex := extract.Extractor{MaxBytes: opts.maxBytes}
	jd, err := jobDescription(ctx, ex, opts.jobFile, opts.jobText)
	if err != nil {
		return err
	}

	var client llm.Client
	if opts.enhance {
		client, err = bootstrap.BuildLLM(ctx, config.Load())
		if err != nil {
			return err
		}
	}

	results := make([]fileResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	if opts.concurrency > 0 {
		g.SetLimit(opts.concurrency)
	}
	for i, path := range files {
		g.Go(func() error {
			results[i] = analyzeFile(gctx, ex, client, path, jd)
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if opts.rank {
		sort.SliceStable(results, func(i, j int) bool {
			return score(results[i]) > score(results[j])
		})
	}

	out := cmd.OutOrStdout()
	if opts.format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return err
		}
	} else {
		writeText(out, results)
	}

	if n := countErrors(results); n > 0 {
		return fmt.Errorf("%d of %d resumes could not be analyzed", n, len(results))
	}
	return nil
}

func analyzeFile(ctx context.Context, ex extract.Extractor, client llm.Client, path, jd string) fileResult {
	res := fileResult{File: path}
	text, err := readDocument(ctx, ex, path)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	start := time.Now()
	ev := pipeline(path).Evaluate(text, jd)
	result := ev.Result
	res.Result = &result
	telemetry.Debug("analysis.completed", map[string]any{
		"file":                path,
		"score":               result.Score,
		"similarity_fallback": ev.SimilarityFallback,
		"duration_ms":         time.Since(start).Milliseconds(),
	})
	if client != nil {
		suggestions, err := client.TailoredSuggestions(ctx, llm.Input{ResumeText: text, JobDescription: jd, Result: result})
		if err != nil {
			res.EnhancementError = err.Error()
		} else {
			res.AISuggestions = suggestions
		}
	}
	return res
}

// pipeline returns an analyzer that logs degraded similarity paths for file.
func pipeline(file string) analyzer.Analyzer {
	return analyzer.Analyzer{OnFallback: func(reason string, err error) {
		fields := map[string]any{"file": file, "reason": reason}
		if err != nil {
			fields["err"] = err
		}
		telemetry.Debug("similarity.fallback", fields)
	}}
}

func score(r fileResult) float64 {
	if r.Result == nil {
		return -1
	}
	return r.Score
}

func countErrors(results []fileResult) int {
	n := 0
	for _, r := range results {
		if r.Error != "" {
			n++
		}
	}
	return n
}

func writeText(w io.Writer, results []fileResult) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tSCORE\tSIMILARITY\tKEYWORDS\tSKILLS")
	for _, r := range results {
		if r.Result == nil {
			fmt.Fprintf(tw, "%s\terror: %s\t\t\t\n", r.File, r.Error)
			continue
		}
		fmt.Fprintf(tw, "%s\t%.1f\t%.1f\t%.1f\t%.1f\n", r.File, r.Score, r.SimilarityScore, r.KeywordMatchScore, r.SkillsMatchScore)
	}
	_ = tw.Flush()

	for _, r := range results {
		if r.Result == nil {
			continue
		}
		fmt.Fprintf(w, "\n%s\n", r.File)
		if len(r.MissingKeywords) > 0 {
			fmt.Fprintf(w, "  missing: %s\n", strings.Join(r.MissingKeywords, ", "))
		}
		for _, s := range r.Suggestions {
			fmt.Fprintf(w, "  - %s\n", s)
		}
		for _, s := range r.AISuggestions {
			fmt.Fprintf(w, "  * %s\n", s)
		}
		if r.EnhancementError != "" {
			fmt.Fprintf(w, "  (AI suggestions unavailable: %s)\n", r.EnhancementError)
		}
	}
}

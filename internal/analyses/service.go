package analyses

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"resumefit/internal/analyzer"
	"resumefit/internal/extract"
	"resumefit/internal/llm"
	"resumefit/internal/matching"
	"resumefit/internal/shared/metrics"
	"resumefit/internal/shared/telemetry"
	"resumefit/internal/shared/util"
)

const (
	defaultHistoryLimit = 10
	maxHistoryLimit     = 100
)

// Service runs analyses and keeps the per-session history.
type Service struct {
	Repo         Repo
	LLM          llm.Client
	Extractor    extract.Extractor
	HistoryLimit int

	now   func() time.Time
	newID func() string
}

// AnalyzeRequest is one resume/job description pair to score.
type AnalyzeRequest struct {
	SessionID      string
	ResumeFilename string
	ResumeText     string
	JobDescription string
	Enhance        bool
}

// UploadRequest carries a resume document to extract before analysis.
type UploadRequest struct {
	SessionID      string
	FileName       string
	ContentType    string
	File           io.Reader
	JobDescription string
	Enhance        bool
}

func (s *Service) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now().UTC()
}

func (s *Service) id() string {
	if s.newID != nil {
		return s.newID()
	}
	return uuid.NewString()
}

func (s *Service) analyzer() analyzer.Analyzer {
	return analyzer.Analyzer{OnFallback: func(reason string, err error) {
		fields := map[string]any{"reason": reason}
		if err != nil {
			fields["err"] = err
		}
		telemetry.Debug("similarity.fallback", fields)
		metrics.IncSimilarityFallback()
	}}
}

// Analyze scores the pair, records it best-effort and optionally asks the
// LLM for tailored suggestions. Only a missing job description is an error.
func (s *Service) Analyze(ctx context.Context, req AnalyzeRequest) (Outcome, error) {
	if strings.TrimSpace(req.JobDescription) == "" {
		return Outcome{}, fmt.Errorf("%w: jobDescription is required", ErrInvalidInput)
	}
	if req.ResumeFilename != "" {
		name, err := util.SanitizeFileName(req.ResumeFilename)
		if err != nil {
			return Outcome{}, fmt.Errorf("%w: filename is invalid", ErrInvalidInput)
		}
		req.ResumeFilename = name
	}

	start := time.Now()
	result := s.analyzer().Analyze(req.ResumeText, req.JobDescription)
	durationMs := float64(time.Since(start).Microseconds()) / 1000

	metrics.IncAnalysisCompleted()
	metrics.ObserveAnalysisDurationMs(durationMs)
	metrics.ObserveAnalysisScore(result.Score)

	out := Outcome{ID: s.id(), Result: result}
	telemetry.Info("analysis.completed", map[string]any{
		"analysis_id":      out.ID,
		"session_hash":     util.ShortHash(req.SessionID),
		"score":            result.Score,
		"similarity_score": result.SimilarityScore,
		"keyword_score":    result.KeywordMatchScore,
		"skills_score":     result.SkillsMatchScore,
		"matched_keywords": len(result.MatchingKeywords),
		"missing_keywords": len(result.MissingKeywords),
		"duration_ms":      durationMs,
		"resume_chars":     len(req.ResumeText),
		"job_chars":        len(req.JobDescription),
	})

	s.persist(ctx, newRecord(out.ID, req.SessionID, req.ResumeFilename, req.ResumeText, req.JobDescription, result, s.clock()))

	if req.Enhance {
		suggestions, err := s.enhance(ctx, req.ResumeText, req.JobDescription, result)
		if err != nil {
			out.EnhancementError = enhancementMessage(err)
		} else {
			out.AISuggestions = suggestions
		}
	}
	return out, nil
}

// Upload extracts text from the uploaded document and analyzes it.
func (s *Service) Upload(ctx context.Context, req UploadRequest) (Outcome, error) {
	if strings.TrimSpace(req.JobDescription) == "" {
		return Outcome{}, fmt.Errorf("%w: jobDescription is required", ErrInvalidInput)
	}
	if req.File == nil {
		return Outcome{}, fmt.Errorf("%w: file is required", ErrInvalidInput)
	}
	text, err := s.Extractor.FromReader(ctx, req.File, req.FileName, req.ContentType)
	if err != nil {
		return Outcome{}, err
	}
	return s.Analyze(ctx, AnalyzeRequest{
		SessionID:      req.SessionID,
		ResumeFilename: req.FileName,
		ResumeText:     text,
		JobDescription: req.JobDescription,
		Enhance:        req.Enhance,
	})
}

// Compare analyzes an original and a rewritten resume against the same job.
func (s *Service) Compare(ctx context.Context, original, rewritten, jobDescription string) (CompareResult, error) {
	if err := ctx.Err(); err != nil {
		return CompareResult{}, err
	}
	if strings.TrimSpace(jobDescription) == "" {
		return CompareResult{}, fmt.Errorf("%w: jobDescription is required", ErrInvalidInput)
	}
	a := s.analyzer()
	before := a.Analyze(original, jobDescription)
	after := a.Analyze(rewritten, jobDescription)
	return CompareResult{
		Original:  before,
		Rewritten: after,
		Improvement: Delta{
			Score:             round1(after.Score - before.Score),
			SimilarityScore:   round1(after.SimilarityScore - before.SimilarityScore),
			KeywordMatchScore: round1(after.KeywordMatchScore - before.KeywordMatchScore),
			SkillsMatchScore:  round1(after.SkillsMatchScore - before.SkillsMatchScore),
		},
		NewlyMatched: matching.Difference(after.MatchingKeywords, before.MatchingKeywords),
	}, nil
}

// Suggestions analyzes the pair without recording it and returns LLM
// suggestions alongside the core result.
func (s *Service) Suggestions(ctx context.Context, resumeText, jobDescription string) (Outcome, error) {
	if strings.TrimSpace(jobDescription) == "" {
		return Outcome{}, fmt.Errorf("%w: jobDescription is required", ErrInvalidInput)
	}
	result := s.analyzer().Analyze(resumeText, jobDescription)
	suggestions, err := s.enhance(ctx, resumeText, jobDescription, result)
	if err != nil {
		return Outcome{Result: result}, err
	}
	return Outcome{Result: result, AISuggestions: suggestions}, nil
}

// History lists the newest analyses of a session. limit <= 0 means the
// configured default.
func (s *Service) History(ctx context.Context, sessionID string, limit int) ([]Record, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, fmt.Errorf("%w: session id is required", ErrInvalidInput)
	}
	if limit <= 0 {
		limit = s.HistoryLimit
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	return s.Repo.ListBySession(ctx, sessionID, limit)
}

// Get returns one analysis of the session.
func (s *Service) Get(ctx context.Context, sessionID, id string) (Record, error) {
	if strings.TrimSpace(id) == "" {
		return Record{}, fmt.Errorf("%w: id is required", ErrInvalidInput)
	}
	return s.Repo.GetByID(ctx, sessionID, id)
}

// Stats returns aggregate statistics over all analyses.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	return s.Repo.Stats(ctx)
}

func (s *Service) persist(ctx context.Context, record Record) {
	if s.Repo == nil {
		return
	}
	if err := s.Repo.Save(ctx, record); err != nil {
		metrics.IncAnalysisPersistFailed()
		telemetry.Error("analysis.persist_failed", map[string]any{
			"analysis_id":  record.ID,
			"session_hash": util.ShortHash(record.SessionID),
			"err":          err,
		})
	}
}

func (s *Service) enhance(ctx context.Context, resumeText, jobDescription string, result analyzer.Result) ([]string, error) {
	client := s.LLM
	if client == nil {
		client = llm.PlaceholderClient{}
	}
	suggestions, err := client.TailoredSuggestions(ctx, llm.Input{
		ResumeText:     resumeText,
		JobDescription: jobDescription,
		Result:         result,
	})
	if err != nil {
		metrics.IncEnhancementFailed()
		telemetry.Error("enhancement.failed", map[string]any{"err": err})
		return nil, err
	}
	return suggestions, nil
}

func enhancementMessage(err error) string {
	switch {
	case errors.Is(err, llm.ErrNotConfigured):
		return "AI suggestions are not configured"
	case errors.Is(err, context.DeadlineExceeded):
		return "AI suggestions timed out"
	default:
		return "AI suggestions are temporarily unavailable"
	}
}

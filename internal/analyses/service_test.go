package analyses

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"resumefit/internal/analyzer"
	"resumefit/internal/extract"
	"resumefit/internal/llm"
	"resumefit/internal/shared/telemetry"
)

func observeLogs(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	prev := telemetry.SetLogger(zap.New(core))
	t.Cleanup(func() { telemetry.SetLogger(prev) })
	return logs
}

func TestAnalyzeRequiresJobDescription(t *testing.T) {
	svc := newTestService(NewMemoryRepo(), nil)
	_, err := svc.Analyze(context.Background(), AnalyzeRequest{SessionID: "s", ResumeText: testResume, JobDescription: "  "})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestAnalyzeMatchesCoreAndPersists(t *testing.T) {
	repo := NewMemoryRepo()
	svc := newTestService(repo, nil)

	out, err := svc.Analyze(context.Background(), AnalyzeRequest{
		SessionID:      "session-1",
		ResumeFilename: "cv.txt",
		ResumeText:     testResume,
		JobDescription: testJob,
	})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	want := analyzer.Analyze(testResume, testJob)
	if out.Score != want.Score || out.KeywordMatchScore != want.KeywordMatchScore {
		t.Fatalf("service result differs from core: %+v vs %+v", out.Result, want)
	}
	if out.ID != "analysis-1" {
		t.Fatalf("unexpected id %q", out.ID)
	}

	saved, err := repo.GetByID(context.Background(), "session-1", out.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if saved.ResumeFilename != "cv.txt" || saved.Score != out.Score {
		t.Fatalf("unexpected saved record: %+v", saved)
	}
	if out.AISuggestions != nil || out.EnhancementError != "" {
		t.Fatalf("enhancement should not run unless requested")
	}
}

func TestAnalyzePersistFailureDoesNotFail(t *testing.T) {
	logs := observeLogs(t)
	svc := newTestService(&failingRepo{MemoryRepo: NewMemoryRepo(), saveErr: errBoom}, nil)

	out, err := svc.Analyze(context.Background(), AnalyzeRequest{SessionID: "s", ResumeText: testResume, JobDescription: testJob})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if out.Score < 15 || out.Score > 95 {
		t.Fatalf("score out of range: %v", out.Score)
	}
	if logs.FilterMessage("analysis.persist_failed").Len() != 1 {
		t.Fatalf("expected persist_failed log, got %v", logs.All())
	}
	if logs.FilterMessage("analysis.completed").Len() != 1 {
		t.Fatalf("expected analysis.completed log")
	}
}

func TestAnalyzeEnhanceSuccess(t *testing.T) {
	client := &fakeLLM{suggestions: []string{"Mention AWS Lambda work"}}
	svc := newTestService(NewMemoryRepo(), client)

	out, err := svc.Analyze(context.Background(), AnalyzeRequest{SessionID: "s", ResumeText: testResume, JobDescription: testJob, Enhance: true})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(out.AISuggestions) != 1 || out.EnhancementError != "" {
		t.Fatalf("unexpected enhancement output: %+v", out)
	}
	if client.last.Result.Score != out.Score || client.last.JobDescription != testJob {
		t.Fatalf("llm did not receive the analysis: %+v", client.last)
	}
}

func TestAnalyzeEnhanceFailureKeepsResult(t *testing.T) {
	logs := observeLogs(t)
	svc := newTestService(NewMemoryRepo(), &fakeLLM{err: errBoom})

	out, err := svc.Analyze(context.Background(), AnalyzeRequest{SessionID: "s", ResumeText: testResume, JobDescription: testJob, Enhance: true})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if out.EnhancementError == "" || out.AISuggestions != nil {
		t.Fatalf("expected enhancement error, got %+v", out)
	}
	if len(out.Suggestions) == 0 {
		t.Fatalf("core suggestions must still be returned")
	}
	if logs.FilterMessage("enhancement.failed").Len() != 1 {
		t.Fatalf("expected enhancement.failed log")
	}
}

func TestAnalyzeEnhanceWithoutProvider(t *testing.T) {
	svc := newTestService(NewMemoryRepo(), nil)
	out, err := svc.Analyze(context.Background(), AnalyzeRequest{SessionID: "s", ResumeText: testResume, JobDescription: testJob, Enhance: true})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if out.EnhancementError != "AI suggestions are not configured" {
		t.Fatalf("unexpected enhancement error %q", out.EnhancementError)
	}
}

func TestUploadExtractsText(t *testing.T) {
	repo := NewMemoryRepo()
	svc := newTestService(repo, nil)

	out, err := svc.Upload(context.Background(), UploadRequest{
		SessionID:      "s",
		FileName:       "resume.txt",
		File:           strings.NewReader(testResume),
		JobDescription: testJob,
	})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if want := analyzer.Analyze(testResume, testJob); out.Score != want.Score {
		t.Fatalf("expected score %v, got %v", want.Score, out.Score)
	}
	saved, _ := repo.GetByID(context.Background(), "s", out.ID)
	if saved.ResumeFilename != "resume.txt" {
		t.Fatalf("filename not recorded: %+v", saved)
	}
}

func TestUploadPropagatesExtractionErrors(t *testing.T) {
	svc := newTestService(NewMemoryRepo(), nil)
	svc.Extractor = extract.Extractor{MaxBytes: 10}

	_, err := svc.Upload(context.Background(), UploadRequest{SessionID: "s", FileName: "cv.txt", File: strings.NewReader(testResume), JobDescription: testJob})
	if !errors.Is(err, extract.ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
	_, err = svc.Upload(context.Background(), UploadRequest{SessionID: "s", FileName: "cv.png", File: strings.NewReader("png"), JobDescription: testJob})
	if !errors.Is(err, extract.ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
	_, err = svc.Upload(context.Background(), UploadRequest{SessionID: "s", FileName: "cv.txt", JobDescription: testJob})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for missing file, got %v", err)
	}
}

func TestCompareReportsImprovement(t *testing.T) {
	svc := newTestService(NewMemoryRepo(), nil)
	original := "Backend developer building REST services"
	rewritten := original + " with Go, Kafka, PostgreSQL and Kubernetes for distributed systems"
	job := "Go engineer with Kafka, PostgreSQL and Kubernetes experience for distributed systems"

	res, err := svc.Compare(context.Background(), original, rewritten, job)
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if res.Rewritten.KeywordMatchScore < res.Original.KeywordMatchScore {
		t.Fatalf("rewritten resume should not match fewer keywords: %+v", res)
	}
	if res.Improvement.Score != round1(res.Rewritten.Score-res.Original.Score) {
		t.Fatalf("improvement mismatch: %+v", res.Improvement)
	}
	if len(res.NewlyMatched) == 0 {
		t.Fatalf("expected newly matched keywords")
	}
	for _, kw := range res.NewlyMatched {
		for _, old := range res.Original.MatchingKeywords {
			if kw == old {
				t.Fatalf("%q was already matched", kw)
			}
		}
	}
}

func TestCompareRequiresJobDescription(t *testing.T) {
	svc := newTestService(NewMemoryRepo(), nil)
	if _, err := svc.Compare(context.Background(), "a", "b", ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSuggestionsDoesNotPersist(t *testing.T) {
	repo := NewMemoryRepo()
	svc := newTestService(repo, &fakeLLM{suggestions: []string{"tip"}})

	out, err := svc.Suggestions(context.Background(), testResume, testJob)
	if err != nil {
		t.Fatalf("Suggestions: %v", err)
	}
	if len(out.AISuggestions) != 1 {
		t.Fatalf("unexpected output %+v", out)
	}
	stats, _ := repo.Stats(context.Background())
	if stats.TotalAnalyses != 0 {
		t.Fatalf("suggestions must not be recorded")
	}

	svc.LLM = nil
	if _, err := svc.Suggestions(context.Background(), testResume, testJob); !errors.Is(err, llm.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestHistoryNewestFirstWithLimits(t *testing.T) {
	svc := newTestService(NewMemoryRepo(), nil)
	svc.HistoryLimit = 2
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := svc.Analyze(ctx, AnalyzeRequest{SessionID: "s1", ResumeText: testResume, JobDescription: testJob}); err != nil {
			t.Fatalf("Analyze: %v", err)
		}
	}
	if _, err := svc.Analyze(ctx, AnalyzeRequest{SessionID: "s2", ResumeText: testResume, JobDescription: testJob}); err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	records, err := svc.History(ctx, "s1", 0)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(records) != 2 || records[0].ID != "analysis-3" || records[1].ID != "analysis-2" {
		t.Fatalf("unexpected history: %+v", records)
	}
	records, _ = svc.History(ctx, "s1", 50)
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	if _, err := svc.History(ctx, " ", 0); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	stats, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.TotalAnalyses != 4 || stats.TotalSessions != 2 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestGetIsScopedToSession(t *testing.T) {
	svc := newTestService(NewMemoryRepo(), nil)
	out, err := svc.Analyze(context.Background(), AnalyzeRequest{SessionID: "owner", ResumeText: testResume, JobDescription: testJob})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if _, err := svc.Get(context.Background(), "owner", out.ID); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if _, err := svc.Get(context.Background(), "other", out.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for other session, got %v", err)
	}
}

func TestMemoryRepoTruncatesStoredText(t *testing.T) {
	repo := NewMemoryRepo()
	long := strings.Repeat("ß", MaxStoredTextRunes+1)
	if err := repo.Save(context.Background(), Record{ID: "1", SessionID: "s", ResumeText: long, JobDescription: "jd"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, _ := repo.GetByID(context.Background(), "s", "1")
	if n := len([]rune(got.ResumeText)); n != MaxStoredTextRunes {
		t.Fatalf("expected %d runes, got %d", MaxStoredTextRunes, n)
	}
	if got.MissingKeywords == nil {
		t.Fatalf("expected non-nil lists")
	}
}

func TestMemoryRepoHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := NewMemoryRepo().Save(ctx, Record{ID: "1"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestAnalyzeSanitizesFilename(t *testing.T) {
	repo := NewMemoryRepo()
	svc := newTestService(repo, nil)

	out, err := svc.Analyze(context.Background(), AnalyzeRequest{SessionID: "s", ResumeFilename: "cvs/jane.pdf", ResumeText: testResume, JobDescription: testJob})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	saved, _ := repo.GetByID(context.Background(), "s", out.ID)
	if saved.ResumeFilename != "cvs_jane.pdf" {
		t.Fatalf("unexpected filename %q", saved.ResumeFilename)
	}

	_, err = svc.Analyze(context.Background(), AnalyzeRequest{SessionID: "s", ResumeFilename: "../secret", ResumeText: testResume, JobDescription: testJob})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

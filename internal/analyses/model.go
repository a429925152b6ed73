package analyses

import (
	"time"
	"unicode/utf8"

	"resumefit/internal/analyzer"
)

// MaxStoredTextRunes caps resume and job description text kept in history.
const MaxStoredTextRunes = 10000

// Record is one persisted analysis.
type Record struct {
	ID                string    `json:"id"`
	SessionID         string    `json:"-"`
	ResumeFilename    string    `json:"resumeFilename,omitempty"`
	ResumeText        string    `json:"resumeText"`
	JobDescription    string    `json:"jobDescription"`
	Score             float64   `json:"score"`
	SimilarityScore   float64   `json:"similarityScore"`
	KeywordMatchScore float64   `json:"keywordMatchScore"`
	SkillsMatchScore  float64   `json:"skillsMatchScore"`
	MatchingKeywords  []string  `json:"matchingKeywords"`
	MissingKeywords   []string  `json:"missingKeywords"`
	Suggestions       []string  `json:"suggestions"`
	CreatedAt         time.Time `json:"createdAt"`
}

// Stats aggregates all stored analyses.
type Stats struct {
	TotalAnalyses int     `json:"totalAnalyses"`
	AverageScore  float64 `json:"averageScore"`
	TotalSessions int     `json:"totalSessions"`
}

// Outcome is the response to an analysis request.
type Outcome struct {
	ID string `json:"id,omitempty"`
	analyzer.Result
	AISuggestions    []string `json:"aiSuggestions,omitempty"`
	EnhancementError string   `json:"enhancementError,omitempty"`
}

// Delta is the per-score change from an original to a rewritten resume.
type Delta struct {
	Score             float64 `json:"score"`
	SimilarityScore   float64 `json:"similarityScore"`
	KeywordMatchScore float64 `json:"keywordMatchScore"`
	SkillsMatchScore  float64 `json:"skillsMatchScore"`
}

// CompareResult holds both analyses of a before/after resume pair.
type CompareResult struct {
	Original     analyzer.Result `json:"original"`
	Rewritten    analyzer.Result `json:"rewritten"`
	Improvement  Delta           `json:"improvement"`
	NewlyMatched []string        `json:"newlyMatchedKeywords"`
}

func newRecord(id, sessionID, filename, resumeText, jobDescription string, res analyzer.Result, at time.Time) Record {
	return Record{
		ID:                id,
		SessionID:         sessionID,
		ResumeFilename:    filename,
		ResumeText:        resumeText,
		JobDescription:    jobDescription,
		Score:             res.Score,
		SimilarityScore:   res.SimilarityScore,
		KeywordMatchScore: res.KeywordMatchScore,
		SkillsMatchScore:  res.SkillsMatchScore,
		MatchingKeywords:  res.MatchingKeywords,
		MissingKeywords:   res.MissingKeywords,
		Suggestions:       res.Suggestions,
		CreatedAt:         at,
	}
}

// forStorage truncates the stored texts and replaces nil lists with empty ones.
func (r Record) forStorage() Record {
	r.ResumeText = truncateRunes(r.ResumeText, MaxStoredTextRunes)
	r.JobDescription = truncateRunes(r.JobDescription, MaxStoredTextRunes)
	r.MatchingKeywords = nonNil(r.MatchingKeywords)
	r.MissingKeywords = nonNil(r.MissingKeywords)
	r.Suggestions = nonNil(r.Suggestions)
	return r
}

func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}

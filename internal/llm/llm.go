// Package llm defines the generative-enhancement collaborator used to turn an
// analysis into tailored, resume-specific advice.
package llm

import (
	"context"
	"errors"
	"strings"

	"resumefit/internal/analyzer"
)

// Client produces tailored suggestions for a resume and job description.
type Client interface {
	TailoredSuggestions(ctx context.Context, input Input) ([]string, error)
}

// Input carries the texts and the core analysis the suggestions refine.
type Input struct {
	ResumeText     string
	JobDescription string
	Result         analyzer.Result
}

// ErrNotConfigured is returned when no provider is wired.
var ErrNotConfigured = errors.New("llm provider not configured")

// ErrEmptyResponse is returned when a provider answered without usable suggestions.
var ErrEmptyResponse = errors.New("llm returned no suggestions")

// PlaceholderClient is used when LLM_PROVIDER is none.
type PlaceholderClient struct{}

// TailoredSuggestions returns ErrNotConfigured.
func (PlaceholderClient) TailoredSuggestions(ctx context.Context, input Input) ([]string, error) {
	_ = ctx
	_ = input
	return nil, ErrNotConfigured
}

// CleanSuggestions trims entries, drops blanks and duplicates, and caps the list at limit.
func CleanSuggestions(raw []string, limit int) []string {
	out := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

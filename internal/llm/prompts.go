package llm

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"
)

// SystemPrompt is sent as the system message by chat-style providers.
const SystemPrompt = "You are an expert resume coach. Provide specific, actionable advice in JSON format."

// MaxSuggestions caps the list returned by providers.
const MaxSuggestions = 8

const (
	resumePromptLimit = 3000
	jobPromptLimit    = 2000
)

//go:embed prompts/tailored_suggestions.txt
var tailoredTemplate string

// BuildPrompt renders the tailored-suggestions template for input.
func BuildPrompt(input Input) string {
	res := input.Result
	replacer := strings.NewReplacer(
		"{{RESUME}}", truncate(input.ResumeText, resumePromptLimit),
		"{{JOB_DESCRIPTION}}", truncate(input.JobDescription, jobPromptLimit),
		"{{SCORE}}", fmt.Sprintf("%.1f", res.Score),
		"{{MATCHING_KEYWORDS}}", joinOrNone(res.MatchingKeywords),
		"{{MISSING_KEYWORDS}}", joinOrNone(res.MissingKeywords),
		"{{MAX_SUGGESTIONS}}", fmt.Sprintf("%d", MaxSuggestions),
	)
	return replacer.Replace(tailoredTemplate)
}

type suggestionsPayload struct {
	Suggestions []string `json:"suggestions"`
}

// ParseSuggestions decodes a {"suggestions":[...]} provider response. Code
// fences around the JSON are tolerated.
func ParseSuggestions(raw string) ([]string, error) {
	body := strings.TrimSpace(raw)
	body = strings.TrimPrefix(body, "```json")
	body = strings.TrimPrefix(body, "```")
	body = strings.TrimSuffix(body, "```")
	body = strings.TrimSpace(body)

	var payload suggestionsPayload
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return nil, fmt.Errorf("parse suggestions: %w", err)
	}
	out := CleanSuggestions(payload.Suggestions, MaxSuggestions)
	if len(out) == 0 {
		return nil, ErrEmptyResponse
	}
	return out, nil
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}

package analyzer

import (
	"regexp"
	"strings"
)

const (
	maxSuggestions         = 5
	maxSuggestedKeywords   = 5
	maxSuggestedSkills     = 3
	minStrongActionVerbs   = 2
	lowCompatibilityCutoff = 40
	moderateCutoff         = 65
	goodCutoff             = 80
)

// Suggestion texts.
const (
	SuggestLowCompatibility       = "Your resume has a low compatibility score. Consider restructuring to better match the job requirements."
	SuggestModerateCompatibility  = "Your resume shows moderate compatibility. Focus on incorporating more relevant keywords and skills."
	SuggestGoodCompatibility      = "Good compatibility! Fine-tune by adding missing keywords and emphasizing relevant experience."
	SuggestExcellentCompatibility = "Excellent compatibility! Your resume aligns well with the job requirements."
	SuggestQuantify               = "Add quantifiable achievements with numbers and percentages to make your impact more concrete."
	SuggestActionVerbs            = "Use stronger action verbs like 'implemented', 'optimized', 'achieved', or 'led' to describe your experience."

	keywordsPrefix = "Consider adding these important keywords: "
	skillsPrefix   = "Highlight these skills if you have them: "
)

var quantifiedPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\d+%`),
	regexp.MustCompile(`\$\d+`),
	regexp.MustCompile(`\d+\+`),
	regexp.MustCompile(`(?i)\d+\s*(years?|months?)`),
	regexp.MustCompile(`(?i)\d+\s*(people|employees|team|staff)`),
}

// StrongActionVerbs are the verbs that count towards action-verb usage.
var StrongActionVerbs = []string{
	"achieved", "implemented", "developed", "created", "designed",
	"optimized", "improved", "increased", "reduced", "managed",
	"led", "directed", "coordinated", "executed", "delivered",
	"established", "initiated", "streamlined", "enhanced",
}

// HasQuantifiedAchievements reports whether text states any percentage,
// amount, count, duration or team size.
func HasQuantifiedAchievements(text string) bool {
	for _, re := range quantifiedPatterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// CountStrongActionVerbs counts distinct strong verbs occurring as substrings
// of the lowercased text.
func CountStrongActionVerbs(text string) int {
	lower := strings.ToLower(text)
	n := 0
	for _, verb := range StrongActionVerbs {
		if strings.Contains(lower, verb) {
			n++
		}
	}
	return n
}

// tierMessage picks the single compatibility message for a final score.
func tierMessage(score float64) string {
	switch {
	case score < lowCompatibilityCutoff:
		return SuggestLowCompatibility
	case score < moderateCutoff:
		return SuggestModerateCompatibility
	case score < goodCutoff:
		return SuggestGoodCompatibility
	default:
		return SuggestExcellentCompatibility
	}
}

// Suggest builds the ordered suggestion list for a finished analysis.
func Suggest(resumeText string, score float64, missingKeywords, missingSkills []string) []string {
	out := []string{tierMessage(score)}
	if len(missingKeywords) > 0 {
		out = append(out, keywordsPrefix+strings.Join(head(missingKeywords, maxSuggestedKeywords), ", "))
	}
	if len(missingSkills) > 0 {
		out = append(out, skillsPrefix+strings.Join(head(missingSkills, maxSuggestedSkills), ", "))
	}
	if !HasQuantifiedAchievements(resumeText) {
		out = append(out, SuggestQuantify)
	}
	if CountStrongActionVerbs(resumeText) < minStrongActionVerbs {
		out = append(out, SuggestActionVerbs)
	}
	return head(out, maxSuggestions)
}

func head(list []string, n int) []string {
	if len(list) > n {
		return list[:n]
	}
	return list
}

// Package matching reconciles resume-side and job-side keyword and skill sets.
package matching

import "strings"

const (
	minPartialLength   = 3
	minFuzzyLength     = 5
	phraseOverlapRatio = 0.70
	charOverlapRatio   = 0.80
)

// Result partitions the job-side terms. Matched and Missing follow job-side
// order, are disjoint, and together cover every job-side term.
type Result struct {
	Matched []string
	Missing []string
}

// PrepareKeywords lowercases, trims and dedupes keywords, keeping only those
// longer than two characters.
func PrepareKeywords(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	seen := make(map[string]struct{}, len(keywords))
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if len([]rune(kw)) <= 2 {
			continue
		}
		if _, dup := seen[kw]; dup {
			continue
		}
		seen[kw] = struct{}{}
		out = append(out, kw)
	}
	return out
}

// MatchKeywords reports, for each job keyword, whether any resume keyword
// matches it by exact value, substring, phrase word overlap or character
// overlap.
func MatchKeywords(resume, job []string) Result {
	resumeSet := make(map[string]struct{}, len(resume))
	lowered := make([]string, 0, len(resume))
	for _, kw := range resume {
		kw = strings.ToLower(kw)
		resumeSet[kw] = struct{}{}
		lowered = append(lowered, kw)
	}

	res := Result{Matched: []string{}, Missing: []string{}}
	seen := make(map[string]struct{}, len(job))
	for _, jk := range job {
		jk = strings.ToLower(jk)
		if _, dup := seen[jk]; dup {
			continue
		}
		seen[jk] = struct{}{}

		if keywordMatches(jk, lowered, resumeSet) {
			res.Matched = append(res.Matched, jk)
		} else {
			res.Missing = append(res.Missing, jk)
		}
	}
	return res
}

func keywordMatches(job string, resume []string, resumeSet map[string]struct{}) bool {
	if _, ok := resumeSet[job]; ok {
		return true
	}
	for _, rk := range resume {
		if partialMatch(job, rk) {
			return true
		}
	}
	return false
}

// partialMatch applies the substring, phrase-overlap and character-overlap rules.
func partialMatch(job, resume string) bool {
	jl, rl := len([]rune(job)), len([]rune(resume))
	if jl < minPartialLength || rl < minPartialLength {
		return false
	}
	if strings.Contains(resume, job) || strings.Contains(job, resume) {
		return true
	}
	if phraseOverlap(job, resume) {
		return true
	}
	if jl >= minFuzzyLength && rl >= minFuzzyLength {
		return CharOverlap(job, resume) >= charOverlapRatio
	}
	return false
}

// phraseOverlap is true when both sides are multi-word and the resume phrase
// covers at least 70% of the job phrase's distinct words.
func phraseOverlap(job, resume string) bool {
	jobWords := wordSet(job)
	resumeWords := wordSet(resume)
	if len(jobWords) < 2 || len(resumeWords) < 2 {
		return false
	}
	var overlap int
	for w := range jobWords {
		if _, ok := resumeWords[w]; ok {
			overlap++
		}
	}
	return float64(overlap) >= float64(len(jobWords))*phraseOverlapRatio
}

// CharOverlap counts the characters of the shorter string that occur anywhere
// in the longer one, divided by the shorter length. On equal lengths a is the
// shorter side. This is a bag-of-characters containment ratio, not an edit
// distance.
func CharOverlap(a, b string) float64 {
	shorter, longer := []rune(a), b
	if len([]rune(b)) < len(shorter) {
		shorter, longer = []rune(b), a
	}
	if len(shorter) == 0 {
		return 0
	}
	var common int
	for _, r := range shorter {
		if strings.ContainsRune(longer, r) {
			common++
		}
	}
	return float64(common) / float64(len(shorter))
}

func wordSet(s string) map[string]struct{} {
	fields := strings.Fields(s)
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

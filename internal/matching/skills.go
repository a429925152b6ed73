package matching

import (
	"slices"
	"strings"
)

// synonymGroups maps a canonical skill to the terms that imply it.
var synonymGroups = []struct {
	canonical string
	synonyms  []string
}{
	{"javascript", []string{"js", "node.js", "nodejs", "react", "vue", "angular"}},
	{"python", []string{"django", "flask", "pandas", "numpy", "pytorch"}},
	{"java", []string{"spring", "hibernate", "maven", "gradle"}},
	{"sql", []string{"mysql", "postgresql", "sqlite", "oracle", "mongodb"}},
	{"aws", []string{"amazon web services", "ec2", "s3", "lambda", "cloudformation"}},
	{"machine learning", []string{"ml", "ai", "deep learning", "neural networks"}},
	{"data analysis", []string{"analytics", "data science", "statistics", "visualization"}},
}

// MatchSkills reports which job skills are covered by the resume skills through
// exact match, substring in either direction, or a shared synonym group.
func MatchSkills(resume, job []string) Result {
	res := Result{Matched: []string{}, Missing: []string{}}
	seen := make(map[string]struct{}, len(job))
	for _, js := range job {
		js = strings.ToLower(strings.TrimSpace(js))
		if _, dup := seen[js]; dup {
			continue
		}
		seen[js] = struct{}{}

		matched := false
		for _, rs := range resume {
			if SkillsMatch(js, strings.ToLower(strings.TrimSpace(rs))) {
				matched = true
				break
			}
		}
		if matched {
			res.Matched = append(res.Matched, js)
		} else {
			res.Missing = append(res.Missing, js)
		}
	}
	return res
}

// SkillsMatch reports whether a resume skill satisfies a job skill.
func SkillsMatch(job, resume string) bool {
	if job == resume || strings.Contains(resume, job) || strings.Contains(job, resume) {
		return true
	}
	for _, g := range synonymGroups {
		jobIn, resumeIn := slices.Contains(g.synonyms, job), slices.Contains(g.synonyms, resume)
		switch {
		case job == g.canonical && resumeIn,
			resume == g.canonical && jobIn,
			jobIn && resumeIn:
			return true
		}
	}
	return false
}

// Difference returns the members of a absent from b, in a's order.
func Difference(a, b []string) []string {
	drop := make(map[string]struct{}, len(b))
	for _, s := range b {
		drop[s] = struct{}{}
	}
	out := []string{}
	for _, s := range a {
		if _, ok := drop[s]; !ok {
			out = append(out, s)
			drop[s] = struct{}{}
		}
	}
	return out
}

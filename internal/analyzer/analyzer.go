// Package analyzer scores a resume against a job description and derives
// improvement suggestions.
//
// Analyze is total: for any pair of strings it returns a complete Result and
// never panics. Nothing is cached between calls.
package analyzer

import (
	"fmt"
	"math"

	"resumefit/internal/matching"
	"resumefit/internal/similarity"
	"resumefit/internal/textproc"
)

// MaxMissingKeywords caps Result.MissingKeywords.
const MaxMissingKeywords = 15

// ReasonPanic is reported through OnFallback when the pipeline recovered from a panic.
const ReasonPanic = "analysis_panic"

// Result is the outcome of one analysis.
type Result struct {
	Score             float64  `json:"score"`
	SimilarityScore   float64  `json:"similarityScore"`
	KeywordMatchScore float64  `json:"keywordMatchScore"`
	SkillsMatchScore  float64  `json:"skillsMatchScore"`
	MatchingKeywords  []string `json:"matchingKeywords"`
	MissingKeywords   []string `json:"missingKeywords"`
	Suggestions       []string `json:"suggestions"`
}

// Evaluation is a Result together with the intermediate sets it was built from.
type Evaluation struct {
	Result

	JobKeywords   []string
	AllMissing    []string
	ResumeSkills  []string
	JobSkills     []string
	MatchedSkills []string
	MissingSkills []string

	// SimilarityFallback is set when the similarity step fell back to word overlap.
	SimilarityFallback bool
	// Recovered is set when the pipeline panicked and the result was rebuilt
	// from word overlap alone.
	Recovered bool
}

// Analyzer runs the matching pipeline. The zero value is ready to use.
type Analyzer struct {
	// OnFallback, when set, observes degraded paths: similarity fallbacks
	// and recovered pipeline panics.
	OnFallback func(reason string, err error)
}

// Analyze scores resumeText against jobDescription with a zero Analyzer.
func Analyze(resumeText, jobDescription string) Result {
	return Analyzer{}.Analyze(resumeText, jobDescription)
}

// Analyze scores resumeText against jobDescription.
func (a Analyzer) Analyze(resumeText, jobDescription string) Result {
	return a.Evaluate(resumeText, jobDescription).Result
}

// Evaluate runs the full pipeline and keeps the intermediate sets.
func (a Analyzer) Evaluate(resumeText, jobDescription string) (ev Evaluation) {
	defer func() {
		if rec := recover(); rec != nil {
			if a.OnFallback != nil {
				a.OnFallback(ReasonPanic, fmt.Errorf("analysis panic: %v", rec))
			}
			ev = degraded(resumeText, jobDescription)
		}
	}()

	fellBack := false
	est := similarity.Estimator{OnFallback: func(reason string, err error) {
		if reason != similarity.ReasonLowRawRetry {
			fellBack = true
		}
		if a.OnFallback != nil {
			a.OnFallback(reason, err)
		}
	}}
	sim := est.Similarity(
		textproc.PreprocessForSimilarity(resumeText),
		textproc.PreprocessForSimilarity(jobDescription),
	)

	resumeKeywords := matching.PrepareKeywords(textproc.ExtractKeywords(resumeText))
	jobKeywords := matching.PrepareKeywords(textproc.ExtractKeywords(jobDescription))
	kw := matching.MatchKeywords(resumeKeywords, jobKeywords)
	keywordScore := 0.0
	if len(jobKeywords) > 0 {
		keywordScore = math.Min(100, ratio(len(kw.Matched), len(jobKeywords))*100)
	}

	resumeSkills := textproc.ExtractSkills(resumeText)
	jobSkills := textproc.ExtractSkills(jobDescription)
	sk := matching.MatchSkills(resumeSkills, jobSkills)
	skillsScore := SkillsScore(len(sk.Matched), len(resumeSkills), len(jobSkills))

	score := ComposeScore(ScoreInputs{
		Similarity:       sim,
		KeywordScore:     keywordScore,
		SkillsScore:      skillsScore,
		MatchedKeywords:  len(kw.Matched),
		TotalJobKeywords: len(jobKeywords),
	})

	missingSkills := matching.Difference(jobSkills, resumeSkills)
	return Evaluation{
		Result: Result{
			Score:             round1(score),
			SimilarityScore:   round1(sim),
			KeywordMatchScore: round1(keywordScore),
			SkillsMatchScore:  round1(skillsScore),
			MatchingKeywords:  kw.Matched,
			MissingKeywords:   head(kw.Missing, MaxMissingKeywords),
			Suggestions:       Suggest(resumeText, score, kw.Missing, missingSkills),
		},
		JobKeywords:        jobKeywords,
		AllMissing:         kw.Missing,
		ResumeSkills:       resumeSkills,
		JobSkills:          jobSkills,
		MatchedSkills:      sk.Matched,
		MissingSkills:      missingSkills,
		SimilarityFallback: fellBack,
	}
}

// SkillsScore is the share of job skills covered, plus up to 10 points when
// the resume lists more skills than the job asks for, capped at 100.
func SkillsScore(matched, resumeSkills, jobSkills int) float64 {
	if jobSkills == 0 {
		return 0
	}
	score := ratio(matched, jobSkills) * 100
	if resumeSkills > jobSkills {
		score += math.Min(10, float64(resumeSkills-jobSkills)*2)
	}
	return math.Min(100, score)
}

// degraded builds a well-formed result from word overlap alone.
func degraded(resumeText, jobDescription string) Evaluation {
	sim := similarity.WordOverlap(resumeText, jobDescription)
	score := ComposeScore(ScoreInputs{Similarity: sim})
	return Evaluation{
		Result: Result{
			Score:            round1(score),
			SimilarityScore:  round1(sim),
			MatchingKeywords: []string{},
			MissingKeywords:  []string{},
			Suggestions:      Suggest(resumeText, score, nil, nil),
		},
		JobKeywords:        []string{},
		AllMissing:         []string{},
		ResumeSkills:       []string{},
		JobSkills:          []string{},
		MatchedSkills:      []string{},
		MissingSkills:      []string{},
		SimilarityFallback: true,
		Recovered:          true,
	}
}

func ratio(n, d int) float64 {
	return float64(n) / float64(d)
}

// Package similarity estimates how close two documents are in content, as a
// percentage compressed into a human-plausible band.
package similarity

import (
	"fmt"
	"math"
	"strings"
)

const (
	minWordsForVectors = 10
	lowRawThreshold    = 0.10
)

// Fallback reasons reported through Estimator.OnFallback.
const (
	ReasonShortInput      = "short_input"
	ReasonVectorizeFailed = "vectorize_failed"
	ReasonLowRawRetry     = "low_raw_retry"
	ReasonPanic           = "panic"
)

// Estimator computes content similarity. The zero value is ready to use.
// OnFallback, when set, is told each time a fallback path is taken.
type Estimator struct {
	OnFallback func(reason string, err error)
}

// Similarity returns a score in [0,100] for two texts already prepared with
// textproc.PreprocessForSimilarity. It never panics; any internal failure
// degrades to word overlap of the inputs.
func (e Estimator) Similarity(a, b string) (score float64) {
	defer func() {
		if rec := recover(); rec != nil {
			e.report(ReasonPanic, fmt.Errorf("similarity panic: %v", rec))
			score = WordOverlap(a, b)
		}
	}()

	if strings.TrimSpace(a) == "" || strings.TrimSpace(b) == "" {
		return 0
	}
	if len(strings.Fields(a)) < minWordsForVectors || len(strings.Fields(b)) < minWordsForVectors {
		e.report(ReasonShortInput, nil)
		return WordOverlap(a, b)
	}

	raw, err := cosineWith(Primary, a, b)
	if err == nil && raw < lowRawThreshold {
		e.report(ReasonLowRawRetry, nil)
		var alt float64
		alt, err = cosineWith(Lenient, a, b)
		raw = math.Max(raw, alt)
	}
	if err != nil {
		e.report(ReasonVectorizeFailed, err)
		raw = WordOverlap(a, b) / 100
	}

	return Realism(clamp(raw*100, 5, 90))
}

// Realism maps a clamped cosine percentage onto the reporting band.
func Realism(pct float64) float64 {
	switch {
	case pct > 80:
		return 65 + (pct-80)*0.5
	case pct > 60:
		return 45 + (pct - 60)
	case pct < 15:
		return 15 + pct*0.8
	default:
		return pct
	}
}

// WordOverlap is the Jaccard index of the lowercase word sets, times 100.
func WordOverlap(a, b string) float64 {
	wa := wordSet(a)
	wb := wordSet(b)
	if len(wa) == 0 || len(wb) == 0 {
		return 0
	}
	var inter int
	for w := range wa {
		if _, ok := wb[w]; ok {
			inter++
		}
	}
	union := len(wa) + len(wb) - inter
	if union == 0 {
		return 0
	}
	return clamp(float64(inter)/float64(union)*100, 0, 100)
}

func cosineWith(v Vectorizer, a, b string) (float64, error) {
	vectors, err := v.FitTransform([]string{a, b})
	if err != nil {
		return 0, err
	}
	return Cosine(vectors[0], vectors[1]), nil
}

func (e Estimator) report(reason string, err error) {
	if e.OnFallback != nil {
		e.OnFallback(reason, err)
	}
}

func wordSet(text string) map[string]struct{} {
	fields := strings.Fields(strings.ToLower(text))
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}

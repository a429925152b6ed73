package analyzer

import "math"

const (
	similarityWeight = 0.35
	keywordWeight    = 0.45
	skillsWeight     = 0.20

	minScore = 15
	maxScore = 95
)

// tier is one rung of an ordered ladder; the first rule whose test passes wins.
type tier struct {
	applies    func(v float64) bool
	multiplier float64
}

func atLeast(t float64) func(float64) bool { return func(v float64) bool { return v >= t } }
func below(t float64) func(float64) bool   { return func(v float64) bool { return v < t } }

var keywordRatioTiers = []tier{
	{atLeast(0.98), 1.20},
	{atLeast(0.95), 1.15},
	{atLeast(0.90), 1.10},
	{atLeast(0.85), 1.05},
}

var similarityTiers = []tier{
	{atLeast(65), 1.12},
	{atLeast(55), 1.08},
	{atLeast(45), 1.03},
	{below(25), 0.85},
	{below(15), 0.75},
}

// ceilingBands compress high scores: above floor, score = base + (v-floor)*slope.
var ceilingBands = []struct {
	floor, base, slope float64
}{
	{95, 90, 0.3},
	{90, 85, 0.6},
	{85, 80, 0.8},
}

// ScoreInputs are the component signals the final score is composed from.
type ScoreInputs struct {
	Similarity       float64
	KeywordScore     float64
	SkillsScore      float64
	MatchedKeywords  int
	TotalJobKeywords int
}

// ComposeScore combines the component scores into the final score in [15,95].
func ComposeScore(in ScoreInputs) float64 {
	sim := nonNegative(in.Similarity)
	kw := nonNegative(in.KeywordScore)
	sk := nonNegative(in.SkillsScore)

	score := sim*similarityWeight + kw*keywordWeight + sk*skillsWeight

	if in.TotalJobKeywords > 0 && in.MatchedKeywords > 0 {
		ratio := float64(in.MatchedKeywords) / float64(in.TotalJobKeywords)
		score *= firstTier(keywordRatioTiers, ratio)
	}
	score *= firstTier(similarityTiers, sim)
	if sk < 50 {
		score *= 0.9
	}

	for _, band := range ceilingBands {
		if score > band.floor {
			score = band.base + (score-band.floor)*band.slope
			break
		}
	}
	return math.Max(minScore, math.Min(maxScore, score))
}

func firstTier(tiers []tier, v float64) float64 {
	for _, t := range tiers {
		if t.applies(v) {
			return t.multiplier
		}
	}
	return 1
}

func nonNegative(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return v
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

package similarity

import (
	"errors"
	"math"
	"regexp"
	"sort"
	"strings"
)

// ErrEmptyVocabulary is returned when no feature survives tokenization and filtering.
var ErrEmptyVocabulary = errors.New("empty vocabulary")

// Vectorizer describes one TF-IDF configuration. It carries no fitted state;
// every FitTransform call builds its vocabulary from scratch.
type Vectorizer struct {
	StopWords   map[string]struct{}
	MinN        int
	MaxN        int
	MaxFeatures int // 0 keeps every feature
	Pattern     *regexp.Regexp
	// Keep, when set, drops pattern matches it rejects.
	Keep        func(tok string) bool
	SublinearTF bool
}

var (
	// Primary compares content words: stopwords removed, 1-2 grams, words made
	// of 3+ ASCII letters. Word boundaries count any Unicode letter or digit, so
	// "café" yields nothing rather than "caf".
	Primary = Vectorizer{
		StopWords:   englishStopWords,
		MinN:        1,
		MaxN:        2,
		MaxFeatures: 3000,
		Pattern:     regexp.MustCompile(`[\p{L}\p{N}_]+`),
		Keep:        asciiWord(3),
		SublinearTF: true,
	}
	// Lenient is the lighter retry configuration: unigrams, no stopwords, no cap.
	Lenient = Vectorizer{
		MinN:    1,
		MaxN:    1,
		Pattern: regexp.MustCompile(`[\p{L}\p{N}_]{2,}`),
	}
)

// Vector is a sparse, L2-normalized TF-IDF row.
type Vector map[string]float64

// FitTransform fits IDF weights over docs and returns one normalized vector per document.
func (v Vectorizer) FitTransform(docs []string) ([]Vector, error) {
	counts := make([]map[string]int, len(docs))
	docFreq := make(map[string]int)
	totals := make(map[string]int)
	for i, doc := range docs {
		counts[i] = make(map[string]int)
		for _, feature := range v.analyze(doc) {
			if counts[i][feature] == 0 {
				docFreq[feature]++
			}
			counts[i][feature]++
			totals[feature]++
		}
	}
	if len(docFreq) == 0 {
		return nil, ErrEmptyVocabulary
	}

	vocab := v.limitFeatures(totals)
	n := float64(len(docs))
	vectors := make([]Vector, len(docs))
	for i := range docs {
		row := make(Vector, len(counts[i]))
		var norm float64
		for feature, count := range counts[i] {
			if _, ok := vocab[feature]; !ok {
				continue
			}
			tf := float64(count)
			if v.SublinearTF {
				tf = 1 + math.Log(tf)
			}
			idf := math.Log((1+n)/(1+float64(docFreq[feature]))) + 1
			w := tf * idf
			row[feature] = w
			norm += w * w
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for feature := range row {
				row[feature] /= norm
			}
		}
		vectors[i] = row
	}
	return vectors, nil
}

// asciiWord accepts tokens of at least minLen letters a-z.
func asciiWord(minLen int) func(string) bool {
	return func(tok string) bool {
		if len(tok) < minLen {
			return false
		}
		for i := 0; i < len(tok); i++ {
			if tok[i] < 'a' || tok[i] > 'z' {
				return false
			}
		}
		return true
	}
}

// analyze lowercases, tokenizes, drops stopwords and emits n-grams.
func (v Vectorizer) analyze(doc string) []string {
	raw := v.Pattern.FindAllString(strings.ToLower(doc), -1)
	tokens := raw[:0]
	for _, tok := range raw {
		if v.Keep != nil && !v.Keep(tok) {
			continue
		}
		if _, stop := v.StopWords[tok]; stop {
			continue
		}
		tokens = append(tokens, tok)
	}

	minN, maxN := v.MinN, v.MaxN
	if minN < 1 {
		minN = 1
	}
	if maxN < minN {
		maxN = minN
	}
	features := make([]string, 0, len(tokens)*(maxN-minN+1))
	for n := minN; n <= maxN; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			features = append(features, strings.Join(tokens[i:i+n], " "))
		}
	}
	return features
}

// limitFeatures keeps the MaxFeatures most frequent features across the corpus,
// breaking ties alphabetically.
func (v Vectorizer) limitFeatures(totals map[string]int) map[string]struct{} {
	keep := make(map[string]struct{}, len(totals))
	if v.MaxFeatures <= 0 || len(totals) <= v.MaxFeatures {
		for feature := range totals {
			keep[feature] = struct{}{}
		}
		return keep
	}
	features := make([]string, 0, len(totals))
	for feature := range totals {
		features = append(features, feature)
	}
	sort.Slice(features, func(i, j int) bool {
		if totals[features[i]] != totals[features[j]] {
			return totals[features[i]] > totals[features[j]]
		}
		return features[i] < features[j]
	})
	for _, feature := range features[:v.MaxFeatures] {
		keep[feature] = struct{}{}
	}
	return keep
}

// Cosine returns the cosine similarity of two normalized vectors.
func Cosine(a, b Vector) float64 {
	if len(a) > len(b) {
		a, b = b, a
	}
	var dot float64
	for feature, w := range a {
		dot += w * b[feature]
	}
	return dot
}

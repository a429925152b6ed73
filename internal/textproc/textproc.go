// Package textproc normalizes free text and pulls out the keywords and skills
// that the matcher compares.
package textproc

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	minKeywordLength = 2
	maxKeywordLength = 25
)

// Clean lowercases text, collapses whitespace and replaces every character
// other than word characters, whitespace, hyphens and periods with a space.
func Clean(text string) string {
	if text == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		switch {
		case isWordRune(r), r == '-', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Tokenize splits cleaned text into tokens. A run of trailing periods is split
// off a word as its own token, so "python." yields "python" and ".".
func Tokenize(cleaned string) []string {
	fields := strings.Fields(cleaned)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		trimmed := strings.TrimRight(f, ".")
		if trimmed == "" || trimmed == f {
			tokens = append(tokens, f)
			continue
		}
		tokens = append(tokens, trimmed, f[len(trimmed):])
	}
	return tokens
}

// ExtractKeywords returns unigram, bigram and trigram keywords in first-seen
// order, de-duplicated case-insensitively.
func ExtractKeywords(text string) []string {
	if text == "" {
		return []string{}
	}
	tokens := Tokenize(Clean(text))

	keywords := make([]string, 0, len(tokens)*3)
	for _, tok := range tokens {
		n := utf8.RuneCountInString(tok)
		if n < minKeywordLength || n > maxKeywordLength {
			continue
		}
		if IsStopword(tok) || isNumeric(tok) || isPunctuation(tok) {
			continue
		}
		keywords = append(keywords, tok)
	}

	words := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if utf8.RuneCountInString(tok) >= minKeywordLength && !isPunctuation(tok) {
			words = append(words, tok)
		}
	}
	keywords = appendPhrases(keywords, words, 2)
	keywords = appendPhrases(keywords, words, 3)

	return dedupeFold(keywords)
}

// appendPhrases adds n-word phrases built from consecutive words. A phrase is
// dropped when any of its words is a stopword or it exceeds the length cap.
func appendPhrases(dst, words []string, n int) []string {
	for i := 0; i+n <= len(words); i++ {
		window := words[i : i+n]
		if containsStopword(window) {
			continue
		}
		phrase := strings.Join(window, " ")
		if utf8.RuneCountInString(phrase) > maxKeywordLength {
			continue
		}
		dst = append(dst, phrase)
	}
	return dst
}

// PreprocessForSimilarity prepares running text for vector comparison: all
// punctuation is stripped and only single characters, numbers and a handful of
// function words are dropped.
func PreprocessForSimilarity(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		if isWordRune(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
			continue
		}
		b.WriteByte(' ')
	}

	fields := strings.Fields(b.String())
	kept := make([]string, 0, len(fields))
	for _, tok := range fields {
		if utf8.RuneCountInString(tok) <= 1 || isNumeric(tok) {
			continue
		}
		if _, stop := similarityStopwords[tok]; stop {
			continue
		}
		kept = append(kept, tok)
	}
	return strings.Join(kept, " ")
}

func containsStopword(words []string) bool {
	for _, w := range words {
		if IsStopword(w) {
			return true
		}
	}
	return false
}

func dedupeFold(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		key := strings.ToLower(item)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
	}
	return out
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r) || r == '_'
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func isPunctuation(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsPunct(r) && !unicode.IsSymbol(r) {
			return false
		}
	}
	return true
}

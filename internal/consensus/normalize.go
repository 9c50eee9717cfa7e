package consensus

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	markdownRe = regexp.MustCompile(`[*_]{1,3}`)
	citationRe = regexp.MustCompile(`\[\d+\]`)
	thinkRe    = regexp.MustCompile(`(?s)<think>.*?</think>`)
	htmlTagRe  = regexp.MustCompile(`<[^>]+>`)
)

const maxCoreWords = 5

// Normalize canonicalizes an answer for comparison: case-folded, punctuation
// and symbols stripped, whitespace collapsed. Idempotent.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Clean strips markdown emphasis, [n] citations, reasoning blocks and HTML
// tags from a raw model answer, keeping just the words.
func Clean(s string) string {
	s = thinkRe.ReplaceAllString(s, "")
	s = markdownRe.ReplaceAllString(s, "")
	s = citationRe.ReplaceAllString(s, "")
	s = htmlTagRe.ReplaceAllString(s, "")
	return strings.Join(strings.Fields(s), " ")
}

// ExtractCore reduces a full model response to its core short answer: the
// first informative sentence, capped at a few words. Models are prompted to
// answer tersely but some still pad with a sentence of context.
func ExtractCore(s string) string {
	s = Clean(s)
	if s == "" {
		return ""
	}

	for _, sentence := range strings.FieldsFunc(s, isSentenceBreak) {
		sentence = strings.TrimSpace(sentence)
		if len(sentence) > 1 {
			return firstWords(sentence, maxCoreWords)
		}
	}
	return firstWords(s, maxCoreWords)
}

func isSentenceBreak(r rune) bool {
	return r == '.' || r == '\n' || r == '!' || r == '?'
}

func firstWords(s string, n int) string {
	words := strings.Fields(s)
	if len(words) > n {
		words = words[:n]
	}
	return strings.Join(words, " ")
}

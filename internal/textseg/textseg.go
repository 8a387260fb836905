// Package textseg provides sentence, paragraph and heading segmentation
// shared by ingestion and validation. Both sides must decompose text the
// same way, otherwise rules codified against one representation would be
// checked against another.
package textseg

import (
	"strings"
	"unicode"
)

// abbreviations are tokens whose trailing period does not terminate a
// sentence. Matching is case-insensitive and the set is deliberately
// small: common titles and latinisms cover the vast majority of false
// boundaries in prose.
var abbreviations = map[string]bool{
	"mr":   true,
	"mrs":  true,
	"ms":   true,
	"dr":   true,
	"prof": true,
	"sr":   true,
	"jr":   true,
	"st":   true,
	"vs":   true,
	"etc":  true,
	"e.g":  true,
	"i.e":  true,
	"no":   true,
	"vol":  true,
	"fig":  true,
	"approx": true,
}

// Sentences splits text into sentences on '.', '!' and '?' boundaries,
// protecting known abbreviations from being misread as terminators.
// Newlines within a sentence are treated as spaces.
func Sentences(text string) []string {
	var sentences []string
	var current strings.Builder

	runes := []rune(text)
	for i, r := range runes {
		current.WriteRune(r)

		if r != '.' && r != '!' && r != '?' {
			continue
		}

		// A terminator mid-token ("3.14", "v1.2") is not a boundary.
		if i+1 < len(runes) && !isBoundaryFollower(runes[i+1]) {
			continue
		}

		if r == '.' && endsWithAbbreviation(current.String()) {
			continue
		}

		if s := normaliseSentence(current.String()); s != "" {
			sentences = append(sentences, s)
		}
		current.Reset()
	}

	if s := normaliseSentence(current.String()); s != "" {
		sentences = append(sentences, s)
	}

	return sentences
}

// isBoundaryFollower reports whether the rune after a terminator is
// consistent with a sentence boundary (whitespace or a closing quote).
func isBoundaryFollower(r rune) bool {
	return unicode.IsSpace(r) || r == '"' || r == '\'' || r == ')' || r == '”' || r == '’'
}

// endsWithAbbreviation reports whether the accumulated text ends in a
// protected abbreviation plus its period.
func endsWithAbbreviation(s string) bool {
	s = strings.TrimSuffix(s, ".")
	idx := strings.LastIndexFunc(s, func(r rune) bool {
		return unicode.IsSpace(r)
	})
	token := strings.ToLower(s[idx+1:])
	token = strings.TrimLeft(token, "(\"'“‘")
	return abbreviations[token]
}

// normaliseSentence collapses internal whitespace and trims the result.
func normaliseSentence(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Paragraphs splits text into paragraphs on blank-line boundaries.
// Heading lines are kept inside their paragraph; callers that want them
// separated use Headings.
func Paragraphs(text string) []string {
	blocks := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n\n")

	var paragraphs []string
	for _, block := range blocks {
		block = strings.TrimSpace(block)
		if block != "" {
			paragraphs = append(paragraphs, block)
		}
	}
	return paragraphs
}

// Headings extracts markdown-style heading lines ("#", "##", ...) with
// their markers stripped, in document order.
func Headings(text string) []string {
	var headings []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "#") {
			continue
		}
		heading := strings.TrimSpace(strings.TrimLeft(line, "#"))
		if heading != "" {
			headings = append(headings, heading)
		}
	}
	return headings
}

// IsHeadingLine reports whether the line carries a heading marker.
func IsHeadingLine(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "#")
}

// WordCount counts whitespace-delimited word tokens in the text.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// Words returns lower-cased word tokens with surrounding punctuation
// stripped. Tokens that are pure punctuation are dropped.
func Words(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	words := make([]string, 0, len(fields))
	for _, f := range fields {
		w := strings.TrimFunc(f, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r)
		})
		if w != "" {
			words = append(words, w)
		}
	}
	return words
}

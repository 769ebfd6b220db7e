package assistant

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const fence = "```"

var thinkBlock = regexp.MustCompile(`(?s)<think>.*?</think>`)

// fenceTags are the opener language tags stripped along with the fence.
var fenceTags = []string{"latex", "tex"}

// Sanitize turns a raw model reply into insertable document text. Think
// blocks go first so a fence following them is still found. The pass repeats
// until nothing changes, so Sanitize(Sanitize(x)) == Sanitize(x).
func Sanitize(raw string) string {
	text := raw
	for {
		next := sanitizeOnce(text)
		if next == text {
			return next
		}
		text = next
	}
}

func sanitizeOnce(text string) string {
	text = thinkBlock.ReplaceAllString(text, "")
	text = strings.TrimSpace(text)
	text = stripOpener(text)
	text = strings.TrimSuffix(text, fence)
	return strings.TrimSpace(text)
}

// stripOpener drops a leading fence and a latex or tex tag. A tag glued to
// more letters ("```latexfoo") stays, since that text is part of the reply.
func stripOpener(text string) string {
	rest, ok := strings.CutPrefix(text, fence)
	if !ok {
		return text
	}
	for _, tag := range fenceTags {
		if after, ok := strings.CutPrefix(rest, tag); ok && startsWithSpaceOrEmpty(after) {
			return after
		}
	}
	return rest
}

func startsWithSpaceOrEmpty(s string) bool {
	if s == "" {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsSpace(r)
}

// Package textfilter cleans LLM narration for display. Models sprinkle
// markdown emphasis and stray whitespace that render badly inside
// Discord embeds, and embed descriptions have a hard length cap.
package textfilter

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MaxNarrationLength matches Discord's embed description cap.
const MaxNarrationLength = 4096

var (
	// Bold/italic markers the narrator should not be using.
	emphasisRe = regexp.MustCompile(`\*{1,3}([^*]+)\*{1,3}`)

	// Runs of blank lines collapse to one paragraph break.
	blankRunRe = regexp.MustCompile(`\n{3,}`)

	spaceRunRe = regexp.MustCompile(`[ \t]{2,}`)
)

// CleanNarration normalizes narration text: markdown emphasis removed,
// whitespace collapsed, length capped at a sentence boundary when
// possible.
func CleanNarration(text string) string {
	text = strings.TrimSpace(text)
	text = emphasisRe.ReplaceAllString(text, "$1")
	text = spaceRunRe.ReplaceAllString(text, " ")
	text = blankRunRe.ReplaceAllString(text, "\n\n")

	if len(text) > MaxNarrationLength {
		text = truncateAtSentence(text, MaxNarrationLength)
	}
	return text
}

func truncateAtSentence(text string, limit int) string {
	// Back off to a rune boundary so the byte cut never splits a
	// multibyte character.
	for limit > 0 && !utf8.RuneStart(text[limit]) {
		limit--
	}
	cut := text[:limit]
	if idx := strings.LastIndexAny(cut, ".!?"); idx > limit/2 {
		return cut[:idx+1]
	}
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		return cut[:idx] + "…"
	}
	return cut
}

var nameCaser = cases.Title(language.Indonesian)

// TitleName renders a roster key as a display name: "bocchi" becomes
// "Bocchi", "nijika" becomes "Nijika".
func TitleName(name string) string {
	return nameCaser.String(name)
}

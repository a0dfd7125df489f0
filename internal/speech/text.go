package speech

import (
	"regexp"
	"strings"
)

// FallbackText is spoken when the markdown carries no readable content.
const FallbackText = "No readable markdown content was provided."

// Precompiled rewrite patterns. The passes are order-significant: each one
// operates on the output of the previous pass.
var (
	fencedCodePattern  = regexp.MustCompile("(?s)```.*?```")
	inlineCodePattern  = regexp.MustCompile("`([^`]*)`")
	imagePattern       = regexp.MustCompile(`!\[[^\]]*\]\([^)]+\)`)
	linkPattern        = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	headingPattern     = regexp.MustCompile(`(?m)^#{1,6}\s*`)
	bulletPattern      = regexp.MustCompile(`(?m)^\s*[-*+]\s+`)
	orderedPattern     = regexp.MustCompile(`(?m)^\s*\d+\.\s+`)
	punctuationPattern = regexp.MustCompile(`[*_~>]`)
	whitespacePattern  = regexp.MustCompile(`\s+`)
)

// ExtractSpeakableText strips markdown structure from the input and returns
// plain text suitable for speech synthesis. The result is never empty: if
// nothing readable remains, FallbackText is returned.
func ExtractSpeakableText(markdown string) string {
	text := fencedCodePattern.ReplaceAllString(markdown, " code block. ")
	text = inlineCodePattern.ReplaceAllString(text, "$1")
	text = imagePattern.ReplaceAllString(text, "")
	text = linkPattern.ReplaceAllString(text, "$1")
	text = headingPattern.ReplaceAllString(text, "")
	text = bulletPattern.ReplaceAllString(text, "")
	text = orderedPattern.ReplaceAllString(text, "")
	text = punctuationPattern.ReplaceAllString(text, "")
	text = whitespacePattern.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)

	if text == "" {
		return FallbackText
	}
	return text
}

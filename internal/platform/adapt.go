package platform

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// urlPattern matches http(s) URLs up to the next whitespace.
var urlPattern = regexp.MustCompile(`https?://\S+`)

// sentenceBreak matches sentence-terminating punctuation followed by
// whitespace, used for the LinkedIn paragraph style.
var sentenceBreak = regexp.MustCompile(`([.!?])\s+`)

// Adapt transforms authored content into a platform-safe variant.
//
// The rules run in a fixed order: truncation first, then link
// stripping, then platform formatting, then a final trim. Stripping
// before truncating could leave a dangling partial URL, and
// reformatting before stripping would place paragraph breaks around
// text that is about to be removed, so the order matters.
//
// Adapt is pure: same input always yields the same output. The
// LinkedIn rule is not idempotent (re-running it doubles paragraph
// breaks), so callers adapt a post once per platform and cache the
// result; already-adapted text must never be passed back in.
func Adapt(content string, p Platform) string {
	cfg := p.Config()
	adapted := content

	// Length limits are counted in characters, not bytes.
	if utf8.RuneCountInString(adapted) > cfg.MaxLength {
		runes := []rune(adapted)
		adapted = string(runes[:cfg.MaxLength-3]) + "..."
	}

	if !cfg.SupportsLinks {
		adapted = urlPattern.ReplaceAllString(adapted, "")
	}

	if p == LinkedIn {
		adapted = sentenceBreak.ReplaceAllString(adapted, "$1\n\n")
		// Paragraph breaks add a character per sentence boundary, which
		// can push already-truncated text back over the limit.
		if utf8.RuneCountInString(adapted) > cfg.MaxLength {
			runes := []rune(adapted)
			adapted = string(runes[:cfg.MaxLength-3]) + "..."
		}
	}

	return strings.TrimSpace(adapted)
}

// AdaptAll adapts content for each of the given platforms.
func AdaptAll(content string, platforms []Platform) map[Platform]string {
	adapted := make(map[Platform]string, len(platforms))
	for _, p := range platforms {
		adapted[p] = Adapt(content, p)
	}
	return adapted
}

package platform

import "regexp"

var (
	hashtagPattern = regexp.MustCompile(`#([a-zA-Z0-9_]+)`)
	mentionPattern = regexp.MustCompile(`@([a-zA-Z0-9_]+)`)
)

// Hashtags returns the hashtag names in content, without the '#'.
func Hashtags(content string) []string {
	return captures(hashtagPattern, content)
}

// Mentions returns the mentioned handles in content, without the '@'.
func Mentions(content string) []string {
	return captures(mentionPattern, content)
}

// URLs returns every http(s) URL found in content.
func URLs(content string) []string {
	return urlPattern.FindAllString(content, -1)
}

func captures(re *regexp.Regexp, content string) []string {
	matches := re.FindAllStringSubmatch(content, -1)
	if matches == nil {
		return nil
	}
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m[1])
	}
	return out
}

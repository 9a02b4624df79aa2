package platform

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestAdapt_NeverExceedsMaxLength(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"",
		"short post",
		strings.Repeat("a", 279),
		strings.Repeat("a", 280),
		strings.Repeat("a", 281),
		strings.Repeat("b", 5000),
		strings.Repeat("word. ", 1000),
		strings.Repeat("é", 400),
	}

	for _, p := range All() {
		for _, input := range inputs {
			got := Adapt(input, p)
			if n := utf8.RuneCountInString(got); n > p.Config().MaxLength {
				t.Errorf("Adapt(%d chars, %s) length = %d, max %d",
					utf8.RuneCountInString(input), p, n, p.Config().MaxLength)
			}
		}
	}
}

func TestAdapt_TruncationEndsWithEllipsis(t *testing.T) {
	t.Parallel()

	input := strings.Repeat("a", 500)
	got := Adapt(input, Twitter)

	if !strings.HasSuffix(got, "...") {
		t.Errorf("truncated content should end with ellipsis, got %q", got[len(got)-10:])
	}
	if utf8.RuneCountInString(got) != Twitter.Config().MaxLength {
		t.Errorf("truncated length = %d, want %d", utf8.RuneCountInString(got), Twitter.Config().MaxLength)
	}
}

func TestAdapt_PassthroughWhenWithinLimits(t *testing.T) {
	t.Parallel()

	// For a platform that supports links and has no formatting rule,
	// content within the limit comes back unchanged apart from trimming.
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"plain", "hello world", "hello world"},
		{"with_link", "check https://example.com out", "check https://example.com out"},
		{"leading_space", "  padded  ", "padded"},
		{"with_hashtag", "launch day #golang", "launch day #golang"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := Adapt(test.content, Twitter); got != test.want {
				t.Errorf("Adapt(%q, twitter) = %q, want %q", test.content, got, test.want)
			}
		})
	}
}

func TestAdapt_InstagramStripsLinks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{"http", "read this http://example.com now"},
		{"https", "read this https://example.com/path?q=1 now"},
		{"multiple", "a https://one.com b http://two.com c"},
		{"link_only", "https://example.com"},
		{"long_with_link", strings.Repeat("x", 2300) + " https://example.com"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := Adapt(test.content, Instagram)
			if strings.Contains(got, "http://") || strings.Contains(got, "https://") {
				t.Errorf("Instagram output still contains a link: %q", got)
			}
		})
	}
}

func TestAdapt_LinkStrippingDeletesNotReplaces(t *testing.T) {
	t.Parallel()

	got := Adapt("before https://example.com after", Instagram)
	want := "before  after"
	if got != want {
		t.Errorf("Adapt = %q, want %q", got, want)
	}
}

func TestAdapt_LinkedInParagraphBreaks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "period",
			content: "First sentence. Second sentence.",
			want:    "First sentence.\n\nSecond sentence.",
		},
		{
			name:    "mixed_punctuation",
			content: "Really? Yes! Great. Done",
			want:    "Really?\n\nYes!\n\nGreat.\n\nDone",
		},
		{
			name:    "no_trailing_whitespace",
			content: "No break here.",
			want:    "No break here.",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := Adapt(test.content, LinkedIn); got != test.want {
				t.Errorf("Adapt(%q, linkedin) = %q, want %q", test.content, got, test.want)
			}
		})
	}
}

func TestAdapt_TruncatesBeforeStripping(t *testing.T) {
	t.Parallel()

	// A URL that straddles the truncation point gets cut first, so the
	// stripping rule must still remove the partial URL remainder.
	max := Instagram.Config().MaxLength
	content := strings.Repeat("a", max-10) + " https://example.com/very/long/path"

	got := Adapt(content, Instagram)
	if strings.Contains(got, "http") {
		t.Errorf("output contains partial URL after truncation: %q", got[len(got)-40:])
	}
}

func TestAdapt_IdempotentForNonLinkedIn(t *testing.T) {
	t.Parallel()

	// Once content is within limits and stripped of disallowed links,
	// re-adapting produces the same output. LinkedIn is excluded: its
	// formatting rule compounds on re-application, which is why adapted
	// content is cached at schedule time.
	inputs := []string{
		"plain content",
		"with #tags and @mentions",
		strings.Repeat("long ", 100),
	}

	for _, p := range []Platform{Twitter, Instagram} {
		for _, input := range inputs {
			once := Adapt(input, p)
			twice := Adapt(once, p)
			if once != twice {
				t.Errorf("Adapt not idempotent on %s: %q != %q", p, once, twice)
			}
		}
	}
}

func TestAdaptAll(t *testing.T) {
	t.Parallel()

	content := "Launch day! Details at https://example.com"
	adapted := AdaptAll(content, []Platform{Twitter, Instagram})

	if len(adapted) != 2 {
		t.Fatalf("expected 2 variants, got %d", len(adapted))
	}
	if strings.Contains(adapted[Instagram], "https://") {
		t.Errorf("instagram variant kept a link: %q", adapted[Instagram])
	}
	if adapted[Twitter] != content {
		t.Errorf("twitter variant = %q, want unchanged content", adapted[Twitter])
	}
}

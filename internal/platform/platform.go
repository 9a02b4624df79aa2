// Package platform defines the supported social platforms and their
// content constraints, plus the content adaptation rules applied before
// a post is scheduled.
package platform

// Platform identifies one external social-media destination.
type Platform string

const (
	Twitter   Platform = "twitter"
	LinkedIn  Platform = "linkedin"
	Instagram Platform = "instagram"
)

// Config holds the per-platform content constraints.
// The set of platforms and their limits is fixed at build time.
type Config struct {
	Name                string `json:"name"`
	Icon                string `json:"icon"`
	Color               string `json:"color"`
	MaxLength           int    `json:"max_length"`
	SupportsImages      bool   `json:"supports_images"`
	SupportsVideo       bool   `json:"supports_video"`
	SupportsLinks       bool   `json:"supports_links"`
	HashtagsRecommended bool   `json:"hashtags_recommended"`
}

var configs = map[Platform]Config{
	Twitter: {
		Name:                "Twitter/X",
		Icon:                "𝕏",
		Color:               "#000000",
		MaxLength:           280,
		SupportsImages:      true,
		SupportsVideo:       true,
		SupportsLinks:       true,
		HashtagsRecommended: true,
	},
	LinkedIn: {
		Name:                "LinkedIn",
		Icon:                "💼",
		Color:               "#0A66C2",
		MaxLength:           3000,
		SupportsImages:      true,
		SupportsVideo:       true,
		SupportsLinks:       true,
		HashtagsRecommended: true,
	},
	Instagram: {
		Name:                "Instagram",
		Icon:                "📸",
		Color:               "#E4405F",
		MaxLength:           2200,
		SupportsImages:      true,
		SupportsVideo:       true,
		SupportsLinks:       false,
		HashtagsRecommended: true,
	},
}

// ordered list for deterministic iteration
var all = []Platform{Twitter, LinkedIn, Instagram}

// All returns the supported platforms in a stable order.
func All() []Platform {
	return append([]Platform{}, all...)
}

// IsValid reports whether p is one of the supported platforms.
func (p Platform) IsValid() bool {
	_, ok := configs[p]
	return ok
}

// Config returns the constraints for the platform.
// Calling it with an unknown platform is a programming error; inputs
// from the outside world must pass IsValid first.
func (p Platform) Config() Config {
	return configs[p]
}

// Parse converts a raw string into a Platform, reporting whether it is
// one of the supported values.
func Parse(s string) (Platform, bool) {
	p := Platform(s)
	return p, p.IsValid()
}

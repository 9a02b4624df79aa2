package platform

import "testing"

func TestRegistry_EveryPlatformHasConfig(t *testing.T) {
	t.Parallel()

	for _, p := range All() {
		cfg := p.Config()
		if cfg.Name == "" {
			t.Errorf("%s: missing display name", p)
		}
		if cfg.MaxLength <= 0 {
			t.Errorf("%s: max length must be positive, got %d", p, cfg.MaxLength)
		}
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  Platform
		ok    bool
	}{
		{"twitter", Twitter, true},
		{"linkedin", LinkedIn, true},
		{"instagram", Instagram, true},
		{"facebook", "", false},
		{"", "", false},
		{"Twitter", "", false},
	}

	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			got, ok := Parse(test.input)
			if ok != test.ok {
				t.Fatalf("Parse(%q) ok = %v, want %v", test.input, ok, test.ok)
			}
			if ok && got != test.want {
				t.Errorf("Parse(%q) = %v, want %v", test.input, got, test.want)
			}
		})
	}
}

func TestOnlyInstagramDisallowsLinks(t *testing.T) {
	t.Parallel()

	for _, p := range All() {
		wantLinks := p != Instagram
		if got := p.Config().SupportsLinks; got != wantLinks {
			t.Errorf("%s SupportsLinks = %v, want %v", p, got, wantLinks)
		}
	}
}

package scan

import "testing"

func TestMatcher_Match(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		path     string
		want     bool
	}{
		{"NoPatterns", nil, "a.jpg", false},
		{"ExtensionGlob", []string{"*.xmp"}, "IMG_1.xmp", true},
		{"ExtensionGlobNested", []string{"*.xmp"}, "2020/IMG_1.xmp", true},
		{"ExtensionGlobMiss", []string{"*.xmp"}, "IMG_1.jpg", false},
		{"DirectoryTopLevel", []string{".thumbnails/"}, ".thumbnails/a.jpg", true},
		{"DirectoryNested", []string{"@eaDir/"}, "2020/@eaDir/a.jpg", true},
		{"DirectoryNameOnlyInFile", []string{"raw/"}, "rawfile.jpg", false},
		{"AnyDepth", []string{"**/cache"}, "a/b/cache", true},
		{"AnyDepthComponent", []string{"**/cache"}, "a/cache/b.jpg", true},
		{"PathGlob", []string{"raw/*"}, "raw/a.cr2", true},
		{"PathSuffix", []string{"raw/a.cr2"}, "2020/raw/a.cr2", true},
		{"EmptyPatternIgnored", []string{""}, "a.jpg", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewMatcher(tt.patterns)
			if err != nil {
				t.Fatalf("NewMatcher failed: %v", err)
			}
			if got := m.Match(tt.path); got != tt.want {
				t.Errorf("Match(%q) with %v = %v, want %v", tt.path, tt.patterns, got, tt.want)
			}
		})
	}
}

func TestNewMatcher_InvalidPattern(t *testing.T) {
	if _, err := NewMatcher([]string{"[abc"}); err == nil {
		t.Error("expected error for malformed pattern")
	}
}

func TestMatcher_Nil(t *testing.T) {
	var m *Matcher
	if m.Match("a.jpg") {
		t.Error("nil matcher should match nothing")
	}
}

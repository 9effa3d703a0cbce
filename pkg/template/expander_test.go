package template

import (
	"testing"
	"time"

	"github.com/sdejongh/renamer/pkg/models"
)

func TestIndexText(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		index   int
		width   int
		want    string
	}{
		{"Padded", "$00$", 5, 3, "005"},
		{"Unpadded", "$0$", 5, 3, "5"},
		{"BothTokensPaddedFirst", "$00$-$0$", 5, 3, "005-5"},
		{"UnpaddedBeforePadded", "$0$-$00$", 7, 2, "7-07"},
		{"Surrounded", "#$00$", 12, 2, "#12"},
		{"WiderThanWidth", "$00$", 123, 2, "123"},
		{"NoTokens", "copy", 3, 1, "copy"},
		{"UnknownPlaceholderKept", "$000$", 4, 1, "$000$"},
		{"ZeroWidthTreatedAsOne", "$00$", 4, 0, "4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IndexText(tt.pattern, tt.index, tt.width); got != tt.want {
				t.Errorf("IndexText(%q, %d, %d) = %q, want %q", tt.pattern, tt.index, tt.width, got, tt.want)
			}
		})
	}
}

func TestPadWidth(t *testing.T) {
	tests := []struct {
		size int
		want int
	}{
		{0, 1},
		{1, 1},
		{9, 1},
		{10, 2},
		{99, 2},
		{100, 3},
		{1000, 4},
	}

	for _, tt := range tests {
		if got := PadWidth(tt.size); got != tt.want {
			t.Errorf("PadWidth(%d) = %d, want %d", tt.size, got, tt.want)
		}
	}
}

func TestExpanderExpand(t *testing.T) {
	ts := time.Date(2020, 1, 1, 9, 30, 0, 0, time.UTC)

	t.Run("AllSections", func(t *testing.T) {
		e := NewExpander(models.NamingTemplate{Separator: "_", DatePattern: "yyyy-MM-dd"})
		if got := e.Expand(ts, "Ann", "Trip", "02"); got != "2020-01-01_Ann_Trip_02" {
			t.Errorf("Expand() = %q", got)
		}
	})

	t.Run("EmptySectionsOmitted", func(t *testing.T) {
		e := NewExpander(models.NamingTemplate{Separator: "_", DatePattern: "yyyy-MM-dd"})
		if got := e.Expand(ts, "", "", ""); got != "2020-01-01" {
			t.Errorf("Expand() = %q, want only the date", got)
		}
	})

	t.Run("NoDatePattern", func(t *testing.T) {
		e := NewExpander(models.NamingTemplate{Separator: " - "})
		if got := e.Expand(ts, "", "Trip", "1"); got != "Trip - 1" {
			t.Errorf("Expand() = %q", got)
		}
	})

	t.Run("EverythingEmpty", func(t *testing.T) {
		e := NewExpander(models.NamingTemplate{Separator: "_"})
		if got := e.Expand(ts, "", "", ""); got != "" {
			t.Errorf("Expand() = %q, want empty", got)
		}
	})

	t.Run("Index", func(t *testing.T) {
		e := NewExpander(models.NamingTemplate{IndexPattern: "($00$)"})
		if got := e.Index(3, 2); got != "(03)" {
			t.Errorf("Index() = %q, want (03)", got)
		}
	})

	t.Run("SeparatorsInSectionsReplaced", func(t *testing.T) {
		e := NewExpander(models.NamingTemplate{Separator: "_", DatePattern: "dd/MM/yyyy"})
		got := e.Expand(ts, `Ann\Bob`, "a/b", "")
		if got != "01-01-2020_Ann-Bob_a-b" {
			t.Errorf("Expand() = %q, want 01-01-2020_Ann-Bob_a-b", got)
		}
		if ContainsSeparator(got) {
			t.Errorf("Expand() kept a path separator: %q", got)
		}
	})
}

func TestSampleDate(t *testing.T) {
	if got := SampleDate("yyyy-MM-dd"); got != "2006-12-31" {
		t.Errorf("SampleDate() = %q", got)
	}
	if !ContainsSeparator(SampleDate("dd/MM/yyyy")) {
		t.Error("a slash pattern should render a separator")
	}
	if ContainsSeparator(SampleDate("'at' HH'h'mm")) {
		t.Error("no separator expected")
	}
}

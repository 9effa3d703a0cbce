package template

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sdejongh/renamer/pkg/models"
)

// Index placeholders. The padded token must be replaced first since the
// unpadded one is a substring of it.
const (
	TokenPadded   = "$00$"
	TokenUnpadded = "$0$"
)

// Expander renders file names for one template
type Expander struct {
	tmpl models.NamingTemplate
}

// NewExpander creates an expander for tmpl
func NewExpander(tmpl models.NamingTemplate) *Expander {
	return &Expander{tmpl: tmpl}
}

// Expand renders a name without directory or extension.
// indexText is empty for files that are alone in their date group.
// Path separators in any section or the separator itself become '-'.
func (e *Expander) Expand(timestamp time.Time, people, event, indexText string) string {
	sections := make([]string, 0, 4)
	if e.tmpl.DatePattern != "" {
		sections = appendSection(sections, FormatDate(timestamp, e.tmpl.DatePattern))
	}
	sections = appendSection(sections, people)
	sections = appendSection(sections, event)
	sections = appendSection(sections, indexText)
	return separatorReplacer.Replace(strings.Join(sections, e.tmpl.Separator))
}

var separatorReplacer = strings.NewReplacer("/", "-", `\`, "-")

// ContainsSeparator reports whether s holds a path separator
func ContainsSeparator(s string) bool {
	return strings.ContainsAny(s, `/\`)
}

// SampleDate renders pattern for a fixed reference time, for validating
// patterns before any file is seen
func SampleDate(pattern string) string {
	return FormatDate(sampleTime, pattern)
}

var sampleTime = time.Date(2006, time.December, 31, 15, 4, 5, 0, time.UTC)

// Index renders the template's index pattern for a position in a group
func (e *Expander) Index(index, width int) string {
	return IndexText(e.tmpl.IndexPattern, index, width)
}

// IndexText substitutes the index placeholders of pattern.
// Unknown placeholders are left untouched.
func IndexText(pattern string, index, width int) string {
	if width < 1 {
		width = 1
	}
	text := strings.ReplaceAll(pattern, TokenPadded, fmt.Sprintf("%0*d", width, index))
	return strings.ReplaceAll(text, TokenUnpadded, strconv.Itoa(index))
}

// PadWidth returns the number of digits of groupSize, at least 1
func PadWidth(groupSize int) int {
	if groupSize < 1 {
		return 1
	}
	return len(strconv.Itoa(groupSize))
}

func appendSection(sections []string, s string) []string {
	if s == "" {
		return sections
	}
	return append(sections, s)
}

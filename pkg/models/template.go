package models

// Settings keys understood by TemplateFromSettings
const (
	KeySeparator    = "Separator"
	KeyDatePattern  = "DatePattern"
	KeyPeople       = "People"
	KeyEvent        = "Event"
	KeyIndexPattern = "IndexPattern"
)

// NamingTemplate describes how destination file names are built.
// It is passed by value and never modified during planning.
type NamingTemplate struct {
	Separator    string `yaml:"separator" toml:"separator" json:"separator"`
	DatePattern  string `yaml:"date_pattern" toml:"date_pattern" json:"date_pattern"`
	People       string `yaml:"people" toml:"people" json:"people"`
	Event        string `yaml:"event" toml:"event" json:"event"`
	IndexPattern string `yaml:"index_pattern" toml:"index_pattern" json:"index_pattern"`
}

// DefaultTemplate returns the template used when nothing is configured
func DefaultTemplate() NamingTemplate {
	return NamingTemplate{
		Separator:    "_",
		DatePattern:  "yyyy-MM-dd",
		IndexPattern: "$00$",
	}
}

// TemplateFromSettings builds a template from a flat key/value settings store.
// Missing keys yield empty sections.
func TemplateFromSettings(settings map[string]string) NamingTemplate {
	return NamingTemplate{
		Separator:    settings[KeySeparator],
		DatePattern:  settings[KeyDatePattern],
		People:       settings[KeyPeople],
		Event:        settings[KeyEvent],
		IndexPattern: settings[KeyIndexPattern],
	}
}

// Settings returns the template as a flat key/value map
func (t NamingTemplate) Settings() map[string]string {
	return map[string]string{
		KeySeparator:    t.Separator,
		KeyDatePattern:  t.DatePattern,
		KeyPeople:       t.People,
		KeyEvent:        t.Event,
		KeyIndexPattern: t.IndexPattern,
	}
}

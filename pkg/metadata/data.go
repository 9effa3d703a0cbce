// Package metadata extracts key/value metadata from media files and picks
// the timestamp a file should be named after.
package metadata

import (
	"sort"
	"strings"
)

// Data is the flat key/value metadata of one file
type Data map[string]string

// Keys returns the keys in sorted order
func (d Data) Keys() []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Value looks up a property. With fuzzy set, the first key in sorted order
// starting with property, case-insensitively, is used.
func (d Data) Value(property string, fuzzy bool) string {
	if !fuzzy {
		return d[property]
	}
	if matches := d.Matches(property); len(matches) > 0 {
		return matches[0]
	}
	return ""
}

// Matches returns the values of all keys starting with prefix,
// case-insensitively, in key order
func (d Data) Matches(prefix string) []string {
	lower := strings.ToLower(prefix)
	var values []string
	for _, k := range d.Keys() {
		if strings.HasPrefix(strings.ToLower(k), lower) {
			values = append(values, d[k])
		}
	}
	return values
}

// Merge copies the entries of other that d does not have yet
func (d Data) Merge(other Data) {
	for k, v := range other {
		if _, exists := d[k]; !exists {
			d[k] = v
		}
	}
}

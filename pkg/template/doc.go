// Package template renders destination file names from a NamingTemplate.
//
// A name is built from up to four sections, in order: the formatted date,
// the people text, the event text and the index text. Empty sections are
// dropped and the remaining ones are joined with the template separator.
// The rendered name carries neither a directory nor an extension.
package template

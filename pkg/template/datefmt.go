package template

import (
	"fmt"
	"strings"
	"time"
)

// FormatDate renders t with a token based date/time pattern.
//
// Supported tokens:
//
//	yyyy yy          year
//	MMMM MMM MM M    month name, short name, two digit, number
//	dddd ddd dd d    weekday name, short weekday, two digit day, day
//	HH H             hour 0-23
//	hh h             hour 1-12 when the pattern has AP/ap, 0-23 otherwise
//	mm m ss s        minute, second
//	zzz z            milliseconds
//	AP ap            AM/PM marker
//
// Text inside single quotes is copied verbatim and '' yields a quote.
// Any other character is copied as is.
func FormatDate(t time.Time, pattern string) string {
	runes := []rune(pattern)
	twelveHour := hasAmPm(runes)

	var b strings.Builder
	for i := 0; i < len(runes); {
		c := runes[i]

		if c == '\'' {
			i = copyQuoted(&b, runes, i)
			continue
		}

		n := runLength(runes, i)
		switch c {
		case 'y':
			switch {
			case n >= 4:
				fmt.Fprintf(&b, "%04d", t.Year())
				i += 4
			case n >= 2:
				fmt.Fprintf(&b, "%02d", t.Year()%100)
				i += 2
			default:
				b.WriteRune(c)
				i++
			}
		case 'M':
			i += writeNamed(&b, n, int(t.Month()), t.Month().String())
		case 'd':
			if n >= 3 {
				i += writeNamed(&b, n, t.Day(), t.Weekday().String())
			} else {
				i += writeNumber(&b, n, t.Day())
			}
		case 'H':
			i += writeNumber(&b, n, t.Hour())
		case 'h':
			hour := t.Hour()
			if twelveHour {
				hour %= 12
				if hour == 0 {
					hour = 12
				}
			}
			i += writeNumber(&b, n, hour)
		case 'm':
			i += writeNumber(&b, n, t.Minute())
		case 's':
			i += writeNumber(&b, n, t.Second())
		case 'z':
			ms := t.Nanosecond() / int(time.Millisecond)
			if n >= 3 {
				fmt.Fprintf(&b, "%03d", ms)
				i += 3
			} else {
				fmt.Fprintf(&b, "%d", ms)
				i++
			}
		case 'A', 'a':
			if i+1 < len(runes) && (runes[i+1] == 'P' || runes[i+1] == 'p') {
				marker := "AM"
				if t.Hour() >= 12 {
					marker = "PM"
				}
				if c == 'a' {
					marker = strings.ToLower(marker)
				}
				b.WriteString(marker)
				i += 2
			} else {
				b.WriteRune(c)
				i++
			}
		default:
			b.WriteRune(c)
			i++
		}
	}
	return b.String()
}

// runLength counts how many times runes[i] repeats from position i
func runLength(runes []rune, i int) int {
	n := 1
	for i+n < len(runes) && runes[i+n] == runes[i] {
		n++
	}
	return n
}

// writeNumber writes a one or two digit field and returns the consumed length
func writeNumber(b *strings.Builder, n, v int) int {
	if n >= 2 {
		fmt.Fprintf(b, "%02d", v)
		return 2
	}
	fmt.Fprintf(b, "%d", v)
	return 1
}

// writeNamed handles fields that also have a long and short name form
func writeNamed(b *strings.Builder, n, v int, name string) int {
	switch {
	case n >= 4:
		b.WriteString(name)
		return 4
	case n == 3:
		b.WriteString(name[:3])
		return 3
	default:
		return writeNumber(b, n, v)
	}
}

// copyQuoted copies a quoted literal starting at runes[i] and returns the
// index after it. An unterminated quote runs to the end of the pattern.
func copyQuoted(b *strings.Builder, runes []rune, i int) int {
	if i+1 < len(runes) && runes[i+1] == '\'' {
		b.WriteRune('\'')
		return i + 2
	}
	j := i + 1
	for j < len(runes) {
		if runes[j] == '\'' {
			if j+1 < len(runes) && runes[j+1] == '\'' {
				b.WriteRune('\'')
				j += 2
				continue
			}
			return j + 1
		}
		b.WriteRune(runes[j])
		j++
	}
	return j
}

func hasAmPm(runes []rune) bool {
	quoted := false
	for i := 0; i < len(runes); i++ {
		if runes[i] == '\'' {
			quoted = !quoted
			continue
		}
		if quoted || i+1 >= len(runes) {
			continue
		}
		if (runes[i] == 'A' || runes[i] == 'a') && (runes[i+1] == 'P' || runes[i+1] == 'p') {
			return true
		}
	}
	return false
}

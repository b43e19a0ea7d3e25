// Package timeparse turns free-text time phrases ("2:30 PM", "14:30",
// "noon", "in 20 minutes") into concrete wall-clock times.
//
// A small set of fixed patterns is tried first because they are cheap and
// unambiguous. Only when none of them match does the permissive
// natural-language parser get a chance to extract a time expression from
// the surrounding words.
package timeparse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// ParseError reports a phrase that no pattern and no fuzzy rule could turn
// into a time. It is always recovered locally and surfaced to the user as a
// corrective message.
type ParseError struct {
	Phrase string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("could not understand the time %q; try formats like '2:30 PM', '14:30' or 'noon'", e.Phrase)
}

// Clock is a time of day extracted from a phrase.
type Clock struct {
	Hour   int
	Minute int
}

// Fixed patterns in priority order. The first structurally matching pattern
// that also yields an in-range time wins.
var clockPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d{1,2}):(\d{2})\s*(am|pm)?`),
	regexp.MustCompile(`(\d{1,2})\s*(am|pm)`),
	regexp.MustCompile(`(\d{1,2})\.(\d{2})`),
}

var fuzzy *when.Parser

func init() {
	fuzzy = when.New(nil)
	fuzzy.Add(en.All...)
	fuzzy.Add(common.All...)
}

// Parse extracts a time of day from phrase using the fixed patterns only.
// A structurally valid but out-of-range match (hour 25, minute 90) is
// rejected and the next pattern is tried.
func Parse(phrase string) (Clock, error) {
	phrase = strings.ToLower(strings.TrimSpace(phrase))
	if phrase == "" {
		return Clock{}, &ParseError{Phrase: phrase}
	}

	for _, pat := range clockPatterns {
		m := pat.FindStringSubmatch(phrase)
		if m == nil {
			continue
		}

		hour, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		minute := 0
		meridiem := ""
		for _, g := range m[2:] {
			switch g {
			case "am", "pm":
				meridiem = g
			case "":
			default:
				if v, err := strconv.Atoi(g); err == nil {
					minute = v
				}
			}
		}

		if meridiem == "pm" && hour != 12 {
			hour += 12
		} else if meridiem == "am" && hour == 12 {
			hour = 0
		}

		if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
			continue
		}
		return Clock{Hour: hour, Minute: minute}, nil
	}

	return Clock{}, &ParseError{Phrase: phrase}
}

// Resolve turns phrase into an absolute time relative to now. Times of day
// are bound to today's date; a result in the past rolls forward to the next
// day, so the returned time is always >= now.
func Resolve(now time.Time, phrase string) (time.Time, error) {
	if clock, err := Parse(phrase); err == nil {
		at := time.Date(now.Year(), now.Month(), now.Day(), clock.Hour, clock.Minute, 0, 0, now.Location())
		if at.Before(now) {
			at = at.AddDate(0, 0, 1)
		}
		return at, nil
	}

	// Fall back to fuzzy natural-language extraction ("noon", "in 20
	// minutes", "tomorrow at five").
	r, err := fuzzy.Parse(phrase, now)
	if err != nil || r == nil {
		return time.Time{}, &ParseError{Phrase: strings.TrimSpace(phrase)}
	}
	at := r.Time.Truncate(time.Second)
	if at.Before(now) {
		at = at.AddDate(0, 0, 1)
	}
	return at, nil
}

package services

import (
	"strings"
	"time"
)

// Weekday and month names recognized in free-text availability. The parser
// is an approximate placeholder for a real natural-language date service;
// only the text -> 0-100 urgency contract is stable. Ordered tables, not
// maps: when text names several days or months the scan must visit them in
// a fixed order so identical input always scores the same.
var weekdayNames = []struct {
	name    string
	weekday time.Weekday
}{
	{"sunday", time.Sunday},
	{"monday", time.Monday},
	{"tuesday", time.Tuesday},
	{"wednesday", time.Wednesday},
	{"thursday", time.Thursday},
	{"friday", time.Friday},
	{"saturday", time.Saturday},
}

var monthNames = []struct {
	name  string
	month time.Month
}{
	{"january", time.January},
	{"february", time.February},
	{"march", time.March},
	{"april", time.April},
	{"may", time.May},
	{"june", time.June},
	{"july", time.July},
	{"august", time.August},
	{"september", time.September},
	{"october", time.October},
	{"november", time.November},
	{"december", time.December},
}

// availabilityScore parses free-text next-availability into urgency bands
// relative to now. Sooner availability scores higher; unparseable text
// scores a low default and empty text scores zero.
func availabilityScore(text string, now time.Time) int {
	lowered := strings.ToLower(strings.TrimSpace(text))
	if lowered == "" {
		return 0
	}

	switch {
	case strings.Contains(lowered, "today"), strings.Contains(lowered, "immediately"):
		return 100
	case strings.Contains(lowered, "tomorrow"):
		return 95
	}

	if score, ok := weekdayScore(lowered, now); ok {
		return score
	}

	switch {
	case strings.Contains(lowered, "this week"):
		return 80
	case strings.Contains(lowered, "next week"):
		return 60
	case strings.Contains(lowered, "within 2 weeks"), strings.Contains(lowered, "within two weeks"):
		return 50
	case strings.Contains(lowered, "next month"):
		return 40
	case strings.Contains(lowered, "within a month"), strings.Contains(lowered, "within 1 month"):
		return 35
	case strings.Contains(lowered, "within 2 months"), strings.Contains(lowered, "within two months"):
		return 25
	case strings.Contains(lowered, "within 3 months"), strings.Contains(lowered, "within three months"):
		return 15
	}

	if score, ok := monthScore(lowered, now); ok {
		return score
	}

	return 20
}

// weekdayScore maps a named weekday to 30-90 by how soon it arrives. Text
// naming several weekdays scores the soonest one.
func weekdayScore(text string, now time.Time) (int, bool) {
	best, found := 0, false
	for _, entry := range weekdayNames {
		if !strings.Contains(text, entry.name) {
			continue
		}

		daysUntil := int(entry.weekday-now.Weekday()+7) % 7
		if daysUntil == 0 {
			daysUntil = 7
		}

		score := 100 - daysUntil*10
		if score < 30 {
			score = 30
		}
		if score > best {
			best = score
		}
		found = true
	}
	return best, found
}

// monthScore maps a named month to 10-50 by how many months away it is.
// Text naming several months scores the soonest one.
func monthScore(text string, now time.Time) (int, bool) {
	best, found := 0, false
	for _, entry := range monthNames {
		if !strings.Contains(text, entry.name) {
			continue
		}

		monthsUntil := int(entry.month-now.Month()+12) % 12
		if monthsUntil == 0 {
			monthsUntil = 12
		}

		score := 50 - (monthsUntil-1)*10
		if score < 10 {
			score = 10
		}
		if score > best {
			best = score
		}
		found = true
	}
	return best, found
}

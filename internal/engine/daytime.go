package engine

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ThiagoPax/wa-autoresponder/internal/schedule"
)

// weekdayKeywords maps normalized Portuguese weekday names to their canonical
// day. Accented forms ("terça", "sábado") collapse to these after
// normalization, so one entry covers both variants.
var weekdayKeywords = []struct {
	keyword string
	day     schedule.Weekday
}{
	{"segunda", schedule.Monday},
	{"terca", schedule.Tuesday},
	{"quarta", schedule.Wednesday},
	{"quinta", schedule.Thursday},
	{"sexta", schedule.Friday},
	{"sabado", schedule.Saturday},
	{"domingo", schedule.Sunday},
}

// detectWeekdays returns the set of weekdays mentioned anywhere in the
// normalized text, in Monday-to-Sunday order. The day header often sits
// outside any block, so callers pass the full message.
func detectWeekdays(normText string) []schedule.Weekday {
	var days []schedule.Weekday
	for _, wk := range weekdayKeywords {
		if strings.Contains(normText, wk.keyword) {
			days = append(days, wk.day)
		}
	}
	return days
}

// timePattern captures "11h30", "9:05" and the like: 1-2 digit hour, "h" or
// ":" separator, exactly two digit minute.
var timePattern = regexp.MustCompile(`\b(\d{1,2})[h:](\d{2})\b`)

type clockTime struct {
	hour   int
	minute int
}

// extractTimes scans normalized text for time tokens in document order.
// Out-of-range captures are not valid time tokens and are dropped silently.
func extractTimes(normText string) []clockTime {
	matches := timePattern.FindAllStringSubmatch(normText, -1)
	times := make([]clockTime, 0, len(matches))
	for _, m := range matches {
		hour, err := strconv.Atoi(m[1])
		if err != nil || hour > 23 {
			continue
		}
		minute, err := strconv.Atoi(m[2])
		if err != nil || minute > 59 {
			continue
		}
		times = append(times, clockTime{hour: hour, minute: minute})
	}
	return times
}

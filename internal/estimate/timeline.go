package estimate

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// TimelinePlaceholder is returned when the duration text is empty.
const TimelinePlaceholder = "Timeline to be discussed"

var (
	shrinkModifiers = []string{"less than", "under", "within", "maximum", "max", "up to"}
	growModifiers   = []string{"more than", "over", "minimum", "at least"}
)

// Timeline normalizes a free-form duration into a day, week or month range.
func Timeline(duration string) string {
	lower := strings.ToLower(strings.TrimSpace(duration))

	days, ok := durationDays(lower)
	if ok {
		switch {
		case containsAny(lower, shrinkModifiers):
			days = int(math.Floor(float64(days) * 0.8))
		case containsAny(lower, growModifiers):
			days = int(math.Ceil(float64(days) * 1.2))
		}
		return dayBucket(days)
	}

	switch {
	case containsAny(lower, []string{"asap", "urgent", "immediately"}):
		return "1-3 days"
	case containsAny(lower, []string{"quick", "fast"}):
		return "3-7 days"
	case strings.Contains(lower, "flexible"):
		return "Flexible timeline"
	}

	if strings.TrimSpace(duration) == "" {
		return TimelinePlaceholder
	}
	return duration
}

// durationDays converts the first number and unit into a day count. A zero
// or missing number falls back to a per-unit default.
func durationDays(lower string) (int, bool) {
	n := 0
	if m := digits.FindString(lower); m != "" {
		n, _ = strconv.Atoi(m)
	}

	orDefault := func(def int) int {
		if n > 0 {
			return n
		}
		return def
	}

	switch {
	case strings.Contains(lower, "hour"):
		if n > 0 {
			return (n + 7) / 8, true
		}
		return 7, true
	case strings.Contains(lower, "day"):
		return orDefault(7), true
	case strings.Contains(lower, "week"):
		return orDefault(2) * 7, true
	case strings.Contains(lower, "month"):
		return orDefault(1) * 30, true
	default:
		return 0, false
	}
}

func dayBucket(days int) string {
	switch {
	case days <= 1:
		return "1-2 days"
	case days <= 3:
		return "2-3 days"
	case days <= 7:
		return fmt.Sprintf("%d-%d days", max(1, days-2), days+1)
	case days <= 10:
		return "1-2 weeks"
	case days <= 14:
		return "2 weeks"
	case days <= 30:
		weeks := days / 7
		if days%7 == 0 {
			return fmt.Sprintf("%d weeks", weeks)
		}
		return fmt.Sprintf("%d-%d weeks", weeks, weeks+1)
	case days <= 60:
		return "4-8 weeks"
	default:
		return fmt.Sprintf("%d months", (days+29)/30)
	}
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

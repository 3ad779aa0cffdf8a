package dialogue

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var clockPattern = regexp.MustCompile(`(\d{1,2}):?(\d{2})?`)

// ParseLooseTime interprets a loosely written time ("2pm", "02:00 p.m",
// "14:00", "10") against the offered slots. With no meridiem marker,
// an hour that matches no slot but whose PM counterpart does is read
// as PM. Returns "HH:MM" and false when no time can be extracted.
func ParseLooseTime(text string, slots []string) (string, bool) {
	lower := strings.ToLower(strings.TrimSpace(text))

	isPM := strings.Contains(lower, "pm") || strings.Contains(lower, "p.m")
	isAM := strings.Contains(lower, "am") || strings.Contains(lower, "a.m")

	digits := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == ':' {
			return r
		}
		return -1
	}, lower)

	m := clockPattern.FindStringSubmatch(digits)
	if m == nil {
		return "", false
	}
	hour, _ := strconv.Atoi(m[1])
	minute := m[2]
	if minute == "" {
		minute = "00"
	}

	switch {
	case isPM && hour < 12:
		hour += 12
	case isAM && hour == 12:
		hour = 0
	case !isPM && !isAM && hour >= 1 && hour <= 12:
		plain := fmt.Sprintf("%02d", hour)
		shifted := fmt.Sprintf("%02d", hour+12)
		if !anySlotHasHour(slots, plain) && anySlotHasHour(slots, shifted) {
			hour += 12
		}
	}

	return fmt.Sprintf("%02d:%s", hour, minute), true
}

func anySlotHasHour(slots []string, hour string) bool {
	for _, s := range slots {
		if strings.HasPrefix(s, hour) {
			return true
		}
	}
	return false
}

// To12Hour renders "14:30" as "02:30 PM" for user-facing messages.
func To12Hour(clock string) string {
	h, m, ok := strings.Cut(clock, ":")
	if !ok {
		return clock
	}
	hour, err := strconv.Atoi(h)
	if err != nil {
		return clock
	}
	meridiem := "AM"
	if hour >= 12 {
		meridiem = "PM"
	}
	hour = hour % 12
	if hour == 0 {
		hour = 12
	}
	return fmt.Sprintf("%02d:%s %s", hour, m, meridiem)
}

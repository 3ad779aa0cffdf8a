package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"citaflow/models"
)

// ExpandSlots turns configured availability entries into discrete
// slot start times. Entries are either single times ("08:00") or
// ranges ("08:00-12:00") stepped by the slot duration.
func ExpandSlots(hours []string, durationMins int) []string {
	if durationMins <= 0 {
		durationMins = 30
	}
	var slots []string
	for _, entry := range hours {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		start, end, isRange := strings.Cut(entry, "-")
		if !isRange {
			slots = append(slots, entry)
			continue
		}
		startMin, ok1 := parseClockMinutes(start)
		endMin, ok2 := parseClockMinutes(end)
		if !ok1 || !ok2 {
			continue
		}
		for cur := startMin; cur+durationMins <= endMin; cur += durationMins {
			slots = append(slots, fmt.Sprintf("%02d:%02d", cur/60, cur%60))
		}
	}
	return slots
}

// FilterBusy removes slots whose [start, start+duration) overlaps any
// busy interval. Callers fall back to the unfiltered set when the
// result is empty, so a fully booked check degrades instead of
// blocking the flow.
func FilterBusy(date string, slots []string, durationMins int, busy []models.BusyInterval, loc *time.Location) []string {
	if len(busy) == 0 {
		return slots
	}
	var free []string
	for _, slot := range slots {
		mins, ok := parseClockMinutes(slot)
		if !ok {
			continue
		}
		day, err := time.ParseInLocation("2006-01-02", date, loc)
		if err != nil {
			return slots
		}
		start := day.Add(time.Duration(mins) * time.Minute)
		end := start.Add(time.Duration(durationMins) * time.Minute)
		if !overlapsAny(start, end, busy) {
			free = append(free, slot)
		}
	}
	return free
}

func overlapsAny(start, end time.Time, busy []models.BusyInterval) bool {
	for _, b := range busy {
		if start.Before(b.End) && end.After(b.Start) {
			return true
		}
	}
	return false
}

func parseClockMinutes(s string) (int, bool) {
	h, m, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, false
	}
	hour, err1 := strconv.Atoi(h)
	minute, err2 := strconv.Atoi(m)
	if err1 != nil || err2 != nil || hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, false
	}
	return hour*60 + minute, true
}

package schedule

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"citaflow/models"
	"citaflow/utils"
)

// Weekday names and month labels as shown to contacts.
var (
	weekdayNames = []string{"Domingo", "Lunes", "Martes", "Miércoles", "Jueves", "Viernes", "Sábado"}
	monthNames   = []string{"Ene", "Feb", "Mar", "Abr", "May", "Jun", "Jul", "Ago", "Sep", "Oct", "Nov", "Dic"}

	isoDatePattern   = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
	localDatePattern = regexp.MustCompile(`(\d{1,2})[/\-](\d{1,2})(?:[/\-](\d{2,4}))?`)
	dayNumPattern    = regexp.MustCompile(`(\d{1,2})`)
)

// After this hour, today is no longer offered; candidates start tomorrow.
const sameDayCutoffHour = 17

// maxCandidateDates caps the list shown to the contact.
const maxCandidateDates = 10

func weekdayIndex(name string) int {
	folded := utils.FoldText(name)
	for i, wd := range weekdayNames {
		if strings.HasPrefix(utils.FoldText(wd), folded) || strings.HasPrefix(folded, utils.FoldText(wd)) {
			return i
		}
	}
	return -1
}

// UpcomingDates expands a teacher's configured weekdays into concrete
// candidate dates within the forward window, at most one per day.
func UpcomingDates(weekdays []string, weeksAhead int, now time.Time) []models.AvailableDate {
	targets := make(map[int]string, len(weekdays))
	for _, name := range weekdays {
		if idx := weekdayIndex(name); idx >= 0 {
			targets[idx] = name
		}
	}
	if len(targets) == 0 {
		return nil
	}

	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if now.Hour() >= sameDayCutoffHour {
		day = day.AddDate(0, 0, 1)
	}
	end := day.AddDate(0, 0, weeksAhead*7)

	var dates []models.AvailableDate
	for !day.After(end) && len(dates) < maxCandidateDates {
		if name, ok := targets[int(day.Weekday())]; ok {
			dates = append(dates, models.AvailableDate{
				Date:    day.Format("2006-01-02"),
				Display: name + " " + strconv.Itoa(day.Day()) + " " + monthNames[int(day.Month())-1],
				Weekday: name,
				Day:     day.Day(),
				Month:   monthNames[int(day.Month())-1],
			})
		}
		day = day.AddDate(0, 0, 1)
	}
	return dates
}

// ResolveDayDate turns free text into an absolute YYYY-MM-DD date:
// ISO dates pass through, "d/m" or "d-m-y" forms are normalized, and a
// weekday name resolves to its next future occurrence.
func ResolveDayDate(text string, now time.Time) string {
	text = strings.TrimSpace(text)
	if isoDatePattern.MatchString(text) {
		return text
	}
	if m := localDatePattern.FindStringSubmatch(text); m != nil {
		year := strconv.Itoa(now.Year())
		if m[3] != "" {
			year = m[3]
			if len(year) == 2 {
				year = "20" + year
			}
		}
		return year + "-" + pad2(m[2]) + "-" + pad2(m[1])
	}
	target := weekdayIndex(text)
	if target < 0 {
		return ""
	}
	daysUntil := target - int(now.Weekday())
	if daysUntil <= 0 {
		daysUntil += 7
	}
	return now.AddDate(0, 0, daysUntil).Format("2006-01-02")
}

// FindDateByText matches the contact's reply against the offered
// dates: exact display label first, then explicit day of month, then
// weekday name, then 1-based list index.
func FindDateByText(dates []models.AvailableDate, text string) *models.AvailableDate {
	folded := utils.FoldText(text)

	for i := range dates {
		if utils.FoldText(dates[i].Display) == folded {
			return &dates[i]
		}
	}
	if m := dayNumPattern.FindStringSubmatch(text); m != nil {
		dayNum, _ := strconv.Atoi(m[1])
		for i := range dates {
			if dates[i].Day == dayNum {
				return &dates[i]
			}
		}
	}
	for i := range dates {
		wd := utils.FoldText(dates[i].Weekday)
		if strings.Contains(wd, folded) || strings.Contains(folded, wd) {
			return &dates[i]
		}
	}
	if idx, err := strconv.Atoi(strings.TrimSpace(text)); err == nil && idx >= 1 && idx <= len(dates) {
		return &dates[idx-1]
	}
	return nil
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}

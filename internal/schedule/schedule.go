// Package schedule holds the school day's period timetable.
package schedule

import "time"

// Period is one timetable slot. Start and End are wall-clock times in
// the school's local day, HH:MM.
type Period struct {
	Number int
	Start  string
	End    string
}

// Timetable is the fixed period layout of a school day.
var Timetable = []Period{
	{Number: 1, Start: "09:15", End: "10:15"},
	{Number: 2, Start: "10:15", End: "11:15"},
	{Number: 3, Start: "11:45", End: "12:45"},
	{Number: 4, Start: "13:45", End: "14:40"},
	{Number: 5, Start: "14:40", End: "15:35"},
	{Number: 6, Start: "15:35", End: "16:30"},
}

// CurrentPeriod returns the period containing t, if any. A period spans
// [Start, End).
func CurrentPeriod(t time.Time) (int, bool) {
	minutes := t.Hour()*60 + t.Minute()

	for _, p := range Timetable {
		if minutes >= parseMinutes(p.Start) && minutes < parseMinutes(p.End) {
			return p.Number, true
		}
	}
	return 0, false
}

func parseMinutes(hhmm string) int {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return -1
	}
	return t.Hour()*60 + t.Minute()
}

package calendar

import "time"

// Week identifies an ISO week. Carrying the year disambiguates the
// rollover weeks at year boundaries.
type Week struct {
	Year int `json:"year"`
	Week int `json:"week"`
}

func WeekOf(t time.Time) Week {
	year, week := t.ISOWeek()
	return Week{Year: year, Week: week}
}

func (w Week) IsZero() bool {
	return w.Year == 0 && w.Week == 0
}

func (w Week) Equal(other Week) bool {
	return w.Year == other.Year && w.Week == other.Week
}

// Previous reports whether w is the ISO week immediately before other.
func (w Week) Previous(other Week) bool {
	return WeekOf(startOfISOWeek(other).AddDate(0, 0, -7)).Equal(w)
}

func startOfISOWeek(w Week) time.Time {
	// Jan 4 is always inside ISO week 1.
	t := time.Date(w.Year, time.January, 4, 0, 0, 0, 0, time.Local)
	for {
		y, wk := t.ISOWeek()
		if y == w.Year && wk == w.Week {
			break
		}
		if y < w.Year || (y == w.Year && wk < w.Week) {
			t = t.AddDate(0, 0, 7)
		} else {
			t = t.AddDate(0, 0, -7)
		}
	}
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	return t.AddDate(0, 0, 1-weekday)
}

func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// Yesterday reports whether prev falls on the calendar day directly
// before now.
func Yesterday(prev, now time.Time) bool {
	return SameDay(prev, now.AddDate(0, 0, -1))
}

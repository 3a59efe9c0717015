package calendar_test

import (
	"testing"
	"time"

	"vigil/internal/platform/calendar"
)

func TestWeekOf(t *testing.T) {
	t.Parallel()
	// 2026-01-01 is a Thursday, inside ISO week 1 of 2026.
	week := calendar.WeekOf(time.Date(2026, 1, 1, 0, 0, 0, 0, time.Local))
	if week.Year != 2026 || week.Week != 1 {
		t.Fatalf("unexpected week: %+v", week)
	}
	// 2023-01-01 is a Sunday, still ISO week 52 of 2022.
	week = calendar.WeekOf(time.Date(2023, 1, 1, 0, 0, 0, 0, time.Local))
	if week.Year != 2022 || week.Week != 52 {
		t.Fatalf("unexpected rollover week: %+v", week)
	}
}

func TestWeekPrevious(t *testing.T) {
	t.Parallel()
	mar2 := calendar.WeekOf(time.Date(2026, 3, 2, 0, 0, 0, 0, time.Local))
	mar9 := calendar.WeekOf(time.Date(2026, 3, 9, 0, 0, 0, 0, time.Local))
	mar16 := calendar.WeekOf(time.Date(2026, 3, 16, 0, 0, 0, 0, time.Local))

	if !mar2.Previous(mar9) {
		t.Fatalf("expected %+v to precede %+v", mar2, mar9)
	}
	if mar2.Previous(mar16) {
		t.Fatalf("two weeks apart is not adjacent")
	}
	if mar9.Previous(mar2) {
		t.Fatalf("previous is not symmetric")
	}

	// Year boundary: the week of 2022-12-26 precedes the week of
	// 2023-01-02.
	last2022 := calendar.WeekOf(time.Date(2022, 12, 26, 0, 0, 0, 0, time.Local))
	first2023 := calendar.WeekOf(time.Date(2023, 1, 2, 0, 0, 0, 0, time.Local))
	if !last2022.Previous(first2023) {
		t.Fatalf("expected %+v to precede %+v", last2022, first2023)
	}
}

func TestSameDayAndYesterday(t *testing.T) {
	t.Parallel()
	morning := time.Date(2026, 3, 10, 1, 0, 0, 0, time.Local)
	night := time.Date(2026, 3, 10, 23, 59, 0, 0, time.Local)
	nextDay := time.Date(2026, 3, 11, 0, 1, 0, 0, time.Local)

	if !calendar.SameDay(morning, night) {
		t.Fatalf("same calendar day expected")
	}
	if calendar.SameDay(night, nextDay) {
		t.Fatalf("different days two minutes apart")
	}
	if !calendar.Yesterday(night, nextDay) {
		t.Fatalf("expected yesterday across midnight")
	}
	if calendar.Yesterday(morning, night) {
		t.Fatalf("same day is not yesterday")
	}
}

func TestWeekIsZero(t *testing.T) {
	t.Parallel()
	if !(calendar.Week{}).IsZero() {
		t.Fatalf("zero value must report zero")
	}
	if (calendar.Week{Year: 2026, Week: 1}).IsZero() {
		t.Fatalf("populated week is not zero")
	}
}

package domain

import "fmt"

// Week identifies one of the two weeks of a sprint.
type Week string

const (
	Week1 Week = "week1"
	Week2 Week = "week2"
)

// Weeks lists the sprint weeks in display order.
var Weeks = []Week{Week1, Week2}

// Days lists the working days in display order. The names double as
// persisted keys, so they must never be translated at runtime.
var Days = []string{"Lunedì", "Martedì", "Mercoledì", "Giovedì", "Venerdì", "Sabato"}

// TimeSlots lists the hourly slots of a working day. 13:00-14:00 is lunch.
var TimeSlots = []string{
	"09:00-10:00", "10:00-11:00", "11:00-12:00", "12:00-13:00",
	"14:00-15:00", "15:00-16:00", "16:00-17:00", "17:00-18:00",
}

// DayGrid maps a time slot to the activity logged in it.
type DayGrid map[string]string

// WeekGrid maps a day name to its slots.
type WeekGrid map[string]DayGrid

// Timesheet holds the activity of every (week, day, slot) cell.
// The JSON form is {"week1": WeekGrid, "week2": WeekGrid}.
type Timesheet map[Week]WeekGrid

// Label returns the display name of the week.
func (w Week) Label() string {
	switch w {
	case Week1:
		return "Settimana 1"
	case Week2:
		return "Settimana 2"
	default:
		return string(w)
	}
}

// ParseWeek accepts "week1", "week2", "1" and "2".
func ParseWeek(s string) (Week, error) {
	switch s {
	case string(Week1), "1":
		return Week1, nil
	case string(Week2), "2":
		return Week2, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownWeek, s)
}

// IsDay reports whether day is one of Days.
func IsDay(day string) bool {
	for _, d := range Days {
		if d == day {
			return true
		}
	}
	return false
}

// IsTimeSlot reports whether slot is one of TimeSlots.
func IsTimeSlot(slot string) bool {
	for _, s := range TimeSlots {
		if s == slot {
			return true
		}
	}
	return false
}

// NewTimesheet returns a grid where every cell is empty.
func NewTimesheet() Timesheet {
	ts := make(Timesheet, len(Weeks))
	for _, w := range Weeks {
		ts[w] = newWeekGrid()
	}
	return ts
}

func newWeekGrid() WeekGrid {
	wg := make(WeekGrid, len(Days))
	for _, d := range Days {
		dg := make(DayGrid, len(TimeSlots))
		for _, s := range TimeSlots {
			dg[s] = ""
		}
		wg[d] = dg
	}
	return wg
}

// Normalize returns a total copy of ts: missing weeks, days and slots are
// filled with "", cells outside the fixed grid are dropped.
func (ts Timesheet) Normalize() Timesheet {
	out := NewTimesheet()
	for _, w := range Weeks {
		for _, d := range Days {
			for _, s := range TimeSlots {
				out[w][d][s] = ts.Get(w, d, s)
			}
		}
	}
	return out
}

// Clone returns a deep copy of the fixed grid.
func (ts Timesheet) Clone() Timesheet {
	return ts.Normalize()
}

// Get returns the activity at the cell, "" when the cell is missing.
func (ts Timesheet) Get(week Week, day, slot string) string {
	wg, ok := ts[week]
	if !ok {
		return ""
	}
	dg, ok := wg[day]
	if !ok {
		return ""
	}
	return dg[slot]
}

// Set overwrites a single cell. The coordinates must belong to the fixed grid.
func (ts Timesheet) Set(week Week, day, slot, value string) error {
	if err := ValidateCell(week, day, slot); err != nil {
		return err
	}
	if ts[week] == nil {
		ts[week] = newWeekGrid()
	}
	if ts[week][day] == nil {
		ts[week][day] = make(DayGrid, len(TimeSlots))
	}
	ts[week][day][slot] = value
	return nil
}

// ClearActivity resets every cell holding exactly activity and reports how
// many cells were cleared. Split cells such as "A/B" are left untouched.
func (ts Timesheet) ClearActivity(activity string) int {
	cleared := 0
	for _, w := range Weeks {
		for _, d := range Days {
			for _, s := range TimeSlots {
				if ts.Get(w, d, s) == activity {
					_ = ts.Set(w, d, s, "")
					cleared++
				}
			}
		}
	}
	return cleared
}

// Each visits every cell of the fixed grid in week, day, slot order.
func (ts Timesheet) Each(fn func(week Week, day, slot, activity string)) {
	for _, w := range Weeks {
		for _, d := range Days {
			for _, s := range TimeSlots {
				fn(w, d, s, ts.Get(w, d, s))
			}
		}
	}
}

// IsTotal reports whether every cell of the fixed grid is present.
func (ts Timesheet) IsTotal() bool {
	for _, w := range Weeks {
		wg, ok := ts[w]
		if !ok {
			return false
		}
		for _, d := range Days {
			dg, ok := wg[d]
			if !ok {
				return false
			}
			for _, s := range TimeSlots {
				if _, ok := dg[s]; !ok {
					return false
				}
			}
		}
	}
	return true
}

// ValidateCell checks that the coordinates belong to the fixed grid.
func ValidateCell(week Week, day, slot string) error {
	if week != Week1 && week != Week2 {
		return fmt.Errorf("%w: %q", ErrUnknownWeek, week)
	}
	if !IsDay(day) {
		return fmt.Errorf("%w: %q", ErrUnknownDay, day)
	}
	if !IsTimeSlot(slot) {
		return fmt.Errorf("%w: %q", ErrUnknownSlot, slot)
	}
	return nil
}

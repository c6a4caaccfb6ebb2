package timetable

import "fmt"

// Day identifies a teaching day within the fixed Monday-to-Friday week.
type Day int

const (
	Monday Day = iota
	Tuesday
	Wednesday
	Thursday
	Friday

	// NumDays is the number of teaching days in a week.
	NumDays = 5
)

var dayNames = [NumDays]string{"monday", "tuesday", "wednesday", "thursday", "friday"}

// String returns the lowercase day name.
func (d Day) String() string {
	if d < 0 || int(d) >= NumDays {
		return fmt.Sprintf("day(%d)", int(d))
	}
	return dayNames[d]
}

// Valid reports whether the day falls within the teaching week.
func (d Day) Valid() bool {
	return d >= 0 && int(d) < NumDays
}

// ParseDay resolves a lowercase day name back to its Day value.
func ParseDay(name string) (Day, error) {
	for i, candidate := range dayNames {
		if candidate == name {
			return Day(i), nil
		}
	}
	return 0, fmt.Errorf("unknown day %q", name)
}

// Slot identifies a one-hour teaching period. The week runs eight slots from
// 09:00 to 17:00; the 13:00 slot is the designated lunch period.
type Slot int

const (
	// NumSlots is the number of one-hour periods per teaching day.
	NumSlots = 8
	// LunchSlot is the 13:00-14:00 period reserved when the lunch break
	// constraint is active.
	LunchSlot Slot = 4
	// firstSlotHour is the starting hour of the first period.
	firstSlotHour = 9
)

// Valid reports whether the slot falls within the teaching day.
func (s Slot) Valid() bool {
	return s >= 0 && int(s) < NumSlots
}

// StartHour returns the 24h clock hour at which the slot begins.
func (s Slot) StartHour() int {
	return firstSlotHour + int(s)
}

// EndHour returns the 24h clock hour at which the slot ends.
func (s Slot) EndHour() int {
	return s.StartHour() + 1
}

// Label renders the slot in the "09:00 - 10:00" form used by grid views.
func (s Slot) Label() string {
	return fmt.Sprintf("%02d:00 - %02d:00", s.StartHour(), s.EndHour())
}

// Afternoon reports whether the slot starts at or after the lunch period.
func (s Slot) Afternoon() bool {
	return s >= LunchSlot
}

// Window describes a contiguous availability range on a single day, bounded
// by 24h clock hours.
type Window struct {
	Day       Day
	StartHour int
	EndHour   int
}

// Contains reports whether the given slot lies fully inside the window.
func (w Window) Contains(day Day, slot Slot) bool {
	return w.Day == day && w.StartHour <= slot.StartHour() && slot.EndHour() <= w.EndHour
}

// Valid reports whether the window describes a non-empty range on a teaching
// day within the grid's hours.
func (w Window) Valid() bool {
	return w.Day.Valid() &&
		w.StartHour < w.EndHour &&
		w.StartHour >= firstSlotHour &&
		w.EndHour <= firstSlotHour+NumSlots
}

// Availability is the set of windows during which an entity may be scheduled.
// An empty availability means the entity is unrestricted.
type Availability []Window

// Covers reports whether any window admits the given day and slot. Empty
// availability covers every cell.
func (a Availability) Covers(day Day, slot Slot) bool {
	if len(a) == 0 {
		return true
	}
	for _, w := range a {
		if w.Contains(day, slot) {
			return true
		}
	}
	return false
}

// Validate reports the first malformed window, if any.
func (a Availability) Validate() error {
	for i, w := range a {
		if !w.Valid() {
			return fmt.Errorf("availability window %d is malformed", i)
		}
	}
	return nil
}

package constraint

import (
	"fmt"

	"github.com/example/academic-scheduler/internal/timetable"
)

// NoDoubleBooking rejects a candidate whose faculty or room is already
// committed in the same (day, slot) column.
type NoDoubleBooking struct{}

// Name implements Constraint.
func (NoDoubleBooking) Name() string { return "no-double-booking" }

// Check implements Constraint.
func (NoDoubleBooking) Check(c Candidate) *Violation {
	a := c.Assignment
	if c.Grid != nil && c.Grid.FacultyBusy(a.FacultyID, a.Day, a.Slot) {
		return &Violation{
			Constraint: "no-double-booking",
			Reason:     fmt.Sprintf("faculty %s already teaches on %s at %s", a.FacultyID, a.Day, a.Slot.Label()),
		}
	}
	if c.Grid != nil && c.Grid.RoomBusy(a.RoomID, a.Day, a.Slot) {
		return &Violation{
			Constraint: "no-double-booking",
			Reason:     fmt.Sprintf("room %s already occupied on %s at %s", c.Room.Number, a.Day, a.Slot.Label()),
		}
	}
	return nil
}

// AvailabilityWindow rejects cells outside the faculty's or the room's
// declared availability.
type AvailabilityWindow struct{}

// Name implements Constraint.
func (AvailabilityWindow) Name() string { return "availability" }

// Check implements Constraint.
func (AvailabilityWindow) Check(c Candidate) *Violation {
	a := c.Assignment
	if !c.Faculty.Availability.Covers(a.Day, a.Slot) {
		return &Violation{
			Constraint: "availability",
			Reason:     fmt.Sprintf("faculty %s unavailable on %s at %s", a.FacultyID, a.Day, a.Slot.Label()),
		}
	}
	if !c.Room.Availability.Covers(a.Day, a.Slot) {
		return &Violation{
			Constraint: "availability",
			Reason:     fmt.Sprintf("room %s unavailable on %s at %s", c.Room.Number, a.Day, a.Slot.Label()),
		}
	}
	return nil
}

// Capacity rejects rooms smaller than the course's expected enrollment.
type Capacity struct{}

// Name implements Constraint.
func (Capacity) Name() string { return "capacity" }

// Check implements Constraint.
func (Capacity) Check(c Candidate) *Violation {
	if c.Room.Capacity < c.Course.Enrollment {
		return &Violation{
			Constraint: "capacity",
			Reason: fmt.Sprintf("room %s seats %d but course %s expects %d students",
				c.Room.Number, c.Room.Capacity, c.Course.Code, c.Course.Enrollment),
		}
	}
	return nil
}

// LunchBreak keeps the fixed daily lunch slot free for every cohort.
type LunchBreak struct{}

// Name implements Constraint.
func (LunchBreak) Name() string { return "lunch-break" }

// Check implements Constraint.
func (LunchBreak) Check(c Candidate) *Violation {
	if c.Assignment.Slot == timetable.LunchSlot {
		return &Violation{
			Constraint: "lunch-break",
			Reason:     fmt.Sprintf("slot %s is reserved for lunch", c.Assignment.Slot.Label()),
		}
	}
	return nil
}

// NoFridayAfternoon keeps Friday slots at or after the lunch period free.
type NoFridayAfternoon struct{}

// Name implements Constraint.
func (NoFridayAfternoon) Name() string { return "no-friday-afternoon" }

// Check implements Constraint.
func (NoFridayAfternoon) Check(c Candidate) *Violation {
	a := c.Assignment
	if a.Day == timetable.Friday && a.Slot.Afternoon() {
		return &Violation{
			Constraint: "no-friday-afternoon",
			Reason:     fmt.Sprintf("no sessions on friday at %s", a.Slot.Label()),
		}
	}
	return nil
}

// MaxPerDay bounds how many sessions of one course may land on a single day.
type MaxPerDay struct {
	Limit int
}

// Name implements Constraint.
func (MaxPerDay) Name() string { return "max-per-day" }

// Check implements Constraint.
func (m MaxPerDay) Check(c Candidate) *Violation {
	if c.Grid == nil {
		return nil
	}
	if c.Grid.CourseSessionsOn(c.Course.ID, c.Assignment.Day) >= m.Limit {
		return &Violation{
			Constraint: "max-per-day",
			Reason:     fmt.Sprintf("course %s already has %d sessions on %s", c.Course.Code, m.Limit, c.Assignment.Day),
		}
	}
	return nil
}

// SessionCount checks the committed assignments of a completed run carry
// exactly the configured number of sessions for every course. The solver
// enforces this structurally; the check backstops the verification pass.
func SessionCount(assignments []timetable.Assignment, courses []Course) *Violation {
	counts := make(map[string]int, len(courses))
	for _, a := range assignments {
		counts[a.CourseID]++
	}
	for _, course := range courses {
		if counts[course.ID] != course.Sessions {
			return &Violation{
				Constraint: "session-count",
				Reason: fmt.Sprintf("course %s has %d assignments, expected %d",
					course.Code, counts[course.ID], course.Sessions),
			}
		}
	}
	return nil
}

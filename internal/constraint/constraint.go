// Package constraint defines the predicates a legal assignment must satisfy.
// Each constraint is pure: it inspects a candidate assignment together with
// the read-only partial grid and either accepts it or names the violation.
// The active set composes by logical AND in a fixed evaluation order, which
// keeps solver behaviour deterministic.
package constraint

import (
	"fmt"

	"github.com/example/academic-scheduler/internal/timetable"
)

// Course is the solver-facing view of a registered course.
type Course struct {
	ID         string
	Code       string
	Sessions   int
	FacultyID  string
	Enrollment int
}

// Faculty is the solver-facing view of a registered faculty member.
type Faculty struct {
	ID           string
	Availability timetable.Availability
}

// Room is the solver-facing view of a registered room.
type Room struct {
	ID           string
	Number       string
	Capacity     int
	Availability timetable.Availability
}

// Candidate bundles a proposed assignment with the entities it references
// and the partial grid it would join.
type Candidate struct {
	Assignment timetable.Assignment
	Course     Course
	Faculty    Faculty
	Room       Room
	Grid       *timetable.Grid
}

// Violation names the constraint a candidate breaks and why.
type Violation struct {
	Constraint string
	Reason     string
}

func (v *Violation) Error() string {
	return fmt.Sprintf("constraint %s violated: %s", v.Constraint, v.Reason)
}

// Constraint is a pure predicate over a candidate assignment.
type Constraint interface {
	Name() string
	Check(c Candidate) *Violation
}

// Config selects which optional constraints participate in a generation run.
// The mandatory constraints are always active.
type Config struct {
	NoFridayAfternoon  bool
	MaxPerDay          bool
	MaxPerDayLimit     int
	LunchBreakReserved bool
}

// DefaultMaxPerDay bounds sessions of one course on a single day when the
// MaxPerDay constraint is active and no explicit limit is configured.
const DefaultMaxPerDay = 5

// Active returns the constraint set for the configuration in its fixed
// evaluation order.
func (cfg Config) Active() []Constraint {
	set := []Constraint{
		NoDoubleBooking{},
		AvailabilityWindow{},
		Capacity{},
	}
	if cfg.LunchBreakReserved {
		set = append(set, LunchBreak{})
	}
	if cfg.NoFridayAfternoon {
		set = append(set, NoFridayAfternoon{})
	}
	if cfg.MaxPerDay {
		limit := cfg.MaxPerDayLimit
		if limit <= 0 {
			limit = DefaultMaxPerDay
		}
		set = append(set, MaxPerDay{Limit: limit})
	}
	return set
}

// Names lists the active constraint names, used to label committed
// timetables with the configuration that produced them.
func (cfg Config) Names() []string {
	active := cfg.Active()
	names := make([]string, len(active))
	for i, c := range active {
		names[i] = c.Name()
	}
	return names
}

// Evaluate runs the candidate through every constraint and returns the first
// violation, or nil when the candidate is legal.
func Evaluate(set []Constraint, c Candidate) *Violation {
	for _, constraint := range set {
		if v := constraint.Check(c); v != nil {
			return v
		}
	}
	return nil
}

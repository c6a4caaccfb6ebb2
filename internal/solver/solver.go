// Package solver implements the backtracking constraint-satisfaction search
// that turns a registry snapshot into a committed weekly timetable. The
// search is strictly deterministic: identical inputs and constraint
// configuration always produce the identical assignment set.
package solver

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/example/academic-scheduler/internal/constraint"
	"github.com/example/academic-scheduler/internal/timetable"
)

// State tracks the lifecycle of a single solver run.
type State int32

const (
	// StateIdle means Solve has not been called yet.
	StateIdle State = iota
	// StateRunning means the search is in progress.
	StateRunning
	// StateCompleted means every required session was placed.
	StateCompleted
	// StateFailed means the search space was exhausted.
	StateFailed
	// StateCancelled means the caller aborted the run.
	StateCancelled
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	case StateCancelled:
		return "cancelled"
	}
	return fmt.Sprintf("state(%d)", int32(s))
}

var (
	// ErrCancelled is returned when the caller aborts a run before the
	// search terminates. Partial placements are discarded.
	ErrCancelled = errors.New("solver: run cancelled")
	// ErrNotIdle is returned when Solve is invoked on a Run that has
	// already started; a Run is single use.
	ErrNotIdle = errors.New("solver: run already started")
)

// UnsatisfiableError reports that no legal timetable exists for the input
// under the active constraints, naming the course the search gave up on.
type UnsatisfiableError struct {
	CourseID   string
	CourseCode string
}

func (e *UnsatisfiableError) Error() string {
	return fmt.Sprintf("solver: unsatisfiable, no legal placement for course %s", e.CourseCode)
}

// Input is the registry snapshot a run operates on. The solver does not
// read from live repositories; the caller resolves every reference up
// front so the run is isolated from concurrent registry mutation.
type Input struct {
	Courses []constraint.Course
	Faculty map[string]constraint.Faculty
	Rooms   []constraint.Room
	Config  constraint.Config
}

// session is one unit of placement work: the k-th weekly session of a course.
type session struct {
	course  constraint.Course
	ordinal int
}

// Run executes one generation attempt. Construct with New, call Solve once.
type Run struct {
	state atomic.Int32

	input       Input
	constraints []constraint.Constraint
	rooms       []constraint.Room
	grid        *timetable.Grid

	plan      []session
	cancelled bool
	deepest   int
}

// New prepares a run for the given snapshot.
func New(input Input) *Run {
	return &Run{
		input:       input,
		constraints: input.Config.Active(),
		grid:        timetable.NewGrid(),
	}
}

// State returns the current lifecycle state of the run.
func (r *Run) State() State {
	return State(r.state.Load())
}

// Solve performs the search and returns the complete assignment set in
// deterministic (day, slot) order. It returns *UnsatisfiableError when the
// search space is exhausted and ErrCancelled when ctx is cancelled between
// candidate attempts; in both cases no partial result is retained.
func (r *Run) Solve(ctx context.Context) ([]timetable.Assignment, error) {
	if !r.state.CompareAndSwap(int32(StateIdle), int32(StateRunning)) {
		return nil, ErrNotIdle
	}

	r.rooms = orderRooms(r.input.Rooms)
	courses := r.orderCourses()

	if unsat := r.checkFeasibility(courses); unsat != nil {
		r.state.Store(int32(StateFailed))
		return nil, unsat
	}

	r.plan = make([]session, 0)
	for _, course := range courses {
		for ordinal := range course.Sessions {
			r.plan = append(r.plan, session{course: course, ordinal: ordinal})
		}
	}

	if r.place(ctx, 0, cell{}) {
		assignments := r.grid.Assignments()
		if err := r.verify(assignments); err != nil {
			r.state.Store(int32(StateFailed))
			return nil, err
		}
		r.state.Store(int32(StateCompleted))
		return assignments, nil
	}

	if r.cancelled {
		r.state.Store(int32(StateCancelled))
		return nil, ErrCancelled
	}

	offending := r.plan[r.deepest].course
	r.state.Store(int32(StateFailed))
	return nil, &UnsatisfiableError{CourseID: offending.ID, CourseCode: offending.Code}
}

// cell orders grid positions lexicographically by (day, slot); it bounds
// candidate enumeration so that sessions of one course are placed in
// strictly increasing cell order, pruning permutations of identical
// placements without losing solutions.
type cell struct {
	day  timetable.Day
	slot timetable.Slot
}

func (c cell) before(o cell) bool {
	if c.day != o.day {
		return c.day < o.day
	}
	return c.slot < o.slot
}

func (r *Run) place(ctx context.Context, idx int, minCell cell) bool {
	if idx == len(r.plan) {
		return true
	}
	if ctx.Err() != nil {
		r.cancelled = true
		return false
	}

	sess := r.plan[idx]
	floor := cell{}
	if sess.ordinal > 0 {
		floor = minCell
	}

	for day := range timetable.NumDays {
		for slot := range timetable.NumSlots {
			pos := cell{timetable.Day(day), timetable.Slot(slot)}
			if sess.ordinal > 0 && !floor.before(pos) {
				continue
			}
			for _, room := range r.rooms {
				if r.cancelled {
					return false
				}
				cand := r.candidate(sess.course, room, pos)
				if v := constraint.Evaluate(r.constraints, cand); v != nil {
					continue
				}
				if err := r.grid.Commit(cand.Assignment); err != nil {
					continue
				}
				if r.place(ctx, idx+1, pos) {
					return true
				}
				r.grid.Uncommit(pos.day, pos.slot, room.ID)
				if r.cancelled {
					return false
				}
			}
		}
	}

	if idx > r.deepest {
		r.deepest = idx
	}
	return false
}

func (r *Run) candidate(course constraint.Course, room constraint.Room, pos cell) constraint.Candidate {
	return constraint.Candidate{
		Assignment: timetable.Assignment{
			CourseID:  course.ID,
			FacultyID: course.FacultyID,
			RoomID:    room.ID,
			Day:       pos.day,
			Slot:      pos.slot,
		},
		Course:  course,
		Faculty: r.input.Faculty[course.FacultyID],
		Room:    room,
		Grid:    r.grid,
	}
}

// verify replays every constraint over the finished assignment set on a
// fresh grid and re-checks exact session counts. A completed run must never
// surface an illegal timetable, so any failure here is an internal error.
func (r *Run) verify(assignments []timetable.Assignment) error {
	check := timetable.NewGrid()
	rooms := make(map[string]constraint.Room, len(r.rooms))
	for _, room := range r.rooms {
		rooms[room.ID] = room
	}
	courses := make(map[string]constraint.Course, len(r.input.Courses))
	for _, course := range r.input.Courses {
		courses[course.ID] = course
	}

	for _, a := range assignments {
		cand := constraint.Candidate{
			Assignment: a,
			Course:     courses[a.CourseID],
			Faculty:    r.input.Faculty[a.FacultyID],
			Room:       rooms[a.RoomID],
			Grid:       check,
		}
		if v := constraint.Evaluate(r.constraints, cand); v != nil {
			return fmt.Errorf("solver: completed run failed verification: %w", v)
		}
		if err := check.Commit(a); err != nil {
			return fmt.Errorf("solver: completed run failed verification: %w", err)
		}
	}
	if v := constraint.SessionCount(assignments, r.input.Courses); v != nil {
		return fmt.Errorf("solver: completed run failed verification: %w", v)
	}
	return nil
}

package timetable

import (
	"errors"
	"sort"
	"time"
)

var (
	// ErrCellOccupied is returned when a commit targets a (day, slot, room)
	// cell that already holds an assignment.
	ErrCellOccupied = errors.New("timetable: cell already occupied")
	// ErrFacultyBusy is returned when the faculty of a candidate assignment
	// is already committed elsewhere in the same (day, slot) column.
	ErrFacultyBusy = errors.New("timetable: faculty already busy in slot")
	// ErrCellOutOfRange is returned when an assignment addresses a cell
	// outside the fixed week.
	ErrCellOutOfRange = errors.New("timetable: cell outside the teaching week")
	// ErrCellEmpty is returned when an uncommit targets an empty cell.
	ErrCellEmpty = errors.New("timetable: cell is empty")
)

// Assignment binds one course session to a faculty member, a room, and a
// grid cell. Assignments are created by the solver and immutable once part
// of a committed timetable.
type Assignment struct {
	CourseID  string
	FacultyID string
	RoomID    string
	Day       Day
	Slot      Slot
}

// Key identifies one generated timetable.
type Key struct {
	Semester   string
	Department string
	Year       int
}

// Timetable is the committed set of assignments produced by a single
// successful generation run. It is replaced, never mutated.
type Timetable struct {
	Key         Key
	Version     int
	Constraints []string
	Assignments []Assignment
	GeneratedAt time.Time
}

// cellKey addresses one (day, slot, room) cell; each cell holds at most one
// assignment, so a room hosts at most one course per period.
type cellKey struct {
	day    Day
	slot   Slot
	roomID string
}

type occupant struct {
	id   string
	day  Day
	slot Slot
}

type courseDay struct {
	courseID string
	day      Day
}

// Grid is the fixed weekly matrix the solver commits candidate assignments
// into. Multiple assignments may share a (day, slot) column as long as
// their rooms and faculty differ. Side indexes keep faculty/room busy
// lookups and per-course daily counts O(1) and are updated atomically with
// every commit and uncommit.
type Grid struct {
	cells       map[cellKey]Assignment
	facultyBusy map[occupant]struct{}
	roomBusy    map[occupant]struct{}
	perDay      map[courseDay]int
}

// NewGrid returns an empty weekly grid.
func NewGrid() *Grid {
	return &Grid{
		cells:       make(map[cellKey]Assignment),
		facultyBusy: make(map[occupant]struct{}),
		roomBusy:    make(map[occupant]struct{}),
		perDay:      make(map[courseDay]int),
	}
}

// Commit places the assignment into its cell. The operation is atomic: on
// any error the grid and its indexes are unchanged.
func (g *Grid) Commit(a Assignment) error {
	if !a.Day.Valid() || !a.Slot.Valid() {
		return ErrCellOutOfRange
	}
	if g.RoomBusy(a.RoomID, a.Day, a.Slot) {
		return ErrCellOccupied
	}
	if g.FacultyBusy(a.FacultyID, a.Day, a.Slot) {
		return ErrFacultyBusy
	}

	g.cells[cellKey{a.Day, a.Slot, a.RoomID}] = a
	g.facultyBusy[occupant{a.FacultyID, a.Day, a.Slot}] = struct{}{}
	g.roomBusy[occupant{a.RoomID, a.Day, a.Slot}] = struct{}{}
	g.perDay[courseDay{a.CourseID, a.Day}]++
	return nil
}

// Uncommit removes the assignment at the given cell, restoring every index.
func (g *Grid) Uncommit(day Day, slot Slot, roomID string) error {
	if !day.Valid() || !slot.Valid() {
		return ErrCellOutOfRange
	}
	key := cellKey{day, slot, roomID}
	a, ok := g.cells[key]
	if !ok {
		return ErrCellEmpty
	}

	delete(g.cells, key)
	delete(g.facultyBusy, occupant{a.FacultyID, day, slot})
	delete(g.roomBusy, occupant{a.RoomID, day, slot})
	dayKey := courseDay{a.CourseID, day}
	if g.perDay[dayKey]--; g.perDay[dayKey] <= 0 {
		delete(g.perDay, dayKey)
	}
	return nil
}

// At returns the assignment occupying the (day, slot, room) cell, if any.
func (g *Grid) At(day Day, slot Slot, roomID string) (Assignment, bool) {
	a, ok := g.cells[cellKey{day, slot, roomID}]
	return a, ok
}

// FacultyBusy reports whether the faculty member already teaches in the
// (day, slot) column. O(1).
func (g *Grid) FacultyBusy(facultyID string, day Day, slot Slot) bool {
	_, ok := g.facultyBusy[occupant{facultyID, day, slot}]
	return ok
}

// RoomBusy reports whether the room is already occupied in the (day, slot)
// column. O(1).
func (g *Grid) RoomBusy(roomID string, day Day, slot Slot) bool {
	_, ok := g.roomBusy[occupant{roomID, day, slot}]
	return ok
}

// CourseSessionsOn returns how many sessions of the course are committed on
// the given day.
func (g *Grid) CourseSessionsOn(courseID string, day Day) int {
	return g.perDay[courseDay{courseID, day}]
}

// Len returns the number of committed assignments.
func (g *Grid) Len() int {
	return len(g.cells)
}

// Assignments returns the committed assignments in deterministic
// (day, slot, course, room) order.
func (g *Grid) Assignments() []Assignment {
	out := make([]Assignment, 0, len(g.cells))
	for _, a := range g.cells {
		out = append(out, a)
	}
	SortAssignments(out)
	return out
}

// SortAssignments orders assignments by (day, slot, course, room) so equal
// assignment sets always render and compare identically.
func SortAssignments(assignments []Assignment) {
	sort.Slice(assignments, func(i, j int) bool {
		if assignments[i].Day != assignments[j].Day {
			return assignments[i].Day < assignments[j].Day
		}
		if assignments[i].Slot != assignments[j].Slot {
			return assignments[i].Slot < assignments[j].Slot
		}
		if assignments[i].CourseID != assignments[j].CourseID {
			return assignments[i].CourseID < assignments[j].CourseID
		}
		return assignments[i].RoomID < assignments[j].RoomID
	})
}

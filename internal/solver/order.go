package solver

import (
	"sort"

	"github.com/example/academic-scheduler/internal/constraint"
	"github.com/example/academic-scheduler/internal/timetable"
)

// orderRooms fixes the candidate room order: smallest adequate room first,
// then room number. The ordering is part of the engine's determinism
// contract, not an optimisation detail.
func orderRooms(rooms []constraint.Room) []constraint.Room {
	ordered := make([]constraint.Room, len(rooms))
	copy(ordered, rooms)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Capacity != ordered[j].Capacity {
			return ordered[i].Capacity < ordered[j].Capacity
		}
		return ordered[i].Number < ordered[j].Number
	})
	return ordered
}

// orderCourses applies the most-constrained-variable heuristic: courses
// needing the most sessions come first, ties broken by fewest legal
// candidate cells, then by course code so the order is total.
func (r *Run) orderCourses() []constraint.Course {
	ordered := make([]constraint.Course, len(r.input.Courses))
	copy(ordered, r.input.Courses)

	candidates := make(map[string]int, len(ordered))
	for _, course := range ordered {
		candidates[course.ID] = len(r.legalCells(course))
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Sessions != ordered[j].Sessions {
			return ordered[i].Sessions > ordered[j].Sessions
		}
		if candidates[ordered[i].ID] != candidates[ordered[j].ID] {
			return candidates[ordered[i].ID] < candidates[ordered[j].ID]
		}
		return ordered[i].Code < ordered[j].Code
	})
	return ordered
}

// legalCells enumerates every (day, slot, room) triple the course could
// occupy on an empty grid, in the solver's canonical order.
func (r *Run) legalCells(course constraint.Course) []placement {
	empty := timetable.NewGrid()
	var cells []placement
	for day := range timetable.NumDays {
		for slot := range timetable.NumSlots {
			pos := cell{timetable.Day(day), timetable.Slot(slot)}
			for roomIdx, room := range r.rooms {
				cand := r.candidate(course, room, pos)
				cand.Grid = empty
				if constraint.Evaluate(r.constraints, cand) == nil {
					cells = append(cells, placement{pos: pos, room: roomIdx})
				}
			}
		}
	}
	return cells
}

// placement names a concrete (cell, room) option for a session.
type placement struct {
	pos  cell
	room int
}

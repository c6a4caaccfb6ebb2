package timetable

import (
	"slices"

	"github.com/samber/lo"
)

// Role enumerates the closed set of viewer roles. Each role maps to exactly
// one projection rule; there is no dynamic dispatch on role strings beyond
// this set.
type Role string

const (
	// RoleAdmin sees every assignment of a timetable.
	RoleAdmin Role = "admin"
	// RoleFaculty sees only the assignments it teaches.
	RoleFaculty Role = "faculty"
	// RoleStudent sees the assignments of its declared course list.
	RoleStudent Role = "student"
)

// Valid reports whether the role belongs to the closed set.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleFaculty, RoleStudent:
		return true
	}
	return false
}

// Viewer carries the identity a projection is scoped to. FacultyID is
// consulted for RoleFaculty; CourseIDs (supplied by the enrolment system)
// for RoleStudent.
type Viewer struct {
	Role      Role
	FacultyID string
	CourseIDs []string
}

// Project returns the assignments of the timetable visible to the viewer.
// The call is pure: the timetable is never mutated and repeated calls with
// the same inputs return identical sequences, ordered by (day, slot, course).
func Project(t Timetable, viewer Viewer) []Assignment {
	var visible []Assignment
	switch viewer.Role {
	case RoleAdmin:
		visible = slices.Clone(t.Assignments)
	case RoleFaculty:
		visible = lo.Filter(t.Assignments, func(a Assignment, _ int) bool {
			return a.FacultyID == viewer.FacultyID
		})
	case RoleStudent:
		declared := make(map[string]struct{}, len(viewer.CourseIDs))
		for _, id := range viewer.CourseIDs {
			declared[id] = struct{}{}
		}
		visible = lo.Filter(t.Assignments, func(a Assignment, _ int) bool {
			_, ok := declared[a.CourseID]
			return ok
		})
	default:
		return nil
	}

	SortAssignments(visible)
	return visible
}

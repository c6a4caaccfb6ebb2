package timetable

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTimetable() Timetable {
	return Timetable{
		Key:         Key{Semester: "spring-2025", Department: "computer-science", Year: 2},
		Version:     1,
		GeneratedAt: time.Date(2025, time.January, 6, 9, 0, 0, 0, time.UTC),
		Assignments: []Assignment{
			{CourseID: "cs101", FacultyID: "f1", RoomID: "r1", Day: Monday, Slot: 0},
			{CourseID: "math201", FacultyID: "f2", RoomID: "r2", Day: Monday, Slot: 1},
			{CourseID: "cs101", FacultyID: "f1", RoomID: "r1", Day: Wednesday, Slot: 0},
			{CourseID: "phy301", FacultyID: "f3", RoomID: "r3", Day: Thursday, Slot: 2},
		},
	}
}

func TestProjectAdminSeesAll(t *testing.T) {
	tt := sampleTimetable()
	got := Project(tt, Viewer{Role: RoleAdmin})
	assert.Len(t, got, 4)
}

func TestProjectFacultySeesOwnRows(t *testing.T) {
	tt := sampleTimetable()
	got := Project(tt, Viewer{Role: RoleFaculty, FacultyID: "f1"})
	require.Len(t, got, 2)
	for _, a := range got {
		assert.Equal(t, "f1", a.FacultyID)
	}
}

func TestProjectStudentSeesDeclaredCourses(t *testing.T) {
	tt := sampleTimetable()
	got := Project(tt, Viewer{Role: RoleStudent, CourseIDs: []string{"cs101", "phy301"}})
	require.Len(t, got, 3)
	for _, a := range got {
		assert.Contains(t, []string{"cs101", "phy301"}, a.CourseID)
	}
}

func TestProjectUnknownRoleSeesNothing(t *testing.T) {
	tt := sampleTimetable()
	assert.Empty(t, Project(tt, Viewer{Role: Role("visitor")}))
}

func TestProjectIsIdempotentAndPure(t *testing.T) {
	tt := sampleTimetable()
	before := make([]Assignment, len(tt.Assignments))
	copy(before, tt.Assignments)

	first := Project(tt, Viewer{Role: RoleFaculty, FacultyID: "f1"})
	second := Project(tt, Viewer{Role: RoleFaculty, FacultyID: "f1"})

	assert.Equal(t, first, second)
	assert.Equal(t, before, tt.Assignments, "projection must not mutate the timetable")

	// Mutating the projected slice must not leak back into the timetable.
	if len(first) > 0 {
		first[0].CourseID = "tampered"
		assert.Equal(t, before, tt.Assignments)
	}
}

func TestProjectOrdersDeterministically(t *testing.T) {
	tt := sampleTimetable()
	// Shuffle the stored order; the projection re-sorts.
	tt.Assignments[0], tt.Assignments[3] = tt.Assignments[3], tt.Assignments[0]

	got := Project(tt, Viewer{Role: RoleAdmin})
	require.Len(t, got, 4)
	assert.Equal(t, Monday, got[0].Day)
	assert.Equal(t, Slot(0), got[0].Slot)
	assert.Equal(t, Thursday, got[3].Day)
}

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleAdmin.Valid())
	assert.True(t, RoleFaculty.Valid())
	assert.True(t, RoleStudent.Valid())
	assert.False(t, Role("root").Valid())
}

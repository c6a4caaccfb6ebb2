package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGridCommitAndUncommit(t *testing.T) {
	g := NewGrid()
	a := Assignment{CourseID: "c1", FacultyID: "f1", RoomID: "r1", Day: Monday, Slot: 0}

	require.NoError(t, g.Commit(a))
	assert.Equal(t, 1, g.Len())
	assert.True(t, g.FacultyBusy("f1", Monday, 0))
	assert.True(t, g.RoomBusy("r1", Monday, 0))
	assert.Equal(t, 1, g.CourseSessionsOn("c1", Monday))

	got, ok := g.At(Monday, 0, "r1")
	require.True(t, ok)
	assert.Equal(t, a, got)

	require.NoError(t, g.Uncommit(Monday, 0, "r1"))
	assert.Equal(t, 0, g.Len())
	assert.False(t, g.FacultyBusy("f1", Monday, 0))
	assert.False(t, g.RoomBusy("r1", Monday, 0))
	assert.Equal(t, 0, g.CourseSessionsOn("c1", Monday))

	_, ok = g.At(Monday, 0, "r1")
	assert.False(t, ok)
}

func TestGridParallelAssignmentsShareColumn(t *testing.T) {
	g := NewGrid()
	require.NoError(t, g.Commit(Assignment{CourseID: "c1", FacultyID: "f1", RoomID: "r1", Day: Monday, Slot: 2}))
	require.NoError(t, g.Commit(Assignment{CourseID: "c2", FacultyID: "f2", RoomID: "r2", Day: Monday, Slot: 2}))

	assert.Equal(t, 2, g.Len())
	assert.True(t, g.RoomBusy("r1", Monday, 2))
	assert.True(t, g.RoomBusy("r2", Monday, 2))
}

func TestGridCommitRejectsOccupiedCell(t *testing.T) {
	g := NewGrid()
	require.NoError(t, g.Commit(Assignment{CourseID: "c1", FacultyID: "f1", RoomID: "r1", Day: Monday, Slot: 2}))

	err := g.Commit(Assignment{CourseID: "c2", FacultyID: "f2", RoomID: "r1", Day: Monday, Slot: 2})
	assert.ErrorIs(t, err, ErrCellOccupied)
	// Failed commit must leave the indexes untouched.
	assert.False(t, g.FacultyBusy("f2", Monday, 2))
	assert.Equal(t, 1, g.Len())
}

func TestGridCommitRejectsBusyFaculty(t *testing.T) {
	g := NewGrid()
	require.NoError(t, g.Commit(Assignment{CourseID: "c1", FacultyID: "f1", RoomID: "r1", Day: Tuesday, Slot: 3}))

	err := g.Commit(Assignment{CourseID: "c2", FacultyID: "f1", RoomID: "r2", Day: Tuesday, Slot: 3})
	assert.ErrorIs(t, err, ErrFacultyBusy)
	assert.False(t, g.RoomBusy("r2", Tuesday, 3))

	// Same faculty is free again in the next period.
	assert.NoError(t, g.Commit(Assignment{CourseID: "c2", FacultyID: "f1", RoomID: "r2", Day: Tuesday, Slot: 4}))
}

func TestGridCommitOutOfRange(t *testing.T) {
	g := NewGrid()
	assert.ErrorIs(t, g.Commit(Assignment{Day: Day(7), Slot: 0}), ErrCellOutOfRange)
	assert.ErrorIs(t, g.Commit(Assignment{Day: Monday, Slot: Slot(NumSlots)}), ErrCellOutOfRange)
	assert.ErrorIs(t, g.Uncommit(Monday, 0, "r1"), ErrCellEmpty)
}

func TestGridAssignmentsOrdered(t *testing.T) {
	g := NewGrid()
	require.NoError(t, g.Commit(Assignment{CourseID: "c1", FacultyID: "f1", RoomID: "r1", Day: Friday, Slot: 7}))
	require.NoError(t, g.Commit(Assignment{CourseID: "c2", FacultyID: "f2", RoomID: "r2", Day: Monday, Slot: 1}))
	require.NoError(t, g.Commit(Assignment{CourseID: "c3", FacultyID: "f3", RoomID: "r3", Day: Monday, Slot: 0}))

	got := g.Assignments()
	require.Len(t, got, 3)
	assert.Equal(t, "c3", got[0].CourseID)
	assert.Equal(t, "c2", got[1].CourseID)
	assert.Equal(t, "c1", got[2].CourseID)
}

func TestAvailabilityCovers(t *testing.T) {
	avail := Availability{
		{Day: Monday, StartHour: 9, EndHour: 12},
		{Day: Wednesday, StartHour: 14, EndHour: 17},
	}

	assert.True(t, avail.Covers(Monday, 0))   // 09:00-10:00
	assert.True(t, avail.Covers(Monday, 2))   // 11:00-12:00
	assert.False(t, avail.Covers(Monday, 3))  // 12:00-13:00
	assert.False(t, avail.Covers(Tuesday, 0)) // no window that day
	assert.True(t, avail.Covers(Wednesday, 5))
	assert.False(t, avail.Covers(Wednesday, 4)) // 13:00 starts before the window

	assert.True(t, Availability(nil).Covers(Friday, 7), "empty availability is unrestricted")
}

func TestWindowValidation(t *testing.T) {
	assert.NoError(t, Availability{{Day: Monday, StartHour: 9, EndHour: 17}}.Validate())
	assert.Error(t, Availability{{Day: Monday, StartHour: 12, EndHour: 10}}.Validate())
	assert.Error(t, Availability{{Day: Day(9), StartHour: 9, EndHour: 10}}.Validate())
	assert.Error(t, Availability{{Day: Monday, StartHour: 8, EndHour: 10}}.Validate())
}

func TestParseDay(t *testing.T) {
	day, err := ParseDay("wednesday")
	require.NoError(t, err)
	assert.Equal(t, Wednesday, day)
	assert.Equal(t, "wednesday", day.String())

	_, err = ParseDay("Wednesday")
	assert.Error(t, err)
	_, err = ParseDay("caturday")
	assert.Error(t, err)
}

func TestSlotLabels(t *testing.T) {
	assert.Equal(t, "09:00 - 10:00", Slot(0).Label())
	assert.Equal(t, "13:00 - 14:00", LunchSlot.Label())
	assert.Equal(t, "16:00 - 17:00", Slot(NumSlots-1).Label())
	assert.True(t, LunchSlot.Afternoon())
	assert.False(t, Slot(3).Afternoon())
}

package constraint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/academic-scheduler/internal/timetable"
)

func candidateAt(day timetable.Day, slot timetable.Slot) Candidate {
	return Candidate{
		Assignment: timetable.Assignment{
			CourseID:  "c1",
			FacultyID: "f1",
			RoomID:    "r1",
			Day:       day,
			Slot:      slot,
		},
		Course:  Course{ID: "c1", Code: "CS101", Sessions: 2, FacultyID: "f1", Enrollment: 30},
		Faculty: Faculty{ID: "f1"},
		Room:    Room{ID: "r1", Number: "301", Capacity: 60},
		Grid:    timetable.NewGrid(),
	}
}

func TestNoDoubleBooking(t *testing.T) {
	cand := candidateAt(timetable.Monday, 0)
	assert.Nil(t, NoDoubleBooking{}.Check(cand))

	t.Run("busy faculty", func(t *testing.T) {
		cand := candidateAt(timetable.Monday, 0)
		require.NoError(t, cand.Grid.Commit(timetable.Assignment{
			CourseID: "c2", FacultyID: "f1", RoomID: "r9", Day: timetable.Monday, Slot: 0,
		}))
		v := NoDoubleBooking{}.Check(cand)
		require.NotNil(t, v)
		assert.Equal(t, "no-double-booking", v.Constraint)
	})

	t.Run("busy room", func(t *testing.T) {
		cand := candidateAt(timetable.Monday, 0)
		require.NoError(t, cand.Grid.Commit(timetable.Assignment{
			CourseID: "c2", FacultyID: "f9", RoomID: "r1", Day: timetable.Monday, Slot: 0,
		}))
		v := NoDoubleBooking{}.Check(cand)
		require.NotNil(t, v)
		assert.Equal(t, "no-double-booking", v.Constraint)
	})

	t.Run("other column is free", func(t *testing.T) {
		cand := candidateAt(timetable.Monday, 1)
		require.NoError(t, cand.Grid.Commit(timetable.Assignment{
			CourseID: "c2", FacultyID: "f1", RoomID: "r1", Day: timetable.Monday, Slot: 0,
		}))
		assert.Nil(t, NoDoubleBooking{}.Check(cand))
	})
}

func TestAvailabilityWindow(t *testing.T) {
	morningOnly := timetable.Availability{{Day: timetable.Monday, StartHour: 9, EndHour: 12}}

	t.Run("faculty outside window", func(t *testing.T) {
		cand := candidateAt(timetable.Monday, 5)
		cand.Faculty.Availability = morningOnly
		v := AvailabilityWindow{}.Check(cand)
		require.NotNil(t, v)
		assert.Equal(t, "availability", v.Constraint)
	})

	t.Run("room outside window", func(t *testing.T) {
		cand := candidateAt(timetable.Tuesday, 0)
		cand.Room.Availability = morningOnly
		v := AvailabilityWindow{}.Check(cand)
		require.NotNil(t, v)
	})

	t.Run("inside both windows", func(t *testing.T) {
		cand := candidateAt(timetable.Monday, 1)
		cand.Faculty.Availability = morningOnly
		cand.Room.Availability = morningOnly
		assert.Nil(t, AvailabilityWindow{}.Check(cand))
	})

	t.Run("unrestricted entities", func(t *testing.T) {
		cand := candidateAt(timetable.Friday, 7)
		assert.Nil(t, AvailabilityWindow{}.Check(cand))
	})
}

func TestCapacity(t *testing.T) {
	cand := candidateAt(timetable.Monday, 0)
	cand.Course.Enrollment = 80
	cand.Room.Capacity = 60
	v := Capacity{}.Check(cand)
	require.NotNil(t, v)
	assert.Equal(t, "capacity", v.Constraint)

	cand.Room.Capacity = 80
	assert.Nil(t, Capacity{}.Check(cand))
}

func TestLunchBreak(t *testing.T) {
	v := LunchBreak{}.Check(candidateAt(timetable.Monday, timetable.LunchSlot))
	require.NotNil(t, v)
	assert.Equal(t, "lunch-break", v.Constraint)

	assert.Nil(t, LunchBreak{}.Check(candidateAt(timetable.Monday, timetable.LunchSlot+1)))
}

func TestNoFridayAfternoon(t *testing.T) {
	v := NoFridayAfternoon{}.Check(candidateAt(timetable.Friday, 6))
	require.NotNil(t, v)
	assert.Equal(t, "no-friday-afternoon", v.Constraint)

	assert.Nil(t, NoFridayAfternoon{}.Check(candidateAt(timetable.Friday, 2)), "friday morning is fine")
	assert.Nil(t, NoFridayAfternoon{}.Check(candidateAt(timetable.Thursday, 6)), "other afternoons are fine")
}

func TestMaxPerDay(t *testing.T) {
	cand := candidateAt(timetable.Monday, 3)
	for slot := range 2 {
		require.NoError(t, cand.Grid.Commit(timetable.Assignment{
			CourseID: "c1", FacultyID: "f1", RoomID: "r1", Day: timetable.Monday, Slot: timetable.Slot(slot),
		}))
	}

	assert.Nil(t, MaxPerDay{Limit: 3}.Check(cand))

	v := MaxPerDay{Limit: 2}.Check(cand)
	require.NotNil(t, v)
	assert.Equal(t, "max-per-day", v.Constraint)
}

func TestSessionCount(t *testing.T) {
	courses := []Course{
		{ID: "c1", Code: "CS101", Sessions: 2},
		{ID: "c2", Code: "MATH201", Sessions: 1},
	}
	assignments := []timetable.Assignment{
		{CourseID: "c1", Day: timetable.Monday, Slot: 0},
		{CourseID: "c1", Day: timetable.Wednesday, Slot: 0},
		{CourseID: "c2", Day: timetable.Tuesday, Slot: 1},
	}

	assert.Nil(t, SessionCount(assignments, courses))

	v := SessionCount(assignments[:2], courses)
	require.NotNil(t, v)
	assert.Equal(t, "session-count", v.Constraint)
}

func TestConfigActiveOrderIsFixed(t *testing.T) {
	cfg := Config{NoFridayAfternoon: true, MaxPerDay: true, LunchBreakReserved: true}
	names := cfg.Names()
	assert.Equal(t, []string{
		"no-double-booking",
		"availability",
		"capacity",
		"lunch-break",
		"no-friday-afternoon",
		"max-per-day",
	}, names)

	assert.Equal(t, []string{"no-double-booking", "availability", "capacity"}, Config{}.Names())
}

func TestEvaluateReturnsFirstViolation(t *testing.T) {
	cfg := Config{LunchBreakReserved: true}
	cand := candidateAt(timetable.Monday, timetable.LunchSlot)
	cand.Course.Enrollment = 500

	v := Evaluate(cfg.Active(), cand)
	require.NotNil(t, v)
	assert.Equal(t, "capacity", v.Constraint, "mandatory constraints are checked before optional ones")
}

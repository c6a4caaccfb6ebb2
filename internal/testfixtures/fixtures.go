// Package testfixtures provides deterministic clocks, identifier generators,
// and catalog fixtures shared by tests across packages.
package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/academic-scheduler/internal/persistence"
	"github.com/example/academic-scheduler/internal/timetable"
)

var (
	facultyCounter uint64
	roomCounter    uint64
	courseCounter  uint64
)

var referenceTime = time.Date(2025, time.September, 1, 9, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// WeekdayWindows returns one availability window per teaching day covering
// the given hours.
func WeekdayWindows(startHour, endHour int) []persistence.Window {
	windows := make([]persistence.Window, 0, timetable.NumDays)
	for day := 0; day < timetable.NumDays; day++ {
		windows = append(windows, persistence.Window{Day: day, StartHour: startHour, EndHour: endHour})
	}
	return windows
}

// FacultyOption configures the generated faculty fixture.
type FacultyOption func(*persistence.Faculty)

// NewFacultyFixture returns a deterministic faculty record with optional
// overrides. The default record is available the full teaching week.
func NewFacultyFixture(opts ...FacultyOption) persistence.Faculty {
	idx := atomic.AddUint64(&facultyCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	fixture := persistence.Faculty{
		ID:           fmt.Sprintf("faculty-%03d", idx),
		Name:         fmt.Sprintf("Dr. Faculty %03d", idx),
		Email:        fmt.Sprintf("faculty-%03d@example.edu", idx),
		Department:   "CSE",
		Availability: WeekdayWindows(9, 17),
		CreatedAt:    created,
		UpdatedAt:    created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithFacultyID overrides the generated faculty ID.
func WithFacultyID(id string) FacultyOption {
	return func(f *persistence.Faculty) {
		f.ID = id
	}
}

// WithFacultyDepartment overrides the department.
func WithFacultyDepartment(department string) FacultyOption {
	return func(f *persistence.Faculty) {
		f.Department = department
	}
}

// WithFacultyAvailability overrides the availability windows.
func WithFacultyAvailability(windows []persistence.Window) FacultyOption {
	return func(f *persistence.Faculty) {
		f.Availability = windows
	}
}

// RoomOption configures the generated room fixture.
type RoomOption func(*persistence.Room)

// NewRoomFixture returns a deterministic lecture-hall record with optional
// overrides.
func NewRoomFixture(opts ...RoomOption) persistence.Room {
	idx := atomic.AddUint64(&roomCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	fixture := persistence.Room{
		ID:        fmt.Sprintf("room-%03d", idx),
		Number:    fmt.Sprintf("B-%03d", idx),
		Type:      "lecture_hall",
		Capacity:  80,
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithRoomID overrides the generated room ID.
func WithRoomID(id string) RoomOption {
	return func(r *persistence.Room) {
		r.ID = id
	}
}

// WithRoomCapacity overrides the seat count.
func WithRoomCapacity(capacity int) RoomOption {
	return func(r *persistence.Room) {
		r.Capacity = capacity
	}
}

// CourseOption configures the generated course fixture.
type CourseOption func(*persistence.Course)

// NewCourseFixture returns a deterministic course record bound to the given
// faculty ID, with optional overrides.
func NewCourseFixture(facultyID string, opts ...CourseOption) persistence.Course {
	idx := atomic.AddUint64(&courseCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	fixture := persistence.Course{
		ID:         fmt.Sprintf("course-%03d", idx),
		Code:       fmt.Sprintf("CS%03d", 100+idx),
		Name:       fmt.Sprintf("Course %03d", idx),
		Department: "CSE",
		Year:       3,
		Credits:    3,
		Sessions:   2,
		FacultyID:  facultyID,
		Enrollment: 40,
		CreatedAt:  created,
		UpdatedAt:  created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithCourseCode overrides the course code.
func WithCourseCode(code string) CourseOption {
	return func(c *persistence.Course) {
		c.Code = code
	}
}

// WithCourseSessions overrides the weekly session count.
func WithCourseSessions(sessions int) CourseOption {
	return func(c *persistence.Course) {
		c.Sessions = sessions
	}
}

// WithCourseEnrollment overrides the enrolled head count.
func WithCourseEnrollment(enrollment int) CourseOption {
	return func(c *persistence.Course) {
		c.Enrollment = enrollment
	}
}

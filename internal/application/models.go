package application

import (
	"time"

	"github.com/example/academic-scheduler/internal/timetable"
)

// Principal represents the authenticated user invoking a service method.
type Principal struct {
	UserID string
	Role   timetable.Role
}

// IsAdmin reports whether the principal may mutate registry data and run
// generations.
func (p Principal) IsAdmin() bool {
	return p.Role == timetable.RoleAdmin
}

// RoomType classifies a room for catalog purposes. Scheduling treats every
// type identically; the type is carried for display and reporting.
type RoomType string

const (
	RoomTypeLectureHall RoomType = "lecture_hall"
	RoomTypeComputerLab RoomType = "computer_lab"
	RoomTypeClassroom   RoomType = "classroom"
	RoomTypeLaboratory  RoomType = "laboratory"
)

// Valid reports whether the room type is one of the known values.
func (t RoomType) Valid() bool {
	switch t {
	case RoomTypeLectureHall, RoomTypeComputerLab, RoomTypeClassroom, RoomTypeLaboratory:
		return true
	}
	return false
}

// FacultyInput captures caller provided faculty fields.
type FacultyInput struct {
	Name         string
	Email        string
	Department   string
	Availability []timetable.Window
}

// Faculty represents a registered faculty member.
type Faculty struct {
	ID           string
	Name         string
	Email        string
	Department   string
	Availability []timetable.Window
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RoomInput captures caller provided room fields.
type RoomInput struct {
	Number       string
	Type         RoomType
	Capacity     int
	Availability []timetable.Window
}

// Room represents a catalog entry for a teaching room.
type Room struct {
	ID           string
	Number       string
	Type         RoomType
	Capacity     int
	Availability []timetable.Window
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CourseInput captures caller provided course fields.
type CourseInput struct {
	Code       string
	Name       string
	Department string
	Year       int
	Credits    int
	Sessions   int
	FacultyID  string
	Enrollment int
}

// Course represents a registered course offering.
type Course struct {
	ID         string
	Code       string
	Name       string
	Department string
	Year       int
	Credits    int
	Sessions   int
	FacultyID  string
	Enrollment int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// CreateFacultyParams wraps the data required to register a faculty member.
type CreateFacultyParams struct {
	Principal Principal
	Input     FacultyInput
}

// UpdateFacultyParams wraps the data required to update a faculty member.
type UpdateFacultyParams struct {
	Principal Principal
	FacultyID string
	Input     FacultyInput
}

// CreateRoomParams wraps the data required to register a room.
type CreateRoomParams struct {
	Principal Principal
	Input     RoomInput
}

// UpdateRoomParams wraps the data required to update a room.
type UpdateRoomParams struct {
	Principal Principal
	RoomID    string
	Input     RoomInput
}

// CreateCourseParams wraps the data required to register a course.
type CreateCourseParams struct {
	Principal Principal
	Input     CourseInput
}

// UpdateCourseParams wraps the data required to update a course.
type UpdateCourseParams struct {
	Principal Principal
	CourseID  string
	Input     CourseInput
}

// ConstraintFlags selects the optional constraints for a generation run.
// The hard constraints always apply.
type ConstraintFlags struct {
	NoFridayAfternoon  bool
	MaxPerDay          bool
	MaxPerDayLimit     int
	LunchBreakReserved bool
}

// GenerateTimetableParams wraps the data required to run a generation.
type GenerateTimetableParams struct {
	Principal  Principal
	Semester   string
	Department string
	Year       int
	Flags      ConstraintFlags
}

// GetTimetableParams wraps the data required to read a timetable. CourseIDs
// scope a student view to the courses the student is enrolled in; the field
// is ignored for other roles.
type GetTimetableParams struct {
	Principal  Principal
	Semester   string
	Department string
	Year       int
	CourseIDs  []string
}

// DeleteTimetableParams wraps the data required to delete a stored timetable.
type DeleteTimetableParams struct {
	Principal  Principal
	Semester   string
	Department string
	Year       int
}

// Timetable is the caller-facing view of one generated timetable, already
// scoped to the requesting principal.
type Timetable struct {
	Semester    string
	Department  string
	Year        int
	Version     int
	Constraints []string
	Assignments []timetable.Assignment
	GeneratedAt time.Time
}

package persistence

import "time"

// Window is a stored availability range on one teaching day.
type Window struct {
	Day       int
	StartHour int
	EndHour   int
}

// Faculty represents a stored faculty member.
type Faculty struct {
	ID           string
	Name         string
	Email        string
	Department   string
	Availability []Window
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Room represents a stored room catalog entry.
type Room struct {
	ID           string
	Number       string
	Type         string
	Capacity     int
	Availability []Window
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Course represents a stored course. The code is unique across the store.
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

// Assignment is one stored timetable cell binding.
type Assignment struct {
	CourseID  string
	FacultyID string
	RoomID    string
	Day       int
	Slot      int
}

// Timetable is the stored result of one successful generation run, keyed by
// (semester, department, year). Saving a timetable for an existing key
// replaces the previous version wholesale.
type Timetable struct {
	Semester    string
	Department  string
	Year        int
	Version     int
	Constraints []string
	Assignments []Assignment
	GeneratedAt time.Time
}

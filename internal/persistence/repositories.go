package persistence

import "context"

// FacultyRepository exposes CRUD operations for faculty members.
type FacultyRepository interface {
	CreateFaculty(ctx context.Context, faculty Faculty) error
	UpdateFaculty(ctx context.Context, faculty Faculty) error
	GetFaculty(ctx context.Context, id string) (Faculty, error)
	ListFaculty(ctx context.Context) ([]Faculty, error)
	DeleteFaculty(ctx context.Context, id string) error
}

// RoomRepository exposes CRUD operations for rooms.
type RoomRepository interface {
	CreateRoom(ctx context.Context, room Room) error
	UpdateRoom(ctx context.Context, room Room) error
	GetRoom(ctx context.Context, id string) (Room, error)
	ListRooms(ctx context.Context) ([]Room, error)
	DeleteRoom(ctx context.Context, id string) error
}

// CourseRepository exposes CRUD operations for courses.
type CourseRepository interface {
	CreateCourse(ctx context.Context, course Course) error
	UpdateCourse(ctx context.Context, course Course) error
	GetCourse(ctx context.Context, id string) (Course, error)
	GetCourseByCode(ctx context.Context, code string) (Course, error)
	ListCourses(ctx context.Context) ([]Course, error)
	DeleteCourse(ctx context.Context, id string) error
}

// TimetableRepository stores generated timetables and their assignments.
type TimetableRepository interface {
	SaveTimetable(ctx context.Context, timetable Timetable) error
	GetTimetable(ctx context.Context, semester, department string, year int) (Timetable, error)
	ListTimetables(ctx context.Context) ([]Timetable, error)
	DeleteTimetable(ctx context.Context, semester, department string, year int) error
}

// Store aggregates every repository a fully wired engine needs.
type Store interface {
	FacultyRepository
	RoomRepository
	CourseRepository
	TimetableRepository
}

// Package memory provides the in-memory persistence implementation used by
// tests and by deployments that do not need durable state.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/example/academic-scheduler/internal/persistence"
)

// Store keeps every record in process memory behind a single RWMutex.
// Returned records are copies; callers may mutate them freely.
type Store struct {
	mu         sync.RWMutex
	faculty    map[string]persistence.Faculty
	rooms      map[string]persistence.Room
	courses    map[string]persistence.Course
	timetables map[timetableKey]persistence.Timetable
}

type timetableKey struct {
	semester   string
	department string
	year       int
}

// Open returns an empty in-memory store.
func Open() *Store {
	return &Store{
		faculty:    make(map[string]persistence.Faculty),
		rooms:      make(map[string]persistence.Room),
		courses:    make(map[string]persistence.Course),
		timetables: make(map[timetableKey]persistence.Timetable),
	}
}

// Close releases resources held by the store. No-op for memory.
func (s *Store) Close() error {
	return nil
}

// --- FacultyRepository ---

// CreateFaculty stores a new faculty member.
func (s *Store) CreateFaculty(ctx context.Context, faculty persistence.Faculty) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.faculty[faculty.ID]; ok {
		return persistence.ErrDuplicate
	}
	s.faculty[faculty.ID] = cloneFaculty(faculty)
	return nil
}

// UpdateFaculty replaces an existing faculty record.
func (s *Store) UpdateFaculty(ctx context.Context, faculty persistence.Faculty) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.faculty[faculty.ID]; !ok {
		return persistence.ErrNotFound
	}
	s.faculty[faculty.ID] = cloneFaculty(faculty)
	return nil
}

// GetFaculty retrieves a faculty member by ID.
func (s *Store) GetFaculty(ctx context.Context, id string) (persistence.Faculty, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	faculty, ok := s.faculty[id]
	if !ok {
		return persistence.Faculty{}, persistence.ErrNotFound
	}
	return cloneFaculty(faculty), nil
}

// ListFaculty returns every faculty member ordered by name, then ID.
func (s *Store) ListFaculty(ctx context.Context) ([]persistence.Faculty, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]persistence.Faculty, 0, len(s.faculty))
	for _, faculty := range s.faculty {
		out = append(out, cloneFaculty(faculty))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// DeleteFaculty removes a faculty member by ID.
func (s *Store) DeleteFaculty(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.faculty[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(s.faculty, id)
	return nil
}

// --- RoomRepository ---

// CreateRoom stores a new room.
func (s *Store) CreateRoom(ctx context.Context, room persistence.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rooms[room.ID]; ok {
		return persistence.ErrDuplicate
	}
	s.rooms[room.ID] = cloneRoom(room)
	return nil
}

// UpdateRoom replaces an existing room record.
func (s *Store) UpdateRoom(ctx context.Context, room persistence.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rooms[room.ID]; !ok {
		return persistence.ErrNotFound
	}
	s.rooms[room.ID] = cloneRoom(room)
	return nil
}

// GetRoom retrieves a room by ID.
func (s *Store) GetRoom(ctx context.Context, id string) (persistence.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	room, ok := s.rooms[id]
	if !ok {
		return persistence.Room{}, persistence.ErrNotFound
	}
	return cloneRoom(room), nil
}

// ListRooms returns every room ordered by number, then ID.
func (s *Store) ListRooms(ctx context.Context) ([]persistence.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]persistence.Room, 0, len(s.rooms))
	for _, room := range s.rooms {
		out = append(out, cloneRoom(room))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Number != out[j].Number {
			return out[i].Number < out[j].Number
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// DeleteRoom removes a room by ID.
func (s *Store) DeleteRoom(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rooms[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(s.rooms, id)
	return nil
}

// --- CourseRepository ---

// CreateCourse stores a new course, enforcing code uniqueness.
func (s *Store) CreateCourse(ctx context.Context, course persistence.Course) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.courses[course.ID]; ok {
		return persistence.ErrDuplicate
	}
	if err := s.ensureUniqueCodeLocked(course.ID, course.Code); err != nil {
		return err
	}
	s.courses[course.ID] = cloneCourse(course)
	return nil
}

// UpdateCourse replaces an existing course record, enforcing code
// uniqueness.
func (s *Store) UpdateCourse(ctx context.Context, course persistence.Course) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.courses[course.ID]; !ok {
		return persistence.ErrNotFound
	}
	if err := s.ensureUniqueCodeLocked(course.ID, course.Code); err != nil {
		return err
	}
	s.courses[course.ID] = cloneCourse(course)
	return nil
}

// GetCourse retrieves a course by ID.
func (s *Store) GetCourse(ctx context.Context, id string) (persistence.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	course, ok := s.courses[id]
	if !ok {
		return persistence.Course{}, persistence.ErrNotFound
	}
	return cloneCourse(course), nil
}

// GetCourseByCode retrieves a course by its unique code,
// case-insensitively.
func (s *Store) GetCourseByCode(ctx context.Context, code string) (persistence.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, course := range s.courses {
		if strings.EqualFold(course.Code, code) {
			return cloneCourse(course), nil
		}
	}
	return persistence.Course{}, persistence.ErrNotFound
}

// ListCourses returns every course ordered by code, then ID.
func (s *Store) ListCourses(ctx context.Context) ([]persistence.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]persistence.Course, 0, len(s.courses))
	for _, course := range s.courses {
		out = append(out, cloneCourse(course))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Code != out[j].Code {
			return out[i].Code < out[j].Code
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// DeleteCourse removes a course by ID.
func (s *Store) DeleteCourse(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.courses[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(s.courses, id)
	return nil
}

func (s *Store) ensureUniqueCodeLocked(id, code string) error {
	for otherID, other := range s.courses {
		if otherID != id && strings.EqualFold(other.Code, code) {
			return persistence.ErrDuplicate
		}
	}
	return nil
}

// --- TimetableRepository ---

// SaveTimetable stores a timetable, replacing any previous version for the
// same key.
func (s *Store) SaveTimetable(ctx context.Context, timetable persistence.Timetable) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := timetableKey{timetable.Semester, timetable.Department, timetable.Year}
	s.timetables[key] = cloneTimetable(timetable)
	return nil
}

// GetTimetable retrieves the committed timetable for a key.
func (s *Store) GetTimetable(ctx context.Context, semester, department string, year int) (persistence.Timetable, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	timetable, ok := s.timetables[timetableKey{semester, department, year}]
	if !ok {
		return persistence.Timetable{}, persistence.ErrNotFound
	}
	return cloneTimetable(timetable), nil
}

// ListTimetables returns every committed timetable in deterministic key
// order.
func (s *Store) ListTimetables(ctx context.Context) ([]persistence.Timetable, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]persistence.Timetable, 0, len(s.timetables))
	for _, timetable := range s.timetables {
		out = append(out, cloneTimetable(timetable))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Semester != out[j].Semester {
			return out[i].Semester < out[j].Semester
		}
		if out[i].Department != out[j].Department {
			return out[i].Department < out[j].Department
		}
		return out[i].Year < out[j].Year
	})
	return out, nil
}

// DeleteTimetable removes the committed timetable for a key.
func (s *Store) DeleteTimetable(ctx context.Context, semester, department string, year int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := timetableKey{semester, department, year}
	if _, ok := s.timetables[key]; !ok {
		return persistence.ErrNotFound
	}
	delete(s.timetables, key)
	return nil
}

// --- clone helpers ---

func cloneWindows(windows []persistence.Window) []persistence.Window {
	if windows == nil {
		return nil
	}
	out := make([]persistence.Window, len(windows))
	copy(out, windows)
	return out
}

func cloneFaculty(faculty persistence.Faculty) persistence.Faculty {
	faculty.Availability = cloneWindows(faculty.Availability)
	return faculty
}

func cloneRoom(room persistence.Room) persistence.Room {
	room.Availability = cloneWindows(room.Availability)
	return room
}

func cloneCourse(course persistence.Course) persistence.Course {
	return course
}

func cloneTimetable(timetable persistence.Timetable) persistence.Timetable {
	if timetable.Constraints != nil {
		constraints := make([]string, len(timetable.Constraints))
		copy(constraints, timetable.Constraints)
		timetable.Constraints = constraints
	}
	if timetable.Assignments != nil {
		assignments := make([]persistence.Assignment, len(timetable.Assignments))
		copy(assignments, timetable.Assignments)
		timetable.Assignments = assignments
	}
	return timetable
}

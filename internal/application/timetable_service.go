package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/academic-scheduler/internal/constraint"
	"github.com/example/academic-scheduler/internal/solver"
	"github.com/example/academic-scheduler/internal/timetable"
)

// TimetableStore captures the persistence operations needed by the service.
type TimetableStore interface {
	SaveTimetable(ctx context.Context, tt Timetable) error
	GetTimetable(ctx context.Context, semester, department string, year int) (Timetable, error)
	ListTimetables(ctx context.Context) ([]Timetable, error)
	DeleteTimetable(ctx context.Context, semester, department string, year int) error
}

// FacultyLister exposes the faculty listing a generation needs.
type FacultyLister interface {
	ListFaculty(ctx context.Context) ([]Faculty, error)
}

// RoomLister exposes the room listing a generation needs.
type RoomLister interface {
	ListRooms(ctx context.Context) ([]Room, error)
}

// TimetableService runs generations and serves role-scoped timetable views.
// Generations for the same (semester, department, year) key are serialized;
// a second request while one is in flight fails fast with
// ErrGenerationInProgress.
type TimetableService struct {
	faculty    FacultyLister
	rooms      RoomLister
	courses    CourseLister
	timetables TimetableStore
	tracker    *GenerationTracker
	cache      *projectionCache
	now        func() time.Time
	logger     *slog.Logger
}

// NewTimetableService constructs a timetable service with the provided dependencies.
func NewTimetableService(faculty FacultyLister, rooms RoomLister, courses CourseLister, timetables TimetableStore, tracker *GenerationTracker, now func() time.Time) *TimetableService {
	return NewTimetableServiceWithLogger(faculty, rooms, courses, timetables, tracker, now, nil)
}

// NewTimetableServiceWithLogger constructs a timetable service with a specified logger.
func NewTimetableServiceWithLogger(faculty FacultyLister, rooms RoomLister, courses CourseLister, timetables TimetableStore, tracker *GenerationTracker, now func() time.Time, logger *slog.Logger) *TimetableService {
	if tracker == nil {
		tracker = NewGenerationTracker()
	}
	if now == nil {
		now = time.Now
	}
	return &TimetableService{
		faculty:    faculty,
		rooms:      rooms,
		courses:    courses,
		timetables: timetables,
		tracker:    tracker,
		cache:      newProjectionCache(0, 0, now),
		now:        now,
		logger:     defaultLogger(logger),
	}
}

func (s *TimetableService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "TimetableService", operation, attrs...)
}

// Generate runs the solver over the current registry snapshot for one
// (semester, department, year) key and stores the resulting timetable,
// replacing any previous version. The returned timetable carries the new
// version number.
func (s *TimetableService) Generate(ctx context.Context, params GenerateTimetableParams) (tt Timetable, err error) {
	if s == nil {
		err = fmt.Errorf("TimetableService is nil")
		return
	}

	logger := s.loggerWith(ctx, "Generate",
		"principal_id", params.Principal.UserID,
		"semester", params.Semester,
		"department", params.Department,
		"year", params.Year,
	)
	started := s.now()
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "generation failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "timetable generated",
			"version", tt.Version,
			"assignments", len(tt.Assignments),
			"elapsed", s.now().Sub(started).String(),
		)
	}()

	if !params.Principal.IsAdmin() {
		err = ErrUnauthorized
		return
	}
	if s.timetables == nil || s.courses == nil || s.faculty == nil || s.rooms == nil {
		err = fmt.Errorf("timetable service not fully configured")
		return
	}

	vErr := validateGenerateParams(params)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	var snapshot generationSnapshot
	snapshot, err = s.loadSnapshot(ctx, params)
	if err != nil {
		return
	}

	key := timetable.Key{
		Semester:   strings.TrimSpace(params.Semester),
		Department: strings.TrimSpace(params.Department),
		Year:       params.Year,
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err = s.tracker.Begin(key, snapshot.entityIDs, cancel); err != nil {
		return
	}
	defer s.tracker.End(key, snapshot.entityIDs)

	cfg := configFromFlags(params.Flags)
	run := solver.New(solver.Input{
		Courses: snapshot.courses,
		Faculty: snapshot.faculty,
		Rooms:   snapshot.rooms,
		Config:  cfg,
	})

	var assignments []timetable.Assignment
	assignments, err = run.Solve(runCtx)
	if err != nil {
		return
	}

	version := 1
	if previous, getErr := s.timetables.GetTimetable(ctx, key.Semester, key.Department, key.Year); getErr == nil {
		version = previous.Version + 1
	} else if mapRepoError(getErr) != ErrNotFound {
		err = mapRepoError(getErr)
		return
	}

	tt = Timetable{
		Semester:    key.Semester,
		Department:  key.Department,
		Year:        key.Year,
		Version:     version,
		Constraints: cfg.Names(),
		Assignments: assignments,
		GeneratedAt: s.now(),
	}

	if err = s.timetables.SaveTimetable(ctx, tt); err != nil {
		err = mapRepoError(err)
		return
	}

	s.cache.Invalidate()
	return
}

// CancelGeneration aborts the in-flight generation for the key. It returns
// ErrNotFound when no run for the key is in flight.
func (s *TimetableService) CancelGeneration(ctx context.Context, params DeleteTimetableParams) error {
	if s == nil {
		return fmt.Errorf("TimetableService is nil")
	}
	if !params.Principal.IsAdmin() {
		return ErrUnauthorized
	}

	key := timetable.Key{
		Semester:   strings.TrimSpace(params.Semester),
		Department: strings.TrimSpace(params.Department),
		Year:       params.Year,
	}

	logger := s.loggerWith(ctx, "CancelGeneration",
		"principal_id", params.Principal.UserID,
		"semester", key.Semester,
		"department", key.Department,
		"year", key.Year,
	)

	if !s.tracker.CancelRun(key) {
		logger.ErrorContext(ctx, "no generation in flight", "error_kind", ErrorKind(ErrNotFound))
		return ErrNotFound
	}

	logger.InfoContext(ctx, "generation cancelled")
	return nil
}

// GetTimetable returns the stored timetable for the key, scoped to the
// requesting principal: administrators see every assignment, faculty see
// the sessions they teach, students see the sessions of their courses.
func (s *TimetableService) GetTimetable(ctx context.Context, params GetTimetableParams) (Timetable, error) {
	if s == nil || s.timetables == nil {
		return Timetable{}, fmt.Errorf("timetable store not configured")
	}
	if !params.Principal.Role.Valid() {
		return Timetable{}, ErrUnauthorized
	}

	stored, err := s.timetables.GetTimetable(ctx,
		strings.TrimSpace(params.Semester),
		strings.TrimSpace(params.Department),
		params.Year,
	)
	if err != nil {
		return Timetable{}, mapRepoError(err)
	}

	cacheKey := buildProjectionCacheKey(params, stored.Version)
	if visible, ok := s.cache.Get(cacheKey); ok {
		stored.Assignments = visible
		return stored, nil
	}

	viewer := timetable.Viewer{Role: params.Principal.Role}
	switch params.Principal.Role {
	case timetable.RoleFaculty:
		viewer.FacultyID = params.Principal.UserID
	case timetable.RoleStudent:
		viewer.CourseIDs = params.CourseIDs
	}

	visible := timetable.Project(timetable.Timetable{
		Key: timetable.Key{
			Semester:   stored.Semester,
			Department: stored.Department,
			Year:       stored.Year,
		},
		Version:     stored.Version,
		Constraints: stored.Constraints,
		Assignments: stored.Assignments,
		GeneratedAt: stored.GeneratedAt,
	}, viewer)

	s.cache.Store(cacheKey, visible)
	stored.Assignments = visible
	return stored, nil
}

// ListTimetables returns every stored timetable for administrators.
func (s *TimetableService) ListTimetables(ctx context.Context, principal Principal) ([]Timetable, error) {
	if s == nil || s.timetables == nil {
		return nil, fmt.Errorf("timetable store not configured")
	}
	if !principal.IsAdmin() {
		return nil, ErrUnauthorized
	}

	list, err := s.timetables.ListTimetables(ctx)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return list, nil
}

// DeleteTimetable removes a stored timetable for administrators. The delete
// is refused while a generation for the key is in flight.
func (s *TimetableService) DeleteTimetable(ctx context.Context, params DeleteTimetableParams) error {
	if s == nil {
		return fmt.Errorf("TimetableService is nil")
	}
	if !params.Principal.IsAdmin() {
		return ErrUnauthorized
	}
	if s.timetables == nil {
		return fmt.Errorf("timetable store not configured")
	}

	key := timetable.Key{
		Semester:   strings.TrimSpace(params.Semester),
		Department: strings.TrimSpace(params.Department),
		Year:       params.Year,
	}

	logger := s.loggerWith(ctx, "DeleteTimetable",
		"principal_id", params.Principal.UserID,
		"semester", key.Semester,
		"department", key.Department,
		"year", key.Year,
	)

	if s.tracker.Running(key) {
		logger.ErrorContext(ctx, "generation in flight", "error_kind", ErrorKind(ErrGenerationInProgress))
		return ErrGenerationInProgress
	}

	if err := s.timetables.DeleteTimetable(ctx, key.Semester, key.Department, key.Year); err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to delete timetable", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	s.cache.Invalidate()
	logger.InfoContext(ctx, "timetable deleted")
	return nil
}

// generationSnapshot is the registry state one run operates on, resolved up
// front so concurrent registry mutation cannot skew the search.
type generationSnapshot struct {
	courses   []constraint.Course
	faculty   map[string]constraint.Faculty
	rooms     []constraint.Room
	entityIDs []string
}

func (s *TimetableService) loadSnapshot(ctx context.Context, params GenerateTimetableParams) (generationSnapshot, error) {
	var snapshot generationSnapshot

	allCourses, err := s.courses.ListCourses(ctx)
	if err != nil {
		return snapshot, mapRepoError(err)
	}

	department := strings.TrimSpace(params.Department)
	var selected []Course
	for _, course := range allCourses {
		if strings.EqualFold(course.Department, department) && course.Year == params.Year {
			selected = append(selected, course)
		}
	}
	if len(selected) == 0 {
		vErr := &ValidationError{}
		vErr.add("courses", "no courses registered for the department and year")
		return snapshot, vErr
	}

	allFaculty, err := s.faculty.ListFaculty(ctx)
	if err != nil {
		return snapshot, mapRepoError(err)
	}
	facultyByID := make(map[string]constraint.Faculty, len(allFaculty))
	for _, member := range allFaculty {
		facultyByID[member.ID] = constraint.Faculty{
			ID:           member.ID,
			Availability: timetable.Availability(member.Availability),
		}
	}

	allRooms, err := s.rooms.ListRooms(ctx)
	if err != nil {
		return snapshot, mapRepoError(err)
	}
	if len(allRooms) == 0 {
		vErr := &ValidationError{}
		vErr.add("rooms", "no rooms registered")
		return snapshot, vErr
	}

	for _, course := range selected {
		member, ok := facultyByID[course.FacultyID]
		if !ok {
			return snapshot, fmt.Errorf("course %s references faculty %s: %w", course.Code, course.FacultyID, ErrNotFound)
		}
		snapshot.courses = append(snapshot.courses, constraint.Course{
			ID:         course.ID,
			Code:       course.Code,
			Sessions:   course.Sessions,
			FacultyID:  course.FacultyID,
			Enrollment: course.Enrollment,
		})
		snapshot.entityIDs = append(snapshot.entityIDs, course.ID, member.ID)
		if snapshot.faculty == nil {
			snapshot.faculty = make(map[string]constraint.Faculty)
		}
		snapshot.faculty[member.ID] = member
	}

	for _, room := range allRooms {
		snapshot.rooms = append(snapshot.rooms, constraint.Room{
			ID:           room.ID,
			Number:       room.Number,
			Capacity:     room.Capacity,
			Availability: timetable.Availability(room.Availability),
		})
		snapshot.entityIDs = append(snapshot.entityIDs, room.ID)
	}

	return snapshot, nil
}

func validateGenerateParams(params GenerateTimetableParams) *ValidationError {
	vErr := &ValidationError{}

	if strings.TrimSpace(params.Semester) == "" {
		vErr.add("semester", "semester is required")
	}
	if strings.TrimSpace(params.Department) == "" {
		vErr.add("department", "department is required")
	}
	if params.Year < 1 {
		vErr.add("year", "year must be positive")
	}
	if params.Flags.MaxPerDayLimit < 0 {
		vErr.add("max_per_day_limit", "limit must not be negative")
	}

	return vErr
}

func configFromFlags(flags ConstraintFlags) constraint.Config {
	cfg := constraint.Config{
		NoFridayAfternoon:  flags.NoFridayAfternoon,
		MaxPerDay:          flags.MaxPerDay,
		MaxPerDayLimit:     flags.MaxPerDayLimit,
		LunchBreakReserved: flags.LunchBreakReserved,
	}
	if cfg.MaxPerDay && cfg.MaxPerDayLimit == 0 {
		cfg.MaxPerDayLimit = constraint.DefaultMaxPerDay
	}
	return cfg
}

package application

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"strings"
	"time"

	"github.com/example/academic-scheduler/internal/persistence"
	"github.com/example/academic-scheduler/internal/timetable"
)

// FacultyRepository captures the persistence operations needed by the service.
type FacultyRepository interface {
	CreateFaculty(ctx context.Context, faculty Faculty) (Faculty, error)
	GetFaculty(ctx context.Context, id string) (Faculty, error)
	UpdateFaculty(ctx context.Context, faculty Faculty) (Faculty, error)
	DeleteFaculty(ctx context.Context, id string) error
	ListFaculty(ctx context.Context) ([]Faculty, error)
}

// CourseLister exposes the course listing a delete guard needs.
type CourseLister interface {
	ListCourses(ctx context.Context) ([]Course, error)
}

// EntityGuard reports whether an in-flight generation still reads an entity.
type EntityGuard interface {
	Holds(entityID string) bool
}

// FacultyService orchestrates validation, authorization, and persistence for
// faculty members.
type FacultyService struct {
	faculty     FacultyRepository
	courses     CourseLister
	timetables  TimetableLister
	guard       EntityGuard
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewFacultyService constructs a faculty service with the provided dependencies.
func NewFacultyService(faculty FacultyRepository, courses CourseLister, timetables TimetableLister, guard EntityGuard, idGenerator func() string, now func() time.Time) *FacultyService {
	return NewFacultyServiceWithLogger(faculty, courses, timetables, guard, idGenerator, now, nil)
}

// NewFacultyServiceWithLogger constructs a faculty service with a specified logger.
func NewFacultyServiceWithLogger(faculty FacultyRepository, courses CourseLister, timetables TimetableLister, guard EntityGuard, idGenerator func() string, now func() time.Time, logger *slog.Logger) *FacultyService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &FacultyService{
		faculty:     faculty,
		courses:     courses,
		timetables:  timetables,
		guard:       guard,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *FacultyService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "FacultyService", operation, attrs...)
}

// CreateFaculty validates input and registers a new faculty member for
// administrators.
func (s *FacultyService) CreateFaculty(ctx context.Context, params CreateFacultyParams) (faculty Faculty, err error) {
	if s == nil {
		err = fmt.Errorf("FacultyService is nil")
		return
	}

	logger := s.loggerWith(ctx, "CreateFaculty",
		"principal_id", params.Principal.UserID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create faculty", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("faculty_id", faculty.ID).InfoContext(ctx, "faculty created")
	}()

	if !params.Principal.IsAdmin() {
		err = ErrUnauthorized
		return
	}

	vErr := validateFacultyInput(params.Input)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	faculty = Faculty{
		ID:           s.idGenerator(),
		Name:         strings.TrimSpace(params.Input.Name),
		Email:        strings.TrimSpace(params.Input.Email),
		Department:   strings.TrimSpace(params.Input.Department),
		Availability: cloneWindows(params.Input.Availability),
		CreatedAt:    s.now(),
	}
	faculty.UpdatedAt = faculty.CreatedAt

	if s.faculty == nil {
		return
	}

	var persisted Faculty
	persisted, err = s.faculty.CreateFaculty(ctx, faculty)
	if err != nil {
		err = mapRepoError(err)
		return
	}

	faculty = persisted
	return
}

// UpdateFaculty validates input and updates an existing faculty member for
// administrators.
func (s *FacultyService) UpdateFaculty(ctx context.Context, params UpdateFacultyParams) (faculty Faculty, err error) {
	if s == nil {
		err = fmt.Errorf("FacultyService is nil")
		return
	}

	logger := s.loggerWith(ctx, "UpdateFaculty",
		"principal_id", params.Principal.UserID,
		"faculty_id", params.FacultyID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update faculty", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "faculty updated")
	}()

	if !params.Principal.IsAdmin() {
		err = ErrUnauthorized
		return
	}
	if s.faculty == nil {
		err = fmt.Errorf("faculty repository not configured")
		return
	}

	vErr := validateFacultyInput(params.Input)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	var current Faculty
	current, err = s.faculty.GetFaculty(ctx, params.FacultyID)
	if err != nil {
		err = mapRepoError(err)
		return
	}

	current.Name = strings.TrimSpace(params.Input.Name)
	current.Email = strings.TrimSpace(params.Input.Email)
	current.Department = strings.TrimSpace(params.Input.Department)
	current.Availability = cloneWindows(params.Input.Availability)
	current.UpdatedAt = s.now()

	faculty, err = s.faculty.UpdateFaculty(ctx, current)
	if err != nil {
		err = mapRepoError(err)
		return
	}
	return
}

// GetFaculty retrieves a faculty member for any authenticated principal.
func (s *FacultyService) GetFaculty(ctx context.Context, principal Principal, facultyID string) (Faculty, error) {
	if s == nil || s.faculty == nil {
		return Faculty{}, fmt.Errorf("faculty repository not configured")
	}
	if !principal.Role.Valid() {
		return Faculty{}, ErrUnauthorized
	}

	faculty, err := s.faculty.GetFaculty(ctx, facultyID)
	if err != nil {
		return Faculty{}, mapRepoError(err)
	}
	return faculty, nil
}

// ListFaculty returns every registered faculty member.
func (s *FacultyService) ListFaculty(ctx context.Context, principal Principal) ([]Faculty, error) {
	if s == nil || s.faculty == nil {
		return nil, fmt.Errorf("faculty repository not configured")
	}
	if !principal.Role.Valid() {
		return nil, ErrUnauthorized
	}

	list, err := s.faculty.ListFaculty(ctx)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return list, nil
}

// FindFaculty returns a lazily evaluated sequence of faculty members whose
// name or department contains the query, case-insensitively. Matching is
// deferred until the sequence is consumed.
func (s *FacultyService) FindFaculty(ctx context.Context, principal Principal, query string) (iter.Seq[Faculty], error) {
	if s == nil || s.faculty == nil {
		return nil, fmt.Errorf("faculty repository not configured")
	}
	if !principal.Role.Valid() {
		return nil, ErrUnauthorized
	}

	list, err := s.faculty.ListFaculty(ctx)
	if err != nil {
		return nil, mapRepoError(err)
	}

	needle := strings.ToLower(strings.TrimSpace(query))
	return func(yield func(Faculty) bool) {
		for _, faculty := range list {
			if needle != "" &&
				!strings.Contains(strings.ToLower(faculty.Name), needle) &&
				!strings.Contains(strings.ToLower(faculty.Department), needle) {
				continue
			}
			if !yield(faculty) {
				return
			}
		}
	}, nil
}

// DeleteFaculty removes a faculty member for administrators. The delete is
// refused while any course or stored timetable references the member or a
// generation holding it is in flight.
func (s *FacultyService) DeleteFaculty(ctx context.Context, principal Principal, facultyID string) error {
	if s == nil {
		return fmt.Errorf("FacultyService is nil")
	}
	if !principal.IsAdmin() {
		return ErrUnauthorized
	}
	if s.faculty == nil {
		return fmt.Errorf("faculty repository not configured")
	}

	logger := s.loggerWith(ctx, "DeleteFaculty",
		"principal_id", principal.UserID,
		"faculty_id", facultyID,
	)

	if s.guard != nil && s.guard.Holds(facultyID) {
		logger.ErrorContext(ctx, "faculty pinned by running generation", "error_kind", ErrorKind(ErrInUse))
		return fmt.Errorf("faculty %s: %w", facultyID, ErrInUse)
	}

	if s.courses != nil {
		courses, err := s.courses.ListCourses(ctx)
		if err != nil {
			logger.ErrorContext(ctx, "failed to check course references", "error", err)
			return mapRepoError(err)
		}
		for _, course := range courses {
			if course.FacultyID == facultyID {
				err := fmt.Errorf("faculty %s referenced by course %s: %w", facultyID, course.Code, ErrInUse)
				logger.ErrorContext(ctx, "faculty still referenced", "error", err, "error_kind", ErrorKind(err))
				return err
			}
		}
	}

	if s.timetables != nil {
		stored, err := s.timetables.ListTimetables(ctx)
		if err != nil {
			logger.ErrorContext(ctx, "failed to check timetable references", "error", err)
			return mapRepoError(err)
		}
		for _, timetable := range stored {
			for _, assignment := range timetable.Assignments {
				if assignment.FacultyID == facultyID {
					err := fmt.Errorf("faculty %s assigned in timetable %s/%s/%d: %w",
						facultyID, timetable.Semester, timetable.Department, timetable.Year, ErrInUse)
					logger.ErrorContext(ctx, "faculty still referenced", "error", err, "error_kind", ErrorKind(err))
					return err
				}
			}
		}
	}

	if err := s.faculty.DeleteFaculty(ctx, facultyID); err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to delete faculty", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	logger.InfoContext(ctx, "faculty deleted")
	return nil
}

func validateFacultyInput(input FacultyInput) *ValidationError {
	vErr := &ValidationError{}

	if strings.TrimSpace(input.Name) == "" {
		vErr.add("name", "name is required")
	}
	email := strings.TrimSpace(input.Email)
	if email == "" {
		vErr.add("email", "email is required")
	} else if !strings.Contains(email, "@") {
		vErr.add("email", "email must contain @")
	}
	if strings.TrimSpace(input.Department) == "" {
		vErr.add("department", "department is required")
	}
	vErr.merge(validateWindows(input.Availability))

	return vErr
}

func validateWindows(windows []timetable.Window) *ValidationError {
	vErr := &ValidationError{}
	if err := timetable.Availability(windows).Validate(); err != nil {
		vErr.add("availability", err.Error())
	}
	return vErr
}

func cloneWindows(windows []timetable.Window) []timetable.Window {
	if len(windows) == 0 {
		return nil
	}
	out := make([]timetable.Window, len(windows))
	copy(out, windows)
	return out
}

func mapRepoError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, persistence.ErrNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, persistence.ErrDuplicate) {
		return ErrAlreadyExists
	}
	return err
}

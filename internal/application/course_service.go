package application

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"strings"
	"time"

	"github.com/example/academic-scheduler/internal/timetable"
)

// CourseRepository captures the persistence operations needed by the service.
type CourseRepository interface {
	CreateCourse(ctx context.Context, course Course) (Course, error)
	GetCourse(ctx context.Context, id string) (Course, error)
	GetCourseByCode(ctx context.Context, code string) (Course, error)
	UpdateCourse(ctx context.Context, course Course) (Course, error)
	DeleteCourse(ctx context.Context, id string) error
	ListCourses(ctx context.Context) ([]Course, error)
}

// FacultyGetter resolves the faculty reference a course carries.
type FacultyGetter interface {
	GetFaculty(ctx context.Context, id string) (Faculty, error)
}

// CourseService orchestrates validation, authorization, and persistence for
// course offerings.
type CourseService struct {
	courses     CourseRepository
	faculty     FacultyGetter
	timetables  TimetableLister
	guard       EntityGuard
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewCourseService constructs a course service with the provided dependencies.
func NewCourseService(courses CourseRepository, faculty FacultyGetter, timetables TimetableLister, guard EntityGuard, idGenerator func() string, now func() time.Time) *CourseService {
	return NewCourseServiceWithLogger(courses, faculty, timetables, guard, idGenerator, now, nil)
}

// NewCourseServiceWithLogger constructs a course service with a specified logger.
func NewCourseServiceWithLogger(courses CourseRepository, faculty FacultyGetter, timetables TimetableLister, guard EntityGuard, idGenerator func() string, now func() time.Time, logger *slog.Logger) *CourseService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &CourseService{
		courses:     courses,
		faculty:     faculty,
		timetables:  timetables,
		guard:       guard,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *CourseService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "CourseService", operation, attrs...)
}

// CreateCourse validates input and registers a new course for administrators.
// The referenced faculty member must already exist.
func (s *CourseService) CreateCourse(ctx context.Context, params CreateCourseParams) (course Course, err error) {
	if s == nil {
		err = fmt.Errorf("CourseService is nil")
		return
	}

	logger := s.loggerWith(ctx, "CreateCourse",
		"principal_id", params.Principal.UserID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create course", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("course_id", course.ID).InfoContext(ctx, "course created")
	}()

	if !params.Principal.IsAdmin() {
		err = ErrUnauthorized
		return
	}

	vErr := validateCourseInput(params.Input)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	if err = s.resolveFaculty(ctx, params.Input.FacultyID); err != nil {
		return
	}

	course = Course{
		ID:         s.idGenerator(),
		Code:       strings.ToUpper(strings.TrimSpace(params.Input.Code)),
		Name:       strings.TrimSpace(params.Input.Name),
		Department: strings.TrimSpace(params.Input.Department),
		Year:       params.Input.Year,
		Credits:    params.Input.Credits,
		Sessions:   params.Input.Sessions,
		FacultyID:  params.Input.FacultyID,
		Enrollment: params.Input.Enrollment,
		CreatedAt:  s.now(),
	}
	course.UpdatedAt = course.CreatedAt

	if s.courses == nil {
		return
	}

	var persisted Course
	persisted, err = s.courses.CreateCourse(ctx, course)
	if err != nil {
		err = mapRepoError(err)
		return
	}

	course = persisted
	return
}

// UpdateCourse validates input and updates an existing course for
// administrators.
func (s *CourseService) UpdateCourse(ctx context.Context, params UpdateCourseParams) (course Course, err error) {
	if s == nil {
		err = fmt.Errorf("CourseService is nil")
		return
	}

	logger := s.loggerWith(ctx, "UpdateCourse",
		"principal_id", params.Principal.UserID,
		"course_id", params.CourseID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update course", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "course updated")
	}()

	if !params.Principal.IsAdmin() {
		err = ErrUnauthorized
		return
	}
	if s.courses == nil {
		err = fmt.Errorf("course repository not configured")
		return
	}

	vErr := validateCourseInput(params.Input)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	if err = s.resolveFaculty(ctx, params.Input.FacultyID); err != nil {
		return
	}

	var current Course
	current, err = s.courses.GetCourse(ctx, params.CourseID)
	if err != nil {
		err = mapRepoError(err)
		return
	}

	current.Code = strings.ToUpper(strings.TrimSpace(params.Input.Code))
	current.Name = strings.TrimSpace(params.Input.Name)
	current.Department = strings.TrimSpace(params.Input.Department)
	current.Year = params.Input.Year
	current.Credits = params.Input.Credits
	current.Sessions = params.Input.Sessions
	current.FacultyID = params.Input.FacultyID
	current.Enrollment = params.Input.Enrollment
	current.UpdatedAt = s.now()

	course, err = s.courses.UpdateCourse(ctx, current)
	if err != nil {
		err = mapRepoError(err)
		return
	}
	return
}

// GetCourse retrieves a course for any authenticated principal.
func (s *CourseService) GetCourse(ctx context.Context, principal Principal, courseID string) (Course, error) {
	if s == nil || s.courses == nil {
		return Course{}, fmt.Errorf("course repository not configured")
	}
	if !principal.Role.Valid() {
		return Course{}, ErrUnauthorized
	}

	course, err := s.courses.GetCourse(ctx, courseID)
	if err != nil {
		return Course{}, mapRepoError(err)
	}
	return course, nil
}

// GetCourseByCode retrieves a course by its code.
func (s *CourseService) GetCourseByCode(ctx context.Context, principal Principal, code string) (Course, error) {
	if s == nil || s.courses == nil {
		return Course{}, fmt.Errorf("course repository not configured")
	}
	if !principal.Role.Valid() {
		return Course{}, ErrUnauthorized
	}

	course, err := s.courses.GetCourseByCode(ctx, strings.TrimSpace(code))
	if err != nil {
		return Course{}, mapRepoError(err)
	}
	return course, nil
}

// ListCourses returns every registered course.
func (s *CourseService) ListCourses(ctx context.Context, principal Principal) ([]Course, error) {
	if s == nil || s.courses == nil {
		return nil, fmt.Errorf("course repository not configured")
	}
	if !principal.Role.Valid() {
		return nil, ErrUnauthorized
	}

	list, err := s.courses.ListCourses(ctx)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return list, nil
}

// FindCourses returns a lazily evaluated sequence of courses whose code or
// name contains the query, case-insensitively.
func (s *CourseService) FindCourses(ctx context.Context, principal Principal, query string) (iter.Seq[Course], error) {
	if s == nil || s.courses == nil {
		return nil, fmt.Errorf("course repository not configured")
	}
	if !principal.Role.Valid() {
		return nil, ErrUnauthorized
	}

	list, err := s.courses.ListCourses(ctx)
	if err != nil {
		return nil, mapRepoError(err)
	}

	needle := strings.ToLower(strings.TrimSpace(query))
	return func(yield func(Course) bool) {
		for _, course := range list {
			if needle != "" &&
				!strings.Contains(strings.ToLower(course.Code), needle) &&
				!strings.Contains(strings.ToLower(course.Name), needle) {
				continue
			}
			if !yield(course) {
				return
			}
		}
	}, nil
}

// DeleteCourse removes a course for administrators. The delete is refused
// while a stored timetable schedules the course or a generation holding it
// is in flight.
func (s *CourseService) DeleteCourse(ctx context.Context, principal Principal, courseID string) error {
	if s == nil {
		return fmt.Errorf("CourseService is nil")
	}
	if !principal.IsAdmin() {
		return ErrUnauthorized
	}
	if s.courses == nil {
		return fmt.Errorf("course repository not configured")
	}

	logger := s.loggerWith(ctx, "DeleteCourse",
		"principal_id", principal.UserID,
		"course_id", courseID,
	)

	if s.guard != nil && s.guard.Holds(courseID) {
		logger.ErrorContext(ctx, "course pinned by running generation", "error_kind", ErrorKind(ErrInUse))
		return fmt.Errorf("course %s: %w", courseID, ErrInUse)
	}

	if s.timetables != nil {
		stored, err := s.timetables.ListTimetables(ctx)
		if err != nil {
			logger.ErrorContext(ctx, "failed to check timetable references", "error", err)
			return mapRepoError(err)
		}
		for _, tt := range stored {
			for _, assignment := range tt.Assignments {
				if assignment.CourseID == courseID {
					err := fmt.Errorf("course %s scheduled in timetable %s/%s/%d: %w",
						courseID, tt.Semester, tt.Department, tt.Year, ErrInUse)
					logger.ErrorContext(ctx, "course still referenced", "error", err, "error_kind", ErrorKind(err))
					return err
				}
			}
		}
	}

	if err := s.courses.DeleteCourse(ctx, courseID); err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to delete course", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	logger.InfoContext(ctx, "course deleted")
	return nil
}

func (s *CourseService) resolveFaculty(ctx context.Context, facultyID string) error {
	if s.faculty == nil {
		return nil
	}
	if _, err := s.faculty.GetFaculty(ctx, facultyID); err != nil {
		if mapRepoError(err) == ErrNotFound {
			return fmt.Errorf("faculty %s: %w", facultyID, ErrNotFound)
		}
		return mapRepoError(err)
	}
	return nil
}

func validateCourseInput(input CourseInput) *ValidationError {
	vErr := &ValidationError{}

	if strings.TrimSpace(input.Code) == "" {
		vErr.add("code", "code is required")
	}
	if strings.TrimSpace(input.Name) == "" {
		vErr.add("name", "name is required")
	}
	if strings.TrimSpace(input.Department) == "" {
		vErr.add("department", "department is required")
	}
	if input.Year < 1 {
		vErr.add("year", "year must be positive")
	}
	if input.Credits < 1 {
		vErr.add("credits", "credits must be positive")
	}
	if input.Sessions < 1 || input.Sessions > timetable.NumDays*timetable.NumSlots {
		vErr.add("sessions", fmt.Sprintf("sessions must be between 1 and %d", timetable.NumDays*timetable.NumSlots))
	}
	if strings.TrimSpace(input.FacultyID) == "" {
		vErr.add("faculty_id", "faculty_id is required")
	}
	if input.Enrollment < 1 {
		vErr.add("enrollment", "enrollment must be positive")
	}

	return vErr
}

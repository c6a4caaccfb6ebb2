package application

import (
	"context"
	"errors"
	"testing"

	"github.com/example/academic-scheduler/internal/timetable"
)

type courseRepoStub struct {
	createErr error
	created   Course

	getCourse Course
	getErr    error

	updateErr error
	updated   Course

	deleteErr error
	deletedID string

	list    []Course
	listErr error
}

func (r *courseRepoStub) CreateCourse(ctx context.Context, course Course) (Course, error) {
	if r.createErr != nil {
		return Course{}, r.createErr
	}
	r.created = course
	return course, nil
}

func (r *courseRepoStub) GetCourse(ctx context.Context, id string) (Course, error) {
	if r.getErr != nil {
		return Course{}, r.getErr
	}
	if r.getCourse.ID == "" {
		return Course{}, ErrNotFound
	}
	return r.getCourse, nil
}

func (r *courseRepoStub) GetCourseByCode(ctx context.Context, code string) (Course, error) {
	if r.getErr != nil {
		return Course{}, r.getErr
	}
	if r.getCourse.ID == "" {
		return Course{}, ErrNotFound
	}
	return r.getCourse, nil
}

func (r *courseRepoStub) UpdateCourse(ctx context.Context, course Course) (Course, error) {
	if r.updateErr != nil {
		return Course{}, r.updateErr
	}
	r.updated = course
	return course, nil
}

func (r *courseRepoStub) DeleteCourse(ctx context.Context, id string) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	r.deletedID = id
	return nil
}

func (r *courseRepoStub) ListCourses(ctx context.Context) ([]Course, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]Course, len(r.list))
	copy(out, r.list)
	return out, nil
}

type facultyGetterStub struct {
	known map[string]Faculty
}

func (g *facultyGetterStub) GetFaculty(ctx context.Context, id string) (Faculty, error) {
	faculty, ok := g.known[id]
	if !ok {
		return Faculty{}, ErrNotFound
	}
	return faculty, nil
}

func validCourseInput() CourseInput {
	return CourseInput{
		Code:       "cs301",
		Name:       "Operating Systems",
		Department: "CSE",
		Year:       3,
		Credits:    4,
		Sessions:   3,
		FacultyID:  "faculty-1",
		Enrollment: 62,
	}
}

func TestCourseService_CreateCourse(t *testing.T) {
	t.Run("requires administrator privileges", func(t *testing.T) {
		svc := NewCourseService(nil, nil, nil, nil, nil, nil)

		_, err := svc.CreateCourse(context.Background(), CreateCourseParams{
			Principal: Principal{UserID: "f-1", Role: timetable.RoleFaculty},
			Input:     validCourseInput(),
		})
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("rejects out-of-range fields", func(t *testing.T) {
		svc := NewCourseService(nil, nil, nil, nil, nil, nil)

		input := validCourseInput()
		input.Sessions = timetable.NumDays*timetable.NumSlots + 1
		input.Year = 0
		input.Enrollment = 0

		_, err := svc.CreateCourse(context.Background(), CreateCourseParams{
			Principal: adminPrincipal(),
			Input:     input,
		})

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		for _, field := range []string{"sessions", "year", "enrollment"} {
			if _, ok := vErr.FieldErrors[field]; !ok {
				t.Errorf("expected field error for %q, got %v", field, vErr.FieldErrors)
			}
		}
	})

	t.Run("rejects unknown faculty reference", func(t *testing.T) {
		svc := NewCourseService(&courseRepoStub{}, &facultyGetterStub{}, nil, nil, nil, nil)

		_, err := svc.CreateCourse(context.Background(), CreateCourseParams{
			Principal: adminPrincipal(),
			Input:     validCourseInput(),
		})
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("normalizes the code to upper case", func(t *testing.T) {
		repo := &courseRepoStub{}
		faculty := &facultyGetterStub{known: map[string]Faculty{"faculty-1": {ID: "faculty-1"}}}
		svc := NewCourseService(repo, faculty, nil, nil, func() string { return "course-1" }, fixedNow())

		course, err := svc.CreateCourse(context.Background(), CreateCourseParams{
			Principal: adminPrincipal(),
			Input:     validCourseInput(),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if course.Code != "CS301" {
			t.Errorf("code = %q, want CS301", course.Code)
		}
		if repo.created.ID != "course-1" {
			t.Errorf("repository received %+v", repo.created)
		}
	})
}

func TestCourseService_DeleteCourse(t *testing.T) {
	t.Run("refuses delete while a timetable schedules the course", func(t *testing.T) {
		repo := &courseRepoStub{}
		timetables := &timetableListerStub{list: []Timetable{
			{
				Semester: "Fall", Department: "CSE", Year: 3,
				Assignments: []timetable.Assignment{
					{CourseID: "course-1", RoomID: "room-1"},
				},
			},
		}}
		svc := NewCourseService(repo, nil, timetables, nil, nil, nil)

		err := svc.DeleteCourse(context.Background(), adminPrincipal(), "course-1")
		if !errors.Is(err, ErrInUse) {
			t.Fatalf("expected ErrInUse, got %v", err)
		}
		if repo.deletedID != "" {
			t.Errorf("delete reached repository: %q", repo.deletedID)
		}
	})

	t.Run("refuses delete while a generation holds the course", func(t *testing.T) {
		guard := &guardStub{held: map[string]bool{"course-1": true}}
		svc := NewCourseService(&courseRepoStub{}, nil, &timetableListerStub{}, guard, nil, nil)

		if err := svc.DeleteCourse(context.Background(), adminPrincipal(), "course-1"); !errors.Is(err, ErrInUse) {
			t.Fatalf("expected ErrInUse, got %v", err)
		}
	})

	t.Run("deletes unreferenced courses", func(t *testing.T) {
		repo := &courseRepoStub{}
		svc := NewCourseService(repo, nil, &timetableListerStub{}, &guardStub{}, nil, nil)

		if err := svc.DeleteCourse(context.Background(), adminPrincipal(), "course-1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if repo.deletedID != "course-1" {
			t.Errorf("deleted %q, want course-1", repo.deletedID)
		}
	})
}

func TestCourseService_FindCourses(t *testing.T) {
	repo := &courseRepoStub{list: []Course{
		{ID: "course-1", Code: "CS301", Name: "Operating Systems"},
		{ID: "course-2", Code: "MA201", Name: "Linear Algebra"},
		{ID: "course-3", Code: "CS310", Name: "Computer Networks"},
	}}
	svc := NewCourseService(repo, nil, nil, nil, nil, nil)

	seq, err := svc.FindCourses(context.Background(), adminPrincipal(), "cs3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var codes []string
	for course := range seq {
		codes = append(codes, course.Code)
	}
	if len(codes) != 2 || codes[0] != "CS301" || codes[1] != "CS310" {
		t.Errorf("codes = %v, want [CS301 CS310]", codes)
	}
}

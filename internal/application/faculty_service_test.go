package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/academic-scheduler/internal/persistence"
	"github.com/example/academic-scheduler/internal/timetable"
)

type facultyRepoStub struct {
	createErr error
	created   Faculty

	getFaculty Faculty
	getErr     error

	updateErr error
	updated   Faculty

	deleteErr error
	deletedID string

	list    []Faculty
	listErr error
}

func (r *facultyRepoStub) CreateFaculty(ctx context.Context, faculty Faculty) (Faculty, error) {
	if r.createErr != nil {
		return Faculty{}, r.createErr
	}
	r.created = faculty
	return faculty, nil
}

func (r *facultyRepoStub) GetFaculty(ctx context.Context, id string) (Faculty, error) {
	if r.getErr != nil {
		return Faculty{}, r.getErr
	}
	if r.getFaculty.ID == "" {
		return Faculty{}, ErrNotFound
	}
	return r.getFaculty, nil
}

func (r *facultyRepoStub) UpdateFaculty(ctx context.Context, faculty Faculty) (Faculty, error) {
	if r.updateErr != nil {
		return Faculty{}, r.updateErr
	}
	r.updated = faculty
	return faculty, nil
}

func (r *facultyRepoStub) DeleteFaculty(ctx context.Context, id string) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	r.deletedID = id
	return nil
}

func (r *facultyRepoStub) ListFaculty(ctx context.Context) ([]Faculty, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]Faculty, len(r.list))
	copy(out, r.list)
	return out, nil
}

type courseListerStub struct {
	list    []Course
	listErr error
}

func (c *courseListerStub) ListCourses(ctx context.Context) ([]Course, error) {
	if c.listErr != nil {
		return nil, c.listErr
	}
	out := make([]Course, len(c.list))
	copy(out, c.list)
	return out, nil
}

type guardStub struct {
	held map[string]bool
}

func (g *guardStub) Holds(entityID string) bool {
	return g.held[entityID]
}

func adminPrincipal() Principal {
	return Principal{UserID: "admin-1", Role: timetable.RoleAdmin}
}

func fixedNow() func() time.Time {
	reference := time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC)
	return func() time.Time { return reference }
}

func TestFacultyService_CreateFaculty(t *testing.T) {
	t.Run("requires administrator privileges", func(t *testing.T) {
		svc := NewFacultyService(nil, nil, nil, nil, nil, nil)

		_, err := svc.CreateFaculty(context.Background(), CreateFacultyParams{
			Principal: Principal{UserID: "f-1", Role: timetable.RoleFaculty},
			Input: FacultyInput{
				Name:       "Dr. Amara Osei",
				Email:      "amara.osei@example.edu",
				Department: "CSE",
			},
		})

		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("rejects missing fields", func(t *testing.T) {
		svc := NewFacultyService(nil, nil, nil, nil, nil, nil)

		_, err := svc.CreateFaculty(context.Background(), CreateFacultyParams{
			Principal: adminPrincipal(),
			Input:     FacultyInput{Email: "no-at-sign"},
		})

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		for _, field := range []string{"name", "email", "department"} {
			if _, ok := vErr.FieldErrors[field]; !ok {
				t.Errorf("expected field error for %q, got %v", field, vErr.FieldErrors)
			}
		}
	})

	t.Run("rejects invalid availability windows", func(t *testing.T) {
		svc := NewFacultyService(nil, nil, nil, nil, nil, nil)

		_, err := svc.CreateFaculty(context.Background(), CreateFacultyParams{
			Principal: adminPrincipal(),
			Input: FacultyInput{
				Name:       "Dr. Amara Osei",
				Email:      "amara.osei@example.edu",
				Department: "CSE",
				Availability: []timetable.Window{
					{Day: timetable.Monday, StartHour: 15, EndHour: 10},
				},
			},
		})

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if _, ok := vErr.FieldErrors["availability"]; !ok {
			t.Errorf("expected field error for availability, got %v", vErr.FieldErrors)
		}
	})

	t.Run("persists trimmed input with generated identity", func(t *testing.T) {
		repo := &facultyRepoStub{}
		svc := NewFacultyService(repo, nil, nil, nil, func() string { return "faculty-1" }, fixedNow())

		faculty, err := svc.CreateFaculty(context.Background(), CreateFacultyParams{
			Principal: adminPrincipal(),
			Input: FacultyInput{
				Name:       "  Dr. Amara Osei  ",
				Email:      " amara.osei@example.edu ",
				Department: " CSE ",
			},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if faculty.ID != "faculty-1" {
			t.Errorf("id = %q, want faculty-1", faculty.ID)
		}
		if faculty.Name != "Dr. Amara Osei" || faculty.Department != "CSE" {
			t.Errorf("fields not trimmed: %+v", faculty)
		}
		if !faculty.CreatedAt.Equal(faculty.UpdatedAt) {
			t.Errorf("timestamps differ on create: %+v", faculty)
		}
		if repo.created.ID != "faculty-1" {
			t.Errorf("repository received %+v", repo.created)
		}
	})

	t.Run("maps duplicate records", func(t *testing.T) {
		repo := &facultyRepoStub{createErr: persistence.ErrDuplicate}
		svc := NewFacultyService(repo, nil, nil, nil, func() string { return "faculty-1" }, fixedNow())

		_, err := svc.CreateFaculty(context.Background(), CreateFacultyParams{
			Principal: adminPrincipal(),
			Input: FacultyInput{
				Name:       "Dr. Amara Osei",
				Email:      "amara.osei@example.edu",
				Department: "CSE",
			},
		})
		if !errors.Is(err, ErrAlreadyExists) {
			t.Fatalf("expected ErrAlreadyExists, got %v", err)
		}
	})
}

func TestFacultyService_FindFaculty(t *testing.T) {
	repo := &facultyRepoStub{list: []Faculty{
		{ID: "faculty-1", Name: "Dr. Amara Osei", Department: "CSE"},
		{ID: "faculty-2", Name: "Dr. Zoe Park", Department: "EEE"},
		{ID: "faculty-3", Name: "Dr. Ben Osei-Mensah", Department: "CSE"},
	}}
	svc := NewFacultyService(repo, nil, nil, nil, nil, nil)

	t.Run("matches name case-insensitively", func(t *testing.T) {
		seq, err := svc.FindFaculty(context.Background(), adminPrincipal(), "osei")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var ids []string
		for f := range seq {
			ids = append(ids, f.ID)
		}
		if len(ids) != 2 || ids[0] != "faculty-1" || ids[1] != "faculty-3" {
			t.Errorf("ids = %v, want [faculty-1 faculty-3]", ids)
		}
	})

	t.Run("stops when the consumer breaks early", func(t *testing.T) {
		seq, err := svc.FindFaculty(context.Background(), adminPrincipal(), "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		count := 0
		for range seq {
			count++
			break
		}
		if count != 1 {
			t.Errorf("consumed %d, want 1", count)
		}
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		if _, err := svc.FindFaculty(context.Background(), Principal{}, "osei"); !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})
}

func TestFacultyService_DeleteFaculty(t *testing.T) {
	t.Run("refuses delete while a course references the member", func(t *testing.T) {
		repo := &facultyRepoStub{}
		courses := &courseListerStub{list: []Course{
			{ID: "course-1", Code: "CS301", FacultyID: "faculty-1"},
		}}
		svc := NewFacultyService(repo, courses, nil, nil, nil, nil)

		err := svc.DeleteFaculty(context.Background(), adminPrincipal(), "faculty-1")
		if !errors.Is(err, ErrInUse) {
			t.Fatalf("expected ErrInUse, got %v", err)
		}
		if repo.deletedID != "" {
			t.Errorf("delete reached repository: %q", repo.deletedID)
		}
	})

	t.Run("refuses delete while a timetable assigns the member", func(t *testing.T) {
		repo := &facultyRepoStub{}
		timetables := &timetableListerStub{list: []Timetable{
			{
				Semester: "Fall", Department: "CSE", Year: 3,
				Assignments: []timetable.Assignment{
					{CourseID: "course-1", FacultyID: "faculty-1", RoomID: "room-1"},
				},
			},
		}}
		svc := NewFacultyService(repo, &courseListerStub{}, timetables, nil, nil, nil)

		err := svc.DeleteFaculty(context.Background(), adminPrincipal(), "faculty-1")
		if !errors.Is(err, ErrInUse) {
			t.Fatalf("expected ErrInUse, got %v", err)
		}
		if repo.deletedID != "" {
			t.Errorf("delete reached repository: %q", repo.deletedID)
		}
	})

	t.Run("refuses delete while a generation holds the member", func(t *testing.T) {
		repo := &facultyRepoStub{}
		guard := &guardStub{held: map[string]bool{"faculty-1": true}}
		svc := NewFacultyService(repo, &courseListerStub{}, &timetableListerStub{}, guard, nil, nil)

		err := svc.DeleteFaculty(context.Background(), adminPrincipal(), "faculty-1")
		if !errors.Is(err, ErrInUse) {
			t.Fatalf("expected ErrInUse, got %v", err)
		}
	})

	t.Run("deletes unreferenced members", func(t *testing.T) {
		repo := &facultyRepoStub{}
		svc := NewFacultyService(repo, &courseListerStub{}, &timetableListerStub{}, &guardStub{}, nil, nil)

		if err := svc.DeleteFaculty(context.Background(), adminPrincipal(), "faculty-1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if repo.deletedID != "faculty-1" {
			t.Errorf("deleted %q, want faculty-1", repo.deletedID)
		}
	})

	t.Run("maps missing records", func(t *testing.T) {
		repo := &facultyRepoStub{deleteErr: persistence.ErrNotFound}
		svc := NewFacultyService(repo, &courseListerStub{}, &timetableListerStub{}, nil, nil, nil)

		if err := svc.DeleteFaculty(context.Background(), adminPrincipal(), "missing"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

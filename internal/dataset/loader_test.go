package dataset

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/example/academic-scheduler/internal/persistence/memory"
	"github.com/example/academic-scheduler/internal/testfixtures"
)

func TestLoad(t *testing.T) {
	seed, err := Load(filepath.Join("testdata", "seed.json"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if len(seed.Faculty) != 2 || len(seed.Rooms) != 2 || len(seed.Courses) != 2 {
		t.Fatalf("seed sizes = %d/%d/%d, want 2/2/2", len(seed.Faculty), len(seed.Rooms), len(seed.Courses))
	}
	if seed.Faculty[0].ID != "faculty-1" {
		t.Errorf("faculty[0].ID = %q, want faculty-1", seed.Faculty[0].ID)
	}
	if len(seed.Faculty[0].Availability) != 5 {
		t.Errorf("faculty[0] windows = %d, want 5", len(seed.Faculty[0].Availability))
	}
	if seed.Courses[1].FacultyID != "zoe.park@example.edu" {
		t.Errorf("courses[1].FacultyID = %q", seed.Courses[1].FacultyID)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join("testdata", "absent.json")); err == nil {
		t.Fatal("Load succeeded for a missing file")
	}
}

func TestApply(t *testing.T) {
	ctx := context.Background()
	seed, err := Load(filepath.Join("testdata", "seed.json"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	store := memory.Open()
	ids := testfixtures.NewIDGenerator("seed")
	clock := testfixtures.NewClock(time.Time{})

	if err := seed.Apply(ctx, store, ids.NextFunc(), clock.NowFunc()); err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}

	faculty, err := store.ListFaculty(ctx)
	if err != nil {
		t.Fatalf("ListFaculty returned error: %v", err)
	}
	if len(faculty) != 2 {
		t.Fatalf("faculty count = %d, want 2", len(faculty))
	}

	explicit, err := store.GetFaculty(ctx, "faculty-1")
	if err != nil {
		t.Fatalf("GetFaculty returned error: %v", err)
	}
	if len(explicit.Availability) != 5 {
		t.Errorf("availability windows = %d, want 5", len(explicit.Availability))
	}
	if !explicit.CreatedAt.Equal(testfixtures.ReferenceTime()) {
		t.Errorf("created_at = %v, want reference time", explicit.CreatedAt)
	}

	t.Run("normalises course codes and resolves email references", func(t *testing.T) {
		course, err := store.GetCourseByCode(ctx, "CS301")
		if err != nil {
			t.Fatalf("GetCourseByCode returned error: %v", err)
		}
		if course.Code != "CS301" {
			t.Errorf("code = %q, want CS301", course.Code)
		}
		if course.FacultyID != "faculty-1" {
			t.Errorf("faculty_id = %q, want faculty-1", course.FacultyID)
		}

		byEmail, err := store.GetCourseByCode(ctx, "CS342")
		if err != nil {
			t.Fatalf("GetCourseByCode returned error: %v", err)
		}
		generated := byEmail.FacultyID
		if generated == "" || generated == "zoe.park@example.edu" {
			t.Errorf("faculty reference was not resolved: %q", generated)
		}
		if _, err := store.GetFaculty(ctx, generated); err != nil {
			t.Errorf("resolved faculty %q not stored: %v", generated, err)
		}
	})
}

func TestApplyUnknownFacultyReference(t *testing.T) {
	seed := Seed{
		Faculty: []Faculty{{ID: "faculty-1", Name: "Dr. Amara Osei", Email: "a@example.edu", Department: "CSE"}},
		Courses: []Course{{Code: "CS301", Name: "Operating Systems", Department: "CSE", Year: 3, Credits: 3, Sessions: 2, FacultyID: "faculty-9", Enrollment: 10}},
	}

	ids := testfixtures.NewIDGenerator("seed")
	err := seed.Apply(context.Background(), memory.Open(), ids.NextFunc(), testfixtures.NewClock(time.Time{}).NowFunc())
	if err == nil {
		t.Fatal("Apply succeeded with a dangling faculty reference")
	}
}

func TestApplyRejectsInvalidWindows(t *testing.T) {
	seed := Seed{
		Faculty: []Faculty{{
			Name: "Dr. Amara Osei", Email: "a@example.edu", Department: "CSE",
			Availability: []Window{{Day: "monday", StartHour: 15, EndHour: 10}},
		}},
	}

	ids := testfixtures.NewIDGenerator("seed")
	err := seed.Apply(context.Background(), memory.Open(), ids.NextFunc(), testfixtures.NewClock(time.Time{}).NowFunc())
	if err == nil {
		t.Fatal("Apply succeeded with an inverted availability window")
	}
}

package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/academic-scheduler/internal/persistence"
)

func TestStoreImplementsStore(t *testing.T) {
	var _ persistence.Store = Open()
}

func TestFacultyCRUD(t *testing.T) {
	store := Open()
	ctx := context.Background()

	faculty := persistence.Faculty{
		ID:         "faculty-1",
		Name:       "Dr. Amara Osei",
		Email:      "amara.osei@example.edu",
		Department: "CSE",
		Availability: []persistence.Window{
			{Day: 0, StartHour: 9, EndHour: 13},
		},
	}
	if err := store.CreateFaculty(ctx, faculty); err != nil {
		t.Fatalf("create faculty: %v", err)
	}
	if err := store.CreateFaculty(ctx, faculty); !errors.Is(err, persistence.ErrDuplicate) {
		t.Errorf("create twice = %v, want ErrDuplicate", err)
	}

	got, err := store.GetFaculty(ctx, "faculty-1")
	if err != nil {
		t.Fatalf("get faculty: %v", err)
	}
	if got.Name != faculty.Name || len(got.Availability) != 1 {
		t.Errorf("got %+v, want %+v", got, faculty)
	}

	faculty.Name = "Dr. A. Osei"
	if err := store.UpdateFaculty(ctx, faculty); err != nil {
		t.Fatalf("update faculty: %v", err)
	}
	got, _ = store.GetFaculty(ctx, "faculty-1")
	if got.Name != "Dr. A. Osei" {
		t.Errorf("name = %q after update", got.Name)
	}

	if err := store.DeleteFaculty(ctx, "faculty-1"); err != nil {
		t.Fatalf("delete faculty: %v", err)
	}
	if _, err := store.GetFaculty(ctx, "faculty-1"); !errors.Is(err, persistence.ErrNotFound) {
		t.Errorf("get after delete = %v, want ErrNotFound", err)
	}
}

func TestReturnedRecordsAreCopies(t *testing.T) {
	store := Open()
	ctx := context.Background()

	faculty := persistence.Faculty{
		ID: "faculty-1",
		Availability: []persistence.Window{
			{Day: 0, StartHour: 9, EndHour: 13},
		},
	}
	if err := store.CreateFaculty(ctx, faculty); err != nil {
		t.Fatalf("create faculty: %v", err)
	}

	got, _ := store.GetFaculty(ctx, "faculty-1")
	got.Availability[0].EndHour = 17

	again, _ := store.GetFaculty(ctx, "faculty-1")
	if again.Availability[0].EndHour != 13 {
		t.Errorf("stored record mutated through returned slice")
	}
}

func TestCourseCodeUniqueCaseInsensitive(t *testing.T) {
	store := Open()
	ctx := context.Background()

	if err := store.CreateCourse(ctx, persistence.Course{ID: "course-1", Code: "CS301"}); err != nil {
		t.Fatalf("create course: %v", err)
	}

	err := store.CreateCourse(ctx, persistence.Course{ID: "course-2", Code: "cs301"})
	if !errors.Is(err, persistence.ErrDuplicate) {
		t.Errorf("create duplicate code = %v, want ErrDuplicate", err)
	}

	// Updating a course to keep its own code is fine.
	if err := store.UpdateCourse(ctx, persistence.Course{ID: "course-1", Code: "cs301"}); err != nil {
		t.Errorf("update with own code = %v", err)
	}

	got, err := store.GetCourseByCode(ctx, "CS301")
	if err != nil {
		t.Fatalf("get by code: %v", err)
	}
	if got.ID != "course-1" {
		t.Errorf("got %q, want course-1", got.ID)
	}
}

func TestListCoursesOrderedByCode(t *testing.T) {
	store := Open()
	ctx := context.Background()

	for _, c := range []persistence.Course{
		{ID: "course-2", Code: "MA201"},
		{ID: "course-1", Code: "CS301"},
		{ID: "course-3", Code: "PH101"},
	} {
		if err := store.CreateCourse(ctx, c); err != nil {
			t.Fatalf("create course %s: %v", c.ID, err)
		}
	}

	list, err := store.ListCourses(ctx)
	if err != nil {
		t.Fatalf("list courses: %v", err)
	}
	want := []string{"CS301", "MA201", "PH101"}
	for i, code := range want {
		if list[i].Code != code {
			t.Fatalf("position %d = %q, want %q", i, list[i].Code, code)
		}
	}
}

func TestSaveTimetableReplaces(t *testing.T) {
	store := Open()
	ctx := context.Background()

	first := persistence.Timetable{
		Semester:   "Fall",
		Department: "CSE",
		Year:       3,
		Version:    1,
		Assignments: []persistence.Assignment{
			{CourseID: "course-1", Day: 0, Slot: 0},
		},
		GeneratedAt: time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC),
	}
	if err := store.SaveTimetable(ctx, first); err != nil {
		t.Fatalf("save timetable: %v", err)
	}

	second := first
	second.Version = 2
	second.Assignments = []persistence.Assignment{
		{CourseID: "course-2", Day: 1, Slot: 1},
		{CourseID: "course-2", Day: 2, Slot: 1},
	}
	if err := store.SaveTimetable(ctx, second); err != nil {
		t.Fatalf("save replacement: %v", err)
	}

	got, err := store.GetTimetable(ctx, "Fall", "CSE", 3)
	if err != nil {
		t.Fatalf("get timetable: %v", err)
	}
	if got.Version != 2 || len(got.Assignments) != 2 {
		t.Errorf("got version %d with %d assignments, want 2/2", got.Version, len(got.Assignments))
	}

	if err := store.DeleteTimetable(ctx, "Fall", "CSE", 3); err != nil {
		t.Fatalf("delete timetable: %v", err)
	}
	if _, err := store.GetTimetable(ctx, "Fall", "CSE", 3); !errors.Is(err, persistence.ErrNotFound) {
		t.Errorf("get after delete = %v, want ErrNotFound", err)
	}
}

package main

import (
	"context"

	"github.com/example/academic-scheduler/internal/application"
	"github.com/example/academic-scheduler/internal/persistence"
	"github.com/example/academic-scheduler/internal/timetable"
)

type facultyRepositoryAdapter struct {
	repo persistence.FacultyRepository
}

func newFacultyRepositoryAdapter(repo persistence.FacultyRepository) *facultyRepositoryAdapter {
	return &facultyRepositoryAdapter{repo: repo}
}

func (a *facultyRepositoryAdapter) CreateFaculty(ctx context.Context, faculty application.Faculty) (application.Faculty, error) {
	if err := a.repo.CreateFaculty(ctx, toPersistenceFaculty(faculty)); err != nil {
		return application.Faculty{}, err
	}
	stored, err := a.repo.GetFaculty(ctx, faculty.ID)
	if err != nil {
		return application.Faculty{}, err
	}
	return toApplicationFaculty(stored), nil
}

func (a *facultyRepositoryAdapter) GetFaculty(ctx context.Context, id string) (application.Faculty, error) {
	stored, err := a.repo.GetFaculty(ctx, id)
	if err != nil {
		return application.Faculty{}, err
	}
	return toApplicationFaculty(stored), nil
}

func (a *facultyRepositoryAdapter) UpdateFaculty(ctx context.Context, faculty application.Faculty) (application.Faculty, error) {
	if err := a.repo.UpdateFaculty(ctx, toPersistenceFaculty(faculty)); err != nil {
		return application.Faculty{}, err
	}
	stored, err := a.repo.GetFaculty(ctx, faculty.ID)
	if err != nil {
		return application.Faculty{}, err
	}
	return toApplicationFaculty(stored), nil
}

func (a *facultyRepositoryAdapter) DeleteFaculty(ctx context.Context, id string) error {
	return a.repo.DeleteFaculty(ctx, id)
}

func (a *facultyRepositoryAdapter) ListFaculty(ctx context.Context) ([]application.Faculty, error) {
	models, err := a.repo.ListFaculty(ctx)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}
	faculty := make([]application.Faculty, 0, len(models))
	for _, model := range models {
		faculty = append(faculty, toApplicationFaculty(model))
	}
	return faculty, nil
}

type roomRepositoryAdapter struct {
	repo persistence.RoomRepository
}

func newRoomRepositoryAdapter(repo persistence.RoomRepository) *roomRepositoryAdapter {
	return &roomRepositoryAdapter{repo: repo}
}

func (a *roomRepositoryAdapter) CreateRoom(ctx context.Context, room application.Room) (application.Room, error) {
	if err := a.repo.CreateRoom(ctx, toPersistenceRoom(room)); err != nil {
		return application.Room{}, err
	}
	stored, err := a.repo.GetRoom(ctx, room.ID)
	if err != nil {
		return application.Room{}, err
	}
	return toApplicationRoom(stored), nil
}

func (a *roomRepositoryAdapter) GetRoom(ctx context.Context, id string) (application.Room, error) {
	stored, err := a.repo.GetRoom(ctx, id)
	if err != nil {
		return application.Room{}, err
	}
	return toApplicationRoom(stored), nil
}

func (a *roomRepositoryAdapter) UpdateRoom(ctx context.Context, room application.Room) (application.Room, error) {
	if err := a.repo.UpdateRoom(ctx, toPersistenceRoom(room)); err != nil {
		return application.Room{}, err
	}
	stored, err := a.repo.GetRoom(ctx, room.ID)
	if err != nil {
		return application.Room{}, err
	}
	return toApplicationRoom(stored), nil
}

func (a *roomRepositoryAdapter) DeleteRoom(ctx context.Context, id string) error {
	return a.repo.DeleteRoom(ctx, id)
}

func (a *roomRepositoryAdapter) ListRooms(ctx context.Context) ([]application.Room, error) {
	models, err := a.repo.ListRooms(ctx)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}
	rooms := make([]application.Room, 0, len(models))
	for _, model := range models {
		rooms = append(rooms, toApplicationRoom(model))
	}
	return rooms, nil
}

type courseRepositoryAdapter struct {
	repo persistence.CourseRepository
}

func newCourseRepositoryAdapter(repo persistence.CourseRepository) *courseRepositoryAdapter {
	return &courseRepositoryAdapter{repo: repo}
}

func (a *courseRepositoryAdapter) CreateCourse(ctx context.Context, course application.Course) (application.Course, error) {
	if err := a.repo.CreateCourse(ctx, toPersistenceCourse(course)); err != nil {
		return application.Course{}, err
	}
	stored, err := a.repo.GetCourse(ctx, course.ID)
	if err != nil {
		return application.Course{}, err
	}
	return toApplicationCourse(stored), nil
}

func (a *courseRepositoryAdapter) GetCourse(ctx context.Context, id string) (application.Course, error) {
	stored, err := a.repo.GetCourse(ctx, id)
	if err != nil {
		return application.Course{}, err
	}
	return toApplicationCourse(stored), nil
}

func (a *courseRepositoryAdapter) GetCourseByCode(ctx context.Context, code string) (application.Course, error) {
	stored, err := a.repo.GetCourseByCode(ctx, code)
	if err != nil {
		return application.Course{}, err
	}
	return toApplicationCourse(stored), nil
}

func (a *courseRepositoryAdapter) UpdateCourse(ctx context.Context, course application.Course) (application.Course, error) {
	if err := a.repo.UpdateCourse(ctx, toPersistenceCourse(course)); err != nil {
		return application.Course{}, err
	}
	stored, err := a.repo.GetCourse(ctx, course.ID)
	if err != nil {
		return application.Course{}, err
	}
	return toApplicationCourse(stored), nil
}

func (a *courseRepositoryAdapter) DeleteCourse(ctx context.Context, id string) error {
	return a.repo.DeleteCourse(ctx, id)
}

func (a *courseRepositoryAdapter) ListCourses(ctx context.Context) ([]application.Course, error) {
	models, err := a.repo.ListCourses(ctx)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}
	courses := make([]application.Course, 0, len(models))
	for _, model := range models {
		courses = append(courses, toApplicationCourse(model))
	}
	return courses, nil
}

type timetableStoreAdapter struct {
	repo persistence.TimetableRepository
}

func newTimetableStoreAdapter(repo persistence.TimetableRepository) *timetableStoreAdapter {
	return &timetableStoreAdapter{repo: repo}
}

func (a *timetableStoreAdapter) SaveTimetable(ctx context.Context, tt application.Timetable) error {
	return a.repo.SaveTimetable(ctx, toPersistenceTimetable(tt))
}

func (a *timetableStoreAdapter) GetTimetable(ctx context.Context, semester, department string, year int) (application.Timetable, error) {
	stored, err := a.repo.GetTimetable(ctx, semester, department, year)
	if err != nil {
		return application.Timetable{}, err
	}
	return toApplicationTimetable(stored), nil
}

func (a *timetableStoreAdapter) ListTimetables(ctx context.Context) ([]application.Timetable, error) {
	models, err := a.repo.ListTimetables(ctx)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}
	timetables := make([]application.Timetable, 0, len(models))
	for _, model := range models {
		timetables = append(timetables, toApplicationTimetable(model))
	}
	return timetables, nil
}

func (a *timetableStoreAdapter) DeleteTimetable(ctx context.Context, semester, department string, year int) error {
	return a.repo.DeleteTimetable(ctx, semester, department, year)
}

func toApplicationFaculty(model persistence.Faculty) application.Faculty {
	return application.Faculty{
		ID:           model.ID,
		Name:         model.Name,
		Email:        model.Email,
		Department:   model.Department,
		Availability: toTimetableWindows(model.Availability),
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}
}

func toPersistenceFaculty(faculty application.Faculty) persistence.Faculty {
	return persistence.Faculty{
		ID:           faculty.ID,
		Name:         faculty.Name,
		Email:        faculty.Email,
		Department:   faculty.Department,
		Availability: toPersistenceWindows(faculty.Availability),
		CreatedAt:    faculty.CreatedAt,
		UpdatedAt:    faculty.UpdatedAt,
	}
}

func toApplicationRoom(model persistence.Room) application.Room {
	return application.Room{
		ID:           model.ID,
		Number:       model.Number,
		Type:         application.RoomType(model.Type),
		Capacity:     model.Capacity,
		Availability: toTimetableWindows(model.Availability),
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}
}

func toPersistenceRoom(room application.Room) persistence.Room {
	return persistence.Room{
		ID:           room.ID,
		Number:       room.Number,
		Type:         string(room.Type),
		Capacity:     room.Capacity,
		Availability: toPersistenceWindows(room.Availability),
		CreatedAt:    room.CreatedAt,
		UpdatedAt:    room.UpdatedAt,
	}
}

func toApplicationCourse(model persistence.Course) application.Course {
	return application.Course{
		ID:         model.ID,
		Code:       model.Code,
		Name:       model.Name,
		Department: model.Department,
		Year:       model.Year,
		Credits:    model.Credits,
		Sessions:   model.Sessions,
		FacultyID:  model.FacultyID,
		Enrollment: model.Enrollment,
		CreatedAt:  model.CreatedAt,
		UpdatedAt:  model.UpdatedAt,
	}
}

func toPersistenceCourse(course application.Course) persistence.Course {
	return persistence.Course{
		ID:         course.ID,
		Code:       course.Code,
		Name:       course.Name,
		Department: course.Department,
		Year:       course.Year,
		Credits:    course.Credits,
		Sessions:   course.Sessions,
		FacultyID:  course.FacultyID,
		Enrollment: course.Enrollment,
		CreatedAt:  course.CreatedAt,
		UpdatedAt:  course.UpdatedAt,
	}
}

func toApplicationTimetable(model persistence.Timetable) application.Timetable {
	assignments := make([]timetable.Assignment, 0, len(model.Assignments))
	for _, a := range model.Assignments {
		assignments = append(assignments, timetable.Assignment{
			CourseID:  a.CourseID,
			FacultyID: a.FacultyID,
			RoomID:    a.RoomID,
			Day:       timetable.Day(a.Day),
			Slot:      timetable.Slot(a.Slot),
		})
	}
	return application.Timetable{
		Semester:    model.Semester,
		Department:  model.Department,
		Year:        model.Year,
		Version:     model.Version,
		Constraints: append([]string(nil), model.Constraints...),
		Assignments: assignments,
		GeneratedAt: model.GeneratedAt,
	}
}

func toPersistenceTimetable(tt application.Timetable) persistence.Timetable {
	assignments := make([]persistence.Assignment, 0, len(tt.Assignments))
	for _, a := range tt.Assignments {
		assignments = append(assignments, persistence.Assignment{
			CourseID:  a.CourseID,
			FacultyID: a.FacultyID,
			RoomID:    a.RoomID,
			Day:       int(a.Day),
			Slot:      int(a.Slot),
		})
	}
	return persistence.Timetable{
		Semester:    tt.Semester,
		Department:  tt.Department,
		Year:        tt.Year,
		Version:     tt.Version,
		Constraints: append([]string(nil), tt.Constraints...),
		Assignments: assignments,
		GeneratedAt: tt.GeneratedAt,
	}
}

func toTimetableWindows(windows []persistence.Window) []timetable.Window {
	if len(windows) == 0 {
		return nil
	}
	converted := make([]timetable.Window, 0, len(windows))
	for _, w := range windows {
		converted = append(converted, timetable.Window{
			Day:       timetable.Day(w.Day),
			StartHour: w.StartHour,
			EndHour:   w.EndHour,
		})
	}
	return converted
}

func toPersistenceWindows(windows []timetable.Window) []persistence.Window {
	if len(windows) == 0 {
		return nil
	}
	converted := make([]persistence.Window, 0, len(windows))
	for _, w := range windows {
		converted = append(converted, persistence.Window{
			Day:       int(w.Day),
			StartHour: w.StartHour,
			EndHour:   w.EndHour,
		})
	}
	return converted
}

package application

import (
	"context"
	"errors"
	"testing"

	"github.com/example/academic-scheduler/internal/timetable"
)

type roomRepoStub struct {
	createErr error
	created   Room

	getRoom Room
	getErr  error

	updateErr error
	updated   Room

	deleteErr error
	deletedID string

	list    []Room
	listErr error
}

func (r *roomRepoStub) CreateRoom(ctx context.Context, room Room) (Room, error) {
	if r.createErr != nil {
		return Room{}, r.createErr
	}
	r.created = room
	return room, nil
}

func (r *roomRepoStub) GetRoom(ctx context.Context, id string) (Room, error) {
	if r.getErr != nil {
		return Room{}, r.getErr
	}
	if r.getRoom.ID == "" {
		return Room{}, ErrNotFound
	}
	return r.getRoom, nil
}

func (r *roomRepoStub) UpdateRoom(ctx context.Context, room Room) (Room, error) {
	if r.updateErr != nil {
		return Room{}, r.updateErr
	}
	r.updated = room
	return room, nil
}

func (r *roomRepoStub) DeleteRoom(ctx context.Context, id string) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	r.deletedID = id
	return nil
}

func (r *roomRepoStub) ListRooms(ctx context.Context) ([]Room, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]Room, len(r.list))
	copy(out, r.list)
	return out, nil
}

type timetableListerStub struct {
	list    []Timetable
	listErr error
}

func (s *timetableListerStub) ListTimetables(ctx context.Context) ([]Timetable, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]Timetable, len(s.list))
	copy(out, s.list)
	return out, nil
}

func TestRoomService_CreateRoom(t *testing.T) {
	t.Run("requires administrator privileges", func(t *testing.T) {
		svc := NewRoomService(nil, nil, nil, nil, nil)

		_, err := svc.CreateRoom(context.Background(), CreateRoomParams{
			Principal: Principal{UserID: "s-1", Role: timetable.RoleStudent},
			Input: RoomInput{
				Number:   "B-204",
				Type:     RoomTypeLectureHall,
				Capacity: 80,
			},
		})
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		svc := NewRoomService(nil, nil, nil, nil, nil)

		_, err := svc.CreateRoom(context.Background(), CreateRoomParams{
			Principal: adminPrincipal(),
			Input:     RoomInput{Type: RoomType("closet"), Capacity: 0},
		})

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		for _, field := range []string{"number", "type", "capacity"} {
			if _, ok := vErr.FieldErrors[field]; !ok {
				t.Errorf("expected field error for %q, got %v", field, vErr.FieldErrors)
			}
		}
	})

	t.Run("persists valid rooms", func(t *testing.T) {
		repo := &roomRepoStub{}
		svc := NewRoomService(repo, nil, nil, func() string { return "room-1" }, fixedNow())

		room, err := svc.CreateRoom(context.Background(), CreateRoomParams{
			Principal: adminPrincipal(),
			Input: RoomInput{
				Number:   " B-204 ",
				Type:     RoomTypeComputerLab,
				Capacity: 40,
			},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if room.ID != "room-1" || room.Number != "B-204" || room.Type != RoomTypeComputerLab {
			t.Errorf("unexpected room: %+v", room)
		}
	})
}

func TestRoomService_DeleteRoom(t *testing.T) {
	t.Run("refuses delete while a timetable assigns the room", func(t *testing.T) {
		repo := &roomRepoStub{}
		timetables := &timetableListerStub{list: []Timetable{
			{
				Semester: "Fall", Department: "CSE", Year: 3,
				Assignments: []timetable.Assignment{
					{CourseID: "course-1", RoomID: "room-1"},
				},
			},
		}}
		svc := NewRoomService(repo, timetables, nil, nil, nil)

		err := svc.DeleteRoom(context.Background(), adminPrincipal(), "room-1")
		if !errors.Is(err, ErrInUse) {
			t.Fatalf("expected ErrInUse, got %v", err)
		}
		if repo.deletedID != "" {
			t.Errorf("delete reached repository: %q", repo.deletedID)
		}
	})

	t.Run("refuses delete while a generation holds the room", func(t *testing.T) {
		guard := &guardStub{held: map[string]bool{"room-1": true}}
		svc := NewRoomService(&roomRepoStub{}, &timetableListerStub{}, guard, nil, nil)

		if err := svc.DeleteRoom(context.Background(), adminPrincipal(), "room-1"); !errors.Is(err, ErrInUse) {
			t.Fatalf("expected ErrInUse, got %v", err)
		}
	})

	t.Run("deletes unreferenced rooms", func(t *testing.T) {
		repo := &roomRepoStub{}
		svc := NewRoomService(repo, &timetableListerStub{}, &guardStub{}, nil, nil)

		if err := svc.DeleteRoom(context.Background(), adminPrincipal(), "room-1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if repo.deletedID != "room-1" {
			t.Errorf("deleted %q, want room-1", repo.deletedID)
		}
	})
}

func TestRoomService_FindRooms(t *testing.T) {
	repo := &roomRepoStub{list: []Room{
		{ID: "room-1", Number: "B-204"},
		{ID: "room-2", Number: "A-101"},
		{ID: "room-3", Number: "B-305"},
	}}
	svc := NewRoomService(repo, nil, nil, nil, nil)

	seq, err := svc.FindRooms(context.Background(), adminPrincipal(), "b-")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var ids []string
	for room := range seq {
		ids = append(ids, room.ID)
	}
	if len(ids) != 2 || ids[0] != "room-1" || ids[1] != "room-3" {
		t.Errorf("ids = %v, want [room-1 room-3]", ids)
	}
}

package application

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"strings"
	"time"
)

// RoomRepository captures the persistence operations needed by the service.
type RoomRepository interface {
	CreateRoom(ctx context.Context, room Room) (Room, error)
	GetRoom(ctx context.Context, id string) (Room, error)
	UpdateRoom(ctx context.Context, room Room) (Room, error)
	DeleteRoom(ctx context.Context, id string) error
	ListRooms(ctx context.Context) ([]Room, error)
}

// TimetableLister exposes the stored timetables a delete guard needs.
type TimetableLister interface {
	ListTimetables(ctx context.Context) ([]Timetable, error)
}

// RoomService orchestrates validation, authorization, and persistence for rooms.
type RoomService struct {
	rooms       RoomRepository
	timetables  TimetableLister
	guard       EntityGuard
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewRoomService constructs a room service with the provided dependencies.
func NewRoomService(rooms RoomRepository, timetables TimetableLister, guard EntityGuard, idGenerator func() string, now func() time.Time) *RoomService {
	return NewRoomServiceWithLogger(rooms, timetables, guard, idGenerator, now, nil)
}

// NewRoomServiceWithLogger constructs a room service with a specified logger.
func NewRoomServiceWithLogger(rooms RoomRepository, timetables TimetableLister, guard EntityGuard, idGenerator func() string, now func() time.Time, logger *slog.Logger) *RoomService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &RoomService{
		rooms:       rooms,
		timetables:  timetables,
		guard:       guard,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *RoomService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "RoomService", operation, attrs...)
}

// CreateRoom validates input and registers a new room for administrators.
func (s *RoomService) CreateRoom(ctx context.Context, params CreateRoomParams) (room Room, err error) {
	if s == nil {
		err = fmt.Errorf("RoomService is nil")
		return
	}

	logger := s.loggerWith(ctx, "CreateRoom",
		"principal_id", params.Principal.UserID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create room", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("room_id", room.ID).InfoContext(ctx, "room created")
	}()

	if !params.Principal.IsAdmin() {
		err = ErrUnauthorized
		return
	}

	vErr := validateRoomInput(params.Input)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	room = Room{
		ID:           s.idGenerator(),
		Number:       strings.TrimSpace(params.Input.Number),
		Type:         params.Input.Type,
		Capacity:     params.Input.Capacity,
		Availability: cloneWindows(params.Input.Availability),
		CreatedAt:    s.now(),
	}
	room.UpdatedAt = room.CreatedAt

	if s.rooms == nil {
		return
	}

	var persisted Room
	persisted, err = s.rooms.CreateRoom(ctx, room)
	if err != nil {
		err = mapRepoError(err)
		return
	}

	room = persisted
	return
}

// UpdateRoom validates input and updates an existing room for administrators.
func (s *RoomService) UpdateRoom(ctx context.Context, params UpdateRoomParams) (room Room, err error) {
	if s == nil {
		err = fmt.Errorf("RoomService is nil")
		return
	}

	logger := s.loggerWith(ctx, "UpdateRoom",
		"principal_id", params.Principal.UserID,
		"room_id", params.RoomID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update room", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "room updated")
	}()

	if !params.Principal.IsAdmin() {
		err = ErrUnauthorized
		return
	}
	if s.rooms == nil {
		err = fmt.Errorf("room repository not configured")
		return
	}

	vErr := validateRoomInput(params.Input)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	var current Room
	current, err = s.rooms.GetRoom(ctx, params.RoomID)
	if err != nil {
		err = mapRepoError(err)
		return
	}

	current.Number = strings.TrimSpace(params.Input.Number)
	current.Type = params.Input.Type
	current.Capacity = params.Input.Capacity
	current.Availability = cloneWindows(params.Input.Availability)
	current.UpdatedAt = s.now()

	room, err = s.rooms.UpdateRoom(ctx, current)
	if err != nil {
		err = mapRepoError(err)
		return
	}
	return
}

// GetRoom retrieves a room for any authenticated principal.
func (s *RoomService) GetRoom(ctx context.Context, principal Principal, roomID string) (Room, error) {
	if s == nil || s.rooms == nil {
		return Room{}, fmt.Errorf("room repository not configured")
	}
	if !principal.Role.Valid() {
		return Room{}, ErrUnauthorized
	}

	room, err := s.rooms.GetRoom(ctx, roomID)
	if err != nil {
		return Room{}, mapRepoError(err)
	}
	return room, nil
}

// ListRooms returns every registered room.
func (s *RoomService) ListRooms(ctx context.Context, principal Principal) ([]Room, error) {
	if s == nil || s.rooms == nil {
		return nil, fmt.Errorf("room repository not configured")
	}
	if !principal.Role.Valid() {
		return nil, ErrUnauthorized
	}

	list, err := s.rooms.ListRooms(ctx)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return list, nil
}

// FindRooms returns a lazily evaluated sequence of rooms whose number
// contains the query, case-insensitively.
func (s *RoomService) FindRooms(ctx context.Context, principal Principal, query string) (iter.Seq[Room], error) {
	if s == nil || s.rooms == nil {
		return nil, fmt.Errorf("room repository not configured")
	}
	if !principal.Role.Valid() {
		return nil, ErrUnauthorized
	}

	list, err := s.rooms.ListRooms(ctx)
	if err != nil {
		return nil, mapRepoError(err)
	}

	needle := strings.ToLower(strings.TrimSpace(query))
	return func(yield func(Room) bool) {
		for _, room := range list {
			if needle != "" && !strings.Contains(strings.ToLower(room.Number), needle) {
				continue
			}
			if !yield(room) {
				return
			}
		}
	}, nil
}

// DeleteRoom removes a room for administrators. The delete is refused while
// a stored timetable assigns the room or a generation holding it is in
// flight.
func (s *RoomService) DeleteRoom(ctx context.Context, principal Principal, roomID string) error {
	if s == nil {
		return fmt.Errorf("RoomService is nil")
	}
	if !principal.IsAdmin() {
		return ErrUnauthorized
	}
	if s.rooms == nil {
		return fmt.Errorf("room repository not configured")
	}

	logger := s.loggerWith(ctx, "DeleteRoom",
		"principal_id", principal.UserID,
		"room_id", roomID,
	)

	if s.guard != nil && s.guard.Holds(roomID) {
		logger.ErrorContext(ctx, "room pinned by running generation", "error_kind", ErrorKind(ErrInUse))
		return fmt.Errorf("room %s: %w", roomID, ErrInUse)
	}

	if s.timetables != nil {
		stored, err := s.timetables.ListTimetables(ctx)
		if err != nil {
			logger.ErrorContext(ctx, "failed to check timetable references", "error", err)
			return mapRepoError(err)
		}
		for _, timetable := range stored {
			for _, assignment := range timetable.Assignments {
				if assignment.RoomID == roomID {
					err := fmt.Errorf("room %s assigned in timetable %s/%s/%d: %w",
						roomID, timetable.Semester, timetable.Department, timetable.Year, ErrInUse)
					logger.ErrorContext(ctx, "room still referenced", "error", err, "error_kind", ErrorKind(err))
					return err
				}
			}
		}
	}

	if err := s.rooms.DeleteRoom(ctx, roomID); err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to delete room", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	logger.InfoContext(ctx, "room deleted")
	return nil
}

func validateRoomInput(input RoomInput) *ValidationError {
	vErr := &ValidationError{}

	if strings.TrimSpace(input.Number) == "" {
		vErr.add("number", "number is required")
	}
	if !input.Type.Valid() {
		vErr.add("type", "type must be lecture_hall, computer_lab, classroom, or laboratory")
	}
	if input.Capacity <= 0 {
		vErr.add("capacity", "capacity must be positive")
	}
	vErr.merge(validateWindows(input.Availability))

	return vErr
}

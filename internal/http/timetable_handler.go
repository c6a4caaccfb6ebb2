package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/example/academic-scheduler/internal/application"
	"github.com/example/academic-scheduler/internal/timetable"
)

type timetableService interface {
	Generate(ctx context.Context, params application.GenerateTimetableParams) (application.Timetable, error)
	GetTimetable(ctx context.Context, params application.GetTimetableParams) (application.Timetable, error)
	ListTimetables(ctx context.Context, principal application.Principal) ([]application.Timetable, error)
	DeleteTimetable(ctx context.Context, params application.DeleteTimetableParams) error
	CancelGeneration(ctx context.Context, params application.DeleteTimetableParams) error
}

type TimetableHandler struct {
	service   timetableService
	responder responder
	logger    *slog.Logger
}

func NewTimetableHandler(service timetableService, logger *slog.Logger) *TimetableHandler {
	base := defaultLogger(logger)
	return &TimetableHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *TimetableHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "TimetableHandler", operation, attrs...)
}

// Generate kicks off a synchronous generation run for one key.
func (h *TimetableHandler) Generate(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Generate", "principal_id", principal.UserID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode generate request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Generate",
		"principal_id", principal.UserID,
		"semester", req.Semester,
		"department", req.Department,
		"year", req.Year,
	)

	generated, err := h.service.Generate(r.Context(), application.GenerateTimetableParams{
		Principal:  principal,
		Semester:   strings.TrimSpace(req.Semester),
		Department: strings.TrimSpace(req.Department),
		Year:       req.Year,
		Flags: application.ConstraintFlags{
			NoFridayAfternoon:  req.Constraints.NoFridayAfternoon,
			MaxPerDay:          req.Constraints.MaxPerDay,
			MaxPerDayLimit:     req.Constraints.MaxPerDayLimit,
			LunchBreakReserved: req.Constraints.LunchBreakReserved,
		},
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "generation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("version", generated.Version).InfoContext(r.Context(), "timetable generated")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, timetableResponse{Timetable: toTimetableDTO(generated)})
}

// Get serves one timetable scoped to the requesting principal. Students
// pass their enrolled courses via the courses query parameter.
func (h *TimetableHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	key, ok := timetableKeyFromRequest(r)
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidKeyPath)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Get",
		"principal_id", principal.UserID,
		"semester", key.Semester,
		"department", key.Department,
		"year", key.Year,
	)

	var courseIDs []string
	if raw := strings.TrimSpace(r.URL.Query().Get("courses")); raw != "" {
		for _, id := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(id); trimmed != "" {
				courseIDs = append(courseIDs, trimmed)
			}
		}
	}

	tt, err := h.service.GetTimetable(r.Context(), application.GetTimetableParams{
		Principal:  principal,
		Semester:   key.Semester,
		Department: key.Department,
		Year:       key.Year,
		CourseIDs:  courseIDs,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "timetable fetch failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, timetableResponse{Timetable: toTimetableDTO(tt)})
}

// List returns every stored timetable for administrators.
func (h *TimetableHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "List", "principal_id", principal.UserID)

	timetables, err := h.service.ListTimetables(r.Context(), principal)
	if err != nil {
		logger.ErrorContext(r.Context(), "timetable list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(timetables)).InfoContext(r.Context(), "timetables listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listTimetablesResponse{Timetables: toTimetableDTOs(timetables)})
}

// Delete removes one stored timetable.
func (h *TimetableHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	key, ok := timetableKeyFromRequest(r)
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidKeyPath)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Delete",
		"principal_id", principal.UserID,
		"semester", key.Semester,
		"department", key.Department,
		"year", key.Year,
	)

	err := h.service.DeleteTimetable(r.Context(), application.DeleteTimetableParams{
		Principal:  principal,
		Semester:   key.Semester,
		Department: key.Department,
		Year:       key.Year,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "timetable delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "timetable deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

// Cancel aborts the in-flight generation for one key.
func (h *TimetableHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	key, ok := timetableKeyFromRequest(r)
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidKeyPath)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Cancel",
		"principal_id", principal.UserID,
		"semester", key.Semester,
		"department", key.Department,
		"year", key.Year,
	)

	err := h.service.CancelGeneration(r.Context(), application.DeleteTimetableParams{
		Principal:  principal,
		Semester:   key.Semester,
		Department: key.Department,
		Year:       key.Year,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "generation cancel failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "generation cancelled")
	h.responder.writeJSON(r.Context(), w, http.StatusAccepted, nil)
}

// timetableKeyFromRequest resolves the semester/department/year triple the
// router stored from the request path.
func timetableKeyFromRequest(r *http.Request) (timetable.Key, bool) {
	raw, ok := EntityIDFromContext(r.Context())
	if !ok {
		return timetable.Key{}, false
	}

	parts := strings.Split(raw, "/")
	if len(parts) != 3 {
		return timetable.Key{}, false
	}
	year, err := strconv.Atoi(parts[2])
	if err != nil {
		return timetable.Key{}, false
	}

	key := timetable.Key{
		Semester:   strings.TrimSpace(parts[0]),
		Department: strings.TrimSpace(parts[1]),
		Year:       year,
	}
	if key.Semester == "" || key.Department == "" {
		return timetable.Key{}, false
	}
	return key, true
}

type generateRequest struct {
	Semester    string             `json:"semester"`
	Department  string             `json:"department"`
	Year        int                `json:"year"`
	Constraints constraintFlagsDTO `json:"constraints"`
}

type constraintFlagsDTO struct {
	NoFridayAfternoon  bool `json:"no_friday_afternoon"`
	MaxPerDay          bool `json:"max_per_day"`
	MaxPerDayLimit     int  `json:"max_per_day_limit"`
	LunchBreakReserved bool `json:"lunch_break_reserved"`
}

type timetableResponse struct {
	Timetable timetableDTO `json:"timetable"`
}

type listTimetablesResponse struct {
	Timetables []timetableDTO `json:"timetables"`
}

type timetableDTO struct {
	Semester    string          `json:"semester"`
	Department  string          `json:"department"`
	Year        int             `json:"year"`
	Version     int             `json:"version"`
	Constraints []string        `json:"constraints"`
	Assignments []assignmentDTO `json:"assignments"`
	GeneratedAt string          `json:"generated_at"`
}

type assignmentDTO struct {
	CourseID  string `json:"course_id"`
	FacultyID string `json:"faculty_id"`
	RoomID    string `json:"room_id"`
	Day       string `json:"day"`
	Slot      int    `json:"slot"`
	Time      string `json:"time"`
}

func toTimetableDTO(tt application.Timetable) timetableDTO {
	assignments := make([]assignmentDTO, 0, len(tt.Assignments))
	for _, a := range tt.Assignments {
		assignments = append(assignments, assignmentDTO{
			CourseID:  a.CourseID,
			FacultyID: a.FacultyID,
			RoomID:    a.RoomID,
			Day:       a.Day.String(),
			Slot:      int(a.Slot),
			Time:      a.Slot.Label(),
		})
	}
	return timetableDTO{
		Semester:    tt.Semester,
		Department:  tt.Department,
		Year:        tt.Year,
		Version:     tt.Version,
		Constraints: tt.Constraints,
		Assignments: assignments,
		GeneratedAt: tt.GeneratedAt.UTC().Format(time.RFC3339Nano),
	}
}

func toTimetableDTOs(timetables []application.Timetable) []timetableDTO {
	if len(timetables) == 0 {
		return nil
	}
	out := make([]timetableDTO, 0, len(timetables))
	for _, tt := range timetables {
		out = append(out, toTimetableDTO(tt))
	}
	return out
}

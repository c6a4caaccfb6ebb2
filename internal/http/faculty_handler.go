package http

import (
	"context"
	"encoding/json"
	"iter"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/academic-scheduler/internal/application"
)

type facultyService interface {
	CreateFaculty(ctx context.Context, params application.CreateFacultyParams) (application.Faculty, error)
	UpdateFaculty(ctx context.Context, params application.UpdateFacultyParams) (application.Faculty, error)
	GetFaculty(ctx context.Context, principal application.Principal, facultyID string) (application.Faculty, error)
	DeleteFaculty(ctx context.Context, principal application.Principal, facultyID string) error
	ListFaculty(ctx context.Context, principal application.Principal) ([]application.Faculty, error)
	FindFaculty(ctx context.Context, principal application.Principal, query string) (iter.Seq[application.Faculty], error)
}

type FacultyHandler struct {
	service   facultyService
	responder responder
	logger    *slog.Logger
}

func NewFacultyHandler(service facultyService, logger *slog.Logger) *FacultyHandler {
	base := defaultLogger(logger)
	return &FacultyHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *FacultyHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "FacultyHandler", operation, attrs...)
}

func (h *FacultyHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req facultyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "principal_id", principal.UserID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode faculty request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	input, err := req.toInput()
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	logger := h.log(r.Context(), "Create", "principal_id", principal.UserID)

	faculty, err := h.service.CreateFaculty(r.Context(), application.CreateFacultyParams{
		Principal: principal,
		Input:     input,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "faculty creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("faculty_id", faculty.ID).InfoContext(r.Context(), "faculty created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, facultyResponse{Faculty: toFacultyDTO(faculty)})
}

func (h *FacultyHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	facultyID, ok := EntityIDFromContext(r.Context())
	if !ok || strings.TrimSpace(facultyID) == "" {
		h.log(r.Context(), "Update", "error_kind", "bad_request").ErrorContext(r.Context(), "missing faculty id for update")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidFacultyID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req facultyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Update", "principal_id", principal.UserID, "faculty_id", facultyID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode faculty update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	input, err := req.toInput()
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	logger := h.log(r.Context(), "Update", "principal_id", principal.UserID, "faculty_id", facultyID)

	faculty, err := h.service.UpdateFaculty(r.Context(), application.UpdateFacultyParams{
		Principal: principal,
		FacultyID: facultyID,
		Input:     input,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "faculty update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "faculty updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, facultyResponse{Faculty: toFacultyDTO(faculty)})
}

func (h *FacultyHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	facultyID, ok := EntityIDFromContext(r.Context())
	if !ok || strings.TrimSpace(facultyID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidFacultyID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Get", "principal_id", principal.UserID, "faculty_id", facultyID)

	faculty, err := h.service.GetFaculty(r.Context(), principal, facultyID)
	if err != nil {
		logger.ErrorContext(r.Context(), "faculty fetch failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, facultyResponse{Faculty: toFacultyDTO(faculty)})
}

func (h *FacultyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	facultyID, ok := EntityIDFromContext(r.Context())
	if !ok || strings.TrimSpace(facultyID) == "" {
		h.log(r.Context(), "Delete", "error_kind", "bad_request").ErrorContext(r.Context(), "missing faculty id for delete")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidFacultyID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Delete", "principal_id", principal.UserID, "faculty_id", facultyID)
	if err := h.service.DeleteFaculty(r.Context(), principal, facultyID); err != nil {
		logger.ErrorContext(r.Context(), "faculty delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "faculty deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

// List serves both full listings and substring search via the q parameter.
func (h *FacultyHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	logger := h.log(r.Context(), "List", "principal_id", principal.UserID)

	var list []application.Faculty
	if query != "" {
		seq, err := h.service.FindFaculty(r.Context(), principal, query)
		if err != nil {
			logger.ErrorContext(r.Context(), "faculty search failed", "error", err, "error_kind", application.ErrorKind(err))
			h.responder.handleServiceError(r.Context(), w, err)
			return
		}
		for faculty := range seq {
			list = append(list, faculty)
		}
	} else {
		var err error
		list, err = h.service.ListFaculty(r.Context(), principal)
		if err != nil {
			logger.ErrorContext(r.Context(), "faculty list failed", "error", err, "error_kind", application.ErrorKind(err))
			h.responder.handleServiceError(r.Context(), w, err)
			return
		}
	}

	logger.With("result_count", len(list)).InfoContext(r.Context(), "faculty listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listFacultyResponse{Faculty: toFacultyDTOs(list)})
}

type facultyRequest struct {
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	Department   string      `json:"department"`
	Availability []windowDTO `json:"availability"`
}

func (r facultyRequest) toInput() (application.FacultyInput, error) {
	windows, err := fromWindowDTOs(r.Availability)
	if err != nil {
		return application.FacultyInput{}, err
	}
	return application.FacultyInput{
		Name:         strings.TrimSpace(r.Name),
		Email:        strings.TrimSpace(r.Email),
		Department:   strings.TrimSpace(r.Department),
		Availability: windows,
	}, nil
}

type facultyResponse struct {
	Faculty facultyDTO `json:"faculty"`
}

type listFacultyResponse struct {
	Faculty []facultyDTO `json:"faculty"`
}

type facultyDTO struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	Department   string      `json:"department"`
	Availability []windowDTO `json:"availability,omitempty"`
	CreatedAt    string      `json:"created_at"`
	UpdatedAt    string      `json:"updated_at"`
}

func toFacultyDTO(faculty application.Faculty) facultyDTO {
	return facultyDTO{
		ID:           faculty.ID,
		Name:         faculty.Name,
		Email:        faculty.Email,
		Department:   faculty.Department,
		Availability: toWindowDTOs(faculty.Availability),
		CreatedAt:    faculty.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:    faculty.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func toFacultyDTOs(list []application.Faculty) []facultyDTO {
	if len(list) == 0 {
		return nil
	}
	out := make([]facultyDTO, 0, len(list))
	for _, faculty := range list {
		out = append(out, toFacultyDTO(faculty))
	}
	return out
}

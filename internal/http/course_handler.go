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

type courseService interface {
	CreateCourse(ctx context.Context, params application.CreateCourseParams) (application.Course, error)
	UpdateCourse(ctx context.Context, params application.UpdateCourseParams) (application.Course, error)
	GetCourse(ctx context.Context, principal application.Principal, courseID string) (application.Course, error)
	DeleteCourse(ctx context.Context, principal application.Principal, courseID string) error
	ListCourses(ctx context.Context, principal application.Principal) ([]application.Course, error)
	FindCourses(ctx context.Context, principal application.Principal, query string) (iter.Seq[application.Course], error)
}

type CourseHandler struct {
	service   courseService
	responder responder
	logger    *slog.Logger
}

func NewCourseHandler(service courseService, logger *slog.Logger) *CourseHandler {
	base := defaultLogger(logger)
	return &CourseHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *CourseHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "CourseHandler", operation, attrs...)
}

func (h *CourseHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req courseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "principal_id", principal.UserID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode course request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create", "principal_id", principal.UserID)

	course, err := h.service.CreateCourse(r.Context(), application.CreateCourseParams{
		Principal: principal,
		Input:     req.toInput(),
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "course creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("course_id", course.ID).InfoContext(r.Context(), "course created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, courseResponse{Course: toCourseDTO(course)})
}

func (h *CourseHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	courseID, ok := EntityIDFromContext(r.Context())
	if !ok || strings.TrimSpace(courseID) == "" {
		h.log(r.Context(), "Update", "error_kind", "bad_request").ErrorContext(r.Context(), "missing course id for update")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidCourseID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req courseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Update", "principal_id", principal.UserID, "course_id", courseID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode course update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Update", "principal_id", principal.UserID, "course_id", courseID)

	course, err := h.service.UpdateCourse(r.Context(), application.UpdateCourseParams{
		Principal: principal,
		CourseID:  courseID,
		Input:     req.toInput(),
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "course update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "course updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, courseResponse{Course: toCourseDTO(course)})
}

func (h *CourseHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	courseID, ok := EntityIDFromContext(r.Context())
	if !ok || strings.TrimSpace(courseID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidCourseID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Get", "principal_id", principal.UserID, "course_id", courseID)

	course, err := h.service.GetCourse(r.Context(), principal, courseID)
	if err != nil {
		logger.ErrorContext(r.Context(), "course fetch failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, courseResponse{Course: toCourseDTO(course)})
}

func (h *CourseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	courseID, ok := EntityIDFromContext(r.Context())
	if !ok || strings.TrimSpace(courseID) == "" {
		h.log(r.Context(), "Delete", "error_kind", "bad_request").ErrorContext(r.Context(), "missing course id for delete")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidCourseID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Delete", "principal_id", principal.UserID, "course_id", courseID)
	if err := h.service.DeleteCourse(r.Context(), principal, courseID); err != nil {
		logger.ErrorContext(r.Context(), "course delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "course deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *CourseHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	logger := h.log(r.Context(), "List", "principal_id", principal.UserID)

	var courses []application.Course
	if query != "" {
		seq, err := h.service.FindCourses(r.Context(), principal, query)
		if err != nil {
			logger.ErrorContext(r.Context(), "course search failed", "error", err, "error_kind", application.ErrorKind(err))
			h.responder.handleServiceError(r.Context(), w, err)
			return
		}
		for course := range seq {
			courses = append(courses, course)
		}
	} else {
		var err error
		courses, err = h.service.ListCourses(r.Context(), principal)
		if err != nil {
			logger.ErrorContext(r.Context(), "course list failed", "error", err, "error_kind", application.ErrorKind(err))
			h.responder.handleServiceError(r.Context(), w, err)
			return
		}
	}

	logger.With("result_count", len(courses)).InfoContext(r.Context(), "courses listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listCoursesResponse{Courses: toCourseDTOs(courses)})
}

type courseRequest struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	Department string `json:"department"`
	Year       int    `json:"year"`
	Credits    int    `json:"credits"`
	Sessions   int    `json:"sessions"`
	FacultyID  string `json:"faculty_id"`
	Enrollment int    `json:"enrollment"`
}

func (r courseRequest) toInput() application.CourseInput {
	return application.CourseInput{
		Code:       strings.TrimSpace(r.Code),
		Name:       strings.TrimSpace(r.Name),
		Department: strings.TrimSpace(r.Department),
		Year:       r.Year,
		Credits:    r.Credits,
		Sessions:   r.Sessions,
		FacultyID:  strings.TrimSpace(r.FacultyID),
		Enrollment: r.Enrollment,
	}
}

type courseResponse struct {
	Course courseDTO `json:"course"`
}

type listCoursesResponse struct {
	Courses []courseDTO `json:"courses"`
}

type courseDTO struct {
	ID         string `json:"id"`
	Code       string `json:"code"`
	Name       string `json:"name"`
	Department string `json:"department"`
	Year       int    `json:"year"`
	Credits    int    `json:"credits"`
	Sessions   int    `json:"sessions"`
	FacultyID  string `json:"faculty_id"`
	Enrollment int    `json:"enrollment"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

func toCourseDTO(course application.Course) courseDTO {
	return courseDTO{
		ID:         course.ID,
		Code:       course.Code,
		Name:       course.Name,
		Department: course.Department,
		Year:       course.Year,
		Credits:    course.Credits,
		Sessions:   course.Sessions,
		FacultyID:  course.FacultyID,
		Enrollment: course.Enrollment,
		CreatedAt:  course.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:  course.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func toCourseDTOs(courses []application.Course) []courseDTO {
	if len(courses) == 0 {
		return nil
	}
	out := make([]courseDTO, 0, len(courses))
	for _, course := range courses {
		out = append(out, toCourseDTO(course))
	}
	return out
}

package handler

import (
	"encoding/json"
	"net/http"

	"learnhub/internal/api/middleware"
	"learnhub/internal/app/service"
	"learnhub/internal/common"

	"github.com/go-chi/chi/v5"
)

type EnrollmentHandler struct {
	catalog *service.CatalogService
}

func NewEnrollmentHandler(catalog *service.CatalogService) *EnrollmentHandler {
	return &EnrollmentHandler{catalog: catalog}
}

func (h *EnrollmentHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Authenticator)
	r.Post("/enroll", h.enroll)
	r.Get("/", h.listEnrollments)
	r.Get("/courses", h.listEnrolledCourses)
	r.Put("/progress", h.updateProgress)
	r.Patch("/progress", h.updateProgress)
}

type enrollRequest struct {
	CourseID string `json:"courseId" validate:"required"`
}

type progressRequest struct {
	CourseID string `json:"courseId" validate:"required"`
	Progress *int   `json:"progress" validate:"required,gte=0,lte=100"`
}

func (h *EnrollmentHandler) enroll(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req enrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	if err := validate.Struct(req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid enrollment data: "+err.Error())
		return
	}

	enrollment, err := h.catalog.Enroll(r.Context(), userID, req.CourseID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, enrollment)
}

func (h *EnrollmentHandler) listEnrollments(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}
	common.RespondWithJSON(w, http.StatusOK, h.catalog.UserEnrollments(userID))
}

// listEnrolledCourses returns the user's courses joined with progress,
// the payload behind the "my learning" view.
func (h *EnrollmentHandler) listEnrolledCourses(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}
	common.RespondWithJSON(w, http.StatusOK, h.catalog.ProgressSummary(userID))
}

// updateProgress validates the 0..100 range here: the catalog applies
// whatever value it is handed.
func (h *EnrollmentHandler) updateProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req progressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	if err := validate.Struct(req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid progress data: "+err.Error())
		return
	}

	if err := h.catalog.UpdateProgress(r.Context(), userID, req.CourseID, *req.Progress); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}

	type progressResponse struct {
		Message   string `json:"message"`
		Completed bool   `json:"completed"`
	}
	common.RespondWithJSON(w, http.StatusOK, progressResponse{
		Message:   "Progress updated",
		Completed: *req.Progress == 100,
	})
}

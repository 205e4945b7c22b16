package handler

import (
	"encoding/json"
	"net/http"

	"learnhub/internal/api/middleware"
	"learnhub/internal/app/service"
	"learnhub/internal/common"
	"learnhub/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

type CourseHandler struct {
	catalog *service.CatalogService
}

func NewCourseHandler(catalog *service.CatalogService) *CourseHandler {
	return &CourseHandler{catalog: catalog}
}

func (h *CourseHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.listCourses)         // GET /api/v1/courses
	r.Get("/{courseID}", h.getCourse) // GET /api/v1/courses/42

	r.Group(func(adminRouter chi.Router) {
		adminRouter.Use(middleware.Authenticator)
		adminRouter.Use(middleware.AdminOnly)
		adminRouter.Post("/", h.createCourse)
		adminRouter.Put("/{courseID}", h.updateCourse)
		adminRouter.Delete("/{courseID}", h.deleteCourse)
	})
}

// listCourses serves the catalog with the optional search/level/price/
// sort view transforms applied.
func (h *CourseHandler) listCourses(w http.ResponseWriter, r *http.Request) {
	query := service.FilterQuery{
		Search: r.URL.Query().Get("title"),
		Level:  r.URL.Query().Get("level"),
		Price:  r.URL.Query().Get("price"),
		Sort:   r.URL.Query().Get("sort"),
	}
	common.RespondWithJSON(w, http.StatusOK, h.catalog.Filter(query))
}

func (h *CourseHandler) getCourse(w http.ResponseWriter, r *http.Request) {
	courseID := chi.URLParam(r, "courseID")
	course, err := h.catalog.CourseByID(courseID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, course)
}

func (h *CourseHandler) createCourse(w http.ResponseWriter, r *http.Request) {
	var req service.CreateCourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	if err := validate.Struct(req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid course data: "+err.Error())
		return
	}

	course, err := h.catalog.AddCourse(r.Context(), req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, course)
}

func (h *CourseHandler) updateCourse(w http.ResponseWriter, r *http.Request) {
	courseID := chi.URLParam(r, "courseID")

	var update model.CourseUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	course, err := h.catalog.UpdateCourse(r.Context(), courseID, update)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, course)
}

func (h *CourseHandler) deleteCourse(w http.ResponseWriter, r *http.Request) {
	courseID := chi.URLParam(r, "courseID")
	if err := h.catalog.DeleteCourse(r.Context(), courseID); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, common.MessageResponse{Message: "Course deleted"})
}

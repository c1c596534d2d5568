package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/coursehub-backend/internal/http/response"
	"github.com/yungbote/coursehub-backend/internal/services"
)

type CourseHandler struct {
	catalog services.CatalogService
	courses services.CourseService
}

func NewCourseHandler(catalog services.CatalogService, courses services.CourseService) *CourseHandler {
	return &CourseHandler{catalog: catalog, courses: courses}
}

// GET /api/courses?q=&category=&grade=&page=
func (h *CourseHandler) List(c *gin.Context) {
	page := 1
	if raw := c.Query("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_page", err)
			return
		}
		page = n
	}
	out, err := h.catalog.ListCourses(c.Request.Context(), services.CatalogQuery{
		Q:        c.Query("q"),
		Category: c.Query("category"),
		Grade:    c.Query("grade"),
		Page:     page,
	})
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /api/categories
func (h *CourseHandler) Categories(c *gin.Context) {
	out, err := h.catalog.ListCategories(c.Request.Context())
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"categories": out})
}

// GET /api/courses/:id
func (h *CourseHandler) Detail(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	out, err := h.courses.Detail(c.Request.Context(), id)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, out)
}

// POST /api/courses/:id/enroll
func (h *CourseHandler) Enroll(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	res, err := h.courses.Enroll(c.Request.Context(), id)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	status := http.StatusOK
	if res.Created {
		status = http.StatusCreated
	}
	c.JSON(status, res)
}

// POST /api/courses/:id/join-requests
// body: { "message": "..." }
func (h *CourseHandler) RequestJoin(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req struct {
		Message string `json:"message"`
	}
	_ = c.ShouldBindJSON(&req)
	jr, err := h.courses.RequestJoin(c.Request.Context(), id, req.Message)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"join_request": jr})
}

package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/coursehub-backend/internal/http/response"
	"github.com/yungbote/coursehub-backend/internal/services"
)

type TeacherHandler struct {
	teachers services.TeacherService
}

func NewTeacherHandler(teachers services.TeacherService) *TeacherHandler {
	return &TeacherHandler{teachers: teachers}
}

// GET /api/teachers
func (h *TeacherHandler) List(c *gin.Context) {
	out, err := h.teachers.List(c.Request.Context())
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"teachers": out})
}

// GET /api/teachers/:id
func (h *TeacherHandler) Detail(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	out, err := h.teachers.Detail(c.Request.Context(), id)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, out)
}

// POST /api/teachers/:id/rate
// body: { "rating": 1..5, "review": "..." }
func (h *TeacherHandler) Rate(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req struct {
		Rating int    `json:"rating"`
		Review string `json:"review"`
	}
	if !bindJSON(c, &req) {
		return
	}
	out, err := h.teachers.Rate(c.Request.Context(), id, req.Rating, req.Review)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, out)
}

// POST /api/teachers/:id/contact
func (h *TeacherHandler) Contact(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req services.ContactInput
	if !bindJSON(c, &req) {
		return
	}
	out, err := h.teachers.Contact(c.Request.Context(), id, req)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"message": out})
}

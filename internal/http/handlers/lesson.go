package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/coursehub-backend/internal/http/response"
	"github.com/yungbote/coursehub-backend/internal/services"
)

type LessonHandler struct {
	lessons services.LessonService
}

func NewLessonHandler(lessons services.LessonService) *LessonHandler {
	return &LessonHandler{lessons: lessons}
}

// GET /api/lessons/:id
func (h *LessonHandler) Detail(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	out, err := h.lessons.Detail(c.Request.Context(), id)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, out)
}

// POST /api/lessons/:id/reaction
// body: { "like": true|false }
func (h *LessonHandler) React(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req struct {
		Like *bool `json:"like" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}
	out, err := h.lessons.React(c.Request.Context(), id, *req.Like)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, out)
}

// POST /api/lessons/:id/complete
func (h *LessonHandler) Complete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	out, err := h.lessons.Complete(c.Request.Context(), id)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, out)
}

// POST /api/lessons/:id/comments
func (h *LessonHandler) Comment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req struct {
		Content string `json:"content"`
	}
	if !bindJSON(c, &req) {
		return
	}
	out, err := h.lessons.Comment(c.Request.Context(), id, req.Content)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"comment": out})
}

package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/coursehub-backend/internal/http/response"
	"github.com/yungbote/coursehub-backend/internal/services"
)

type CommunityHandler struct {
	community services.CommunityService
}

func NewCommunityHandler(community services.CommunityService) *CommunityHandler {
	return &CommunityHandler{community: community}
}

// GET /api/leaderboard
func (h *CommunityHandler) Leaderboard(c *gin.Context) {
	out, err := h.community.Leaderboard(c.Request.Context())
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"students": out})
}

// GET /api/news
func (h *CommunityHandler) News(c *gin.Context) {
	out, err := h.community.News(c.Request.Context())
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"news": out})
}

// POST /api/contact
func (h *CommunityHandler) Contact(c *gin.Context) {
	var req services.ContactInput
	if !bindJSON(c, &req) {
		return
	}
	if _, err := h.community.Contact(c.Request.Context(), req); err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"ok": true})
}

// POST /api/teacher-applications
func (h *CommunityHandler) ApplyTeacher(c *gin.Context) {
	var req services.TeacherApplicationInput
	if !bindJSON(c, &req) {
		return
	}
	if _, err := h.community.ApplyTeacher(c.Request.Context(), req); err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"ok": true})
}

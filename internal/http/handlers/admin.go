package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/coursehub-backend/internal/http/response"
	"github.com/yungbote/coursehub-backend/internal/services"
)

// AdminHandler serves /api/admin. Routes sit behind RequireAdmin.
type AdminHandler struct {
	admin services.AdminService
}

func NewAdminHandler(admin services.AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

// GET /api/admin/join-requests
func (h *AdminHandler) ListJoinRequests(c *gin.Context) {
	out, err := h.admin.ListJoinRequests(c.Request.Context())
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"join_requests": out})
}

// POST /api/admin/join-requests/:id/approve|reject
func (h *AdminHandler) DecideJoinRequest(approve bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		out, err := h.admin.DecideJoinRequest(c.Request.Context(), id, approve)
		if err != nil {
			response.RespondAggregateError(c, err)
			return
		}
		response.RespondOK(c, gin.H{"join_request": out})
	}
}

// GET /api/admin/teacher-requests
func (h *AdminHandler) ListTeacherRequests(c *gin.Context) {
	out, err := h.admin.ListTeacherRequests(c.Request.Context())
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"teacher_requests": out})
}

// POST /api/admin/teacher-requests/:id/approve|reject
func (h *AdminHandler) DecideTeacherRequest(approve bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		out, err := h.admin.DecideTeacherRequest(c.Request.Context(), id, approve)
		if err != nil {
			response.RespondAggregateError(c, err)
			return
		}
		response.RespondOK(c, gin.H{"teacher_request": out})
	}
}

// GET /api/admin/contact-messages?unread=true
func (h *AdminHandler) ListContactMessages(c *gin.Context) {
	out, err := h.admin.ListContactMessages(c.Request.Context(), c.Query("unread") == "true")
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"messages": out})
}

// POST /api/admin/contact-messages/:id/read
func (h *AdminHandler) MarkContactMessageRead(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.admin.MarkContactMessageRead(c.Request.Context(), id); err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	respondAck(c)
}

// GET /api/admin/teacher-applications?unprocessed=true
func (h *AdminHandler) ListTeacherApplications(c *gin.Context) {
	out, err := h.admin.ListTeacherApplications(c.Request.Context(), c.Query("unprocessed") == "true")
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"applications": out})
}

// POST /api/admin/teacher-applications/:id/read
func (h *AdminHandler) MarkTeacherApplicationProcessed(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.admin.MarkTeacherApplicationProcessed(c.Request.Context(), id); err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	respondAck(c)
}

// newsInput accepts JSON, or multipart with an optional "image" file.
func newsInput(c *gin.Context) (services.NewsFields, *services.Upload, func(), bool) {
	noop := func() {}
	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		var in services.NewsFields
		if !bindJSON(c, &in) {
			return in, nil, noop, false
		}
		return in, nil, noop, true
	}

	var in services.NewsFields
	if v, ok := c.GetPostForm("title"); ok {
		in.Title = &v
	}
	if v, ok := c.GetPostForm("content"); ok {
		in.Content = &v
	}
	if v, ok := c.GetPostForm("is_published"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
			return in, nil, noop, false
		}
		in.IsPublished = &b
	}
	if _, err := c.FormFile("image"); err != nil {
		return in, nil, noop, true
	}
	up, done, ok := formUpload(c, "image")
	if !ok {
		return in, nil, noop, false
	}
	return in, &up, done, true
}

// POST /api/admin/news
func (h *AdminHandler) CreateNews(c *gin.Context) {
	in, image, done, ok := newsInput(c)
	if !ok {
		return
	}
	defer done()
	out, err := h.admin.CreateNews(c.Request.Context(), in, image)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"news": out})
}

// PATCH /api/admin/news/:id
func (h *AdminHandler) UpdateNews(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	in, image, done, ok := newsInput(c)
	if !ok {
		return
	}
	defer done()
	out, err := h.admin.UpdateNews(c.Request.Context(), id, in, image)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"news": out})
}

// DELETE /api/admin/news/:id
func (h *AdminHandler) DeleteNews(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.admin.DeleteNews(c.Request.Context(), id); err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondNoContent(c)
}

// POST /api/admin/categories
func (h *AdminHandler) CreateCategory(c *gin.Context) {
	var req services.CategoryInput
	if !bindJSON(c, &req) {
		return
	}
	out, err := h.admin.CreateCategory(c.Request.Context(), req)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"category": out})
}

// DELETE /api/admin/categories/:id
func (h *AdminHandler) DeleteCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.admin.DeleteCategory(c.Request.Context(), id); err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondNoContent(c)
}

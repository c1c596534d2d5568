package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/coursehub-backend/internal/http/response"
	"github.com/yungbote/coursehub-backend/internal/services"
)

type UserHandler struct {
	profiles     services.ProfileService
	certificates services.CertificateService
}

func NewUserHandler(profiles services.ProfileService, certificates services.CertificateService) *UserHandler {
	return &UserHandler{profiles: profiles, certificates: certificates}
}

// GET /api/me
func (h *UserHandler) GetMe(c *gin.Context) {
	me, err := h.profiles.Me(c.Request.Context())
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"me": me})
}

// PATCH /api/me
func (h *UserHandler) Update(c *gin.Context) {
	var req services.ProfileFields
	if !bindJSON(c, &req) {
		return
	}
	me, err := h.profiles.Update(c.Request.Context(), req)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"me": me})
}

// DELETE /api/me
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.profiles.Delete(c.Request.Context()); err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondNoContent(c)
}

// POST /api/me/avatar (multipart, field "avatar")
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	up, done, ok := formUpload(c, "avatar")
	if !ok {
		return
	}
	defer done()
	me, err := h.profiles.UploadAvatar(c.Request.Context(), up)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"me": me})
}

// GET /api/me/certificates
func (h *UserHandler) Certificates(c *gin.Context) {
	out, err := h.certificates.ListMine(c.Request.Context())
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"certificates": out})
}

// POST /api/me/become-teacher
// body: { "motivation": "..." }
func (h *UserHandler) BecomeTeacher(c *gin.Context) {
	var req struct {
		Motivation string `json:"motivation"`
	}
	_ = c.ShouldBindJSON(&req)
	out, err := h.profiles.BecomeTeacher(c.Request.Context(), req.Motivation)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"request": out})
}

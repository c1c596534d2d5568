package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/coursehub-backend/internal/domain/assessment"
	"github.com/yungbote/coursehub-backend/internal/http/response"
	"github.com/yungbote/coursehub-backend/internal/services"
)

// AuthoringHandler serves /api/teacher. Routes sit behind RequireTeacher.
type AuthoringHandler struct {
	authoring services.AuthoringService
	dashboard services.DashboardService
}

func NewAuthoringHandler(authoring services.AuthoringService, dashboard services.DashboardService) *AuthoringHandler {
	return &AuthoringHandler{authoring: authoring, dashboard: dashboard}
}

// GET /api/teacher/dashboard
func (h *AuthoringHandler) Dashboard(c *gin.Context) {
	out, err := h.dashboard.Stats(c.Request.Context())
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /api/teacher/students
func (h *AuthoringHandler) Students(c *gin.Context) {
	out, err := h.dashboard.Students(c.Request.Context())
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"students": out})
}

// DELETE /api/teacher/enrollments/:id
func (h *AuthoringHandler) RemoveEnrollment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.dashboard.RemoveEnrollment(c.Request.Context(), id); err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondNoContent(c)
}

// GET /api/teacher/courses
func (h *AuthoringHandler) ListCourses(c *gin.Context) {
	out, err := h.authoring.ListCourses(c.Request.Context())
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"courses": out})
}

// POST /api/teacher/courses
func (h *AuthoringHandler) CreateCourse(c *gin.Context) {
	var req services.CourseFields
	if !bindJSON(c, &req) {
		return
	}
	out, err := h.authoring.CreateCourse(c.Request.Context(), req)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"course": out})
}

// PATCH /api/teacher/courses/:id
func (h *AuthoringHandler) UpdateCourse(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req services.CourseFields
	if !bindJSON(c, &req) {
		return
	}
	out, err := h.authoring.UpdateCourse(c.Request.Context(), id, req)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"course": out})
}

// DELETE /api/teacher/courses/:id
func (h *AuthoringHandler) DeleteCourse(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.authoring.DeleteCourse(c.Request.Context(), id); err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondNoContent(c)
}

// POST /api/teacher/courses/:id/image (multipart, field "image")
func (h *AuthoringHandler) UploadCourseImage(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	up, done, ok := formUpload(c, "image")
	if !ok {
		return
	}
	defer done()
	out, err := h.authoring.UploadCourseImage(c.Request.Context(), id, up)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"course": out})
}

// POST /api/teacher/courses/:id/lessons
func (h *AuthoringHandler) CreateLesson(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req services.LessonFields
	if !bindJSON(c, &req) {
		return
	}
	out, err := h.authoring.CreateLesson(c.Request.Context(), id, req)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"lesson": out})
}

// PATCH /api/teacher/lessons/:id
func (h *AuthoringHandler) UpdateLesson(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req services.LessonFields
	if !bindJSON(c, &req) {
		return
	}
	out, err := h.authoring.UpdateLesson(c.Request.Context(), id, req)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"lesson": out})
}

// DELETE /api/teacher/lessons/:id
func (h *AuthoringHandler) DeleteLesson(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.authoring.DeleteLesson(c.Request.Context(), id); err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondNoContent(c)
}

// POST /api/teacher/lessons/:id/presentation (multipart, field "file")
func (h *AuthoringHandler) UploadPresentation(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	up, done, ok := formUpload(c, "file")
	if !ok {
		return
	}
	defer done()
	out, err := h.authoring.UploadPresentation(c.Request.Context(), id, up)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"lesson": out})
}

// POST /api/teacher/courses/:id/tests
func (h *AuthoringHandler) CreateTest(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req services.TestFields
	if !bindJSON(c, &req) {
		return
	}
	out, err := h.authoring.CreateTest(c.Request.Context(), id, req)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"test": out})
}

// GET /api/teacher/tests/:id
func (h *AuthoringHandler) GetTest(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	out, err := h.authoring.GetTest(c.Request.Context(), id)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"test": out})
}

// PATCH /api/teacher/tests/:id
func (h *AuthoringHandler) UpdateTest(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req services.TestFields
	if !bindJSON(c, &req) {
		return
	}
	out, err := h.authoring.UpdateTest(c.Request.Context(), id, req)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"test": out})
}

// DELETE /api/teacher/tests/:id
func (h *AuthoringHandler) DeleteTest(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.authoring.DeleteTest(c.Request.Context(), id); err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondNoContent(c)
}

// PUT /api/teacher/tests/:id/questions
func (h *AuthoringHandler) SaveQuestions(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req assessment.QuestionSet
	if !bindJSON(c, &req) {
		return
	}
	out, err := h.authoring.SaveQuestions(c.Request.Context(), id, req)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"questions": out})
}

// GET /api/teacher/tests/:id/results
func (h *AuthoringHandler) Results(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	out, err := h.authoring.Results(c.Request.Context(), id)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"results": out})
}

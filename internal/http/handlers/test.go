package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/coursehub-backend/internal/http/response"
	"github.com/yungbote/coursehub-backend/internal/services"
)

type TestHandler struct {
	assessments services.AssessmentService
}

func NewTestHandler(assessments services.AssessmentService) *TestHandler {
	return &TestHandler{assessments: assessments}
}

// POST /api/tests/:id/start
func (h *TestHandler) Start(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	out, err := h.assessments.Start(c.Request.Context(), id)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, out)
}

// POST /api/tests/:id/submit
// body: { "answers": { "<question_id>": "<answer_id>" } }
func (h *TestHandler) Submit(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req struct {
		Answers map[uuid.UUID]uuid.UUID `json:"answers"`
	}
	if !bindJSON(c, &req) {
		return
	}
	out, err := h.assessments.Submit(c.Request.Context(), id, req.Answers)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, out)
}

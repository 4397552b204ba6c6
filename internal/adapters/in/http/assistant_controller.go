package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/clinicore/medical-automation-api/internal/core/ports/in"
)

type AssistantController struct {
	useCase in.AssistantUseCase
}

func NewAssistantController(useCase in.AssistantUseCase) *AssistantController {
	return &AssistantController{
		useCase: useCase,
	}
}

func (c *AssistantController) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/v1")
	{
		api.POST("/assistant/messages", c.processMessage)
	}
}

type AssistantMessageRequest struct {
	PatientID uuid.UUID `json:"patientId" binding:"required"`
	Text      string    `json:"text" binding:"required"`
}

func (c *AssistantController) processMessage(ctx *gin.Context) {
	var req AssistantMessageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reply, err := c.useCase.ProcessMessage(ctx.Request.Context(), req.PatientID, req.Text)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, reply)
}

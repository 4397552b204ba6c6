package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/clinicore/medical-automation-api/internal/core/domain"
	"github.com/clinicore/medical-automation-api/internal/core/ports/in"
)

type PatientController struct {
	useCase in.PatientUseCase
}

func NewPatientController(useCase in.PatientUseCase) *PatientController {
	return &PatientController{
		useCase: useCase,
	}
}

func (c *PatientController) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/v1")
	{
		api.POST("/patients", c.createPatient)
		api.GET("/patients/:patientId", c.getPatient)
		api.PUT("/patients/:patientId", c.updatePatient)
		api.GET("/patients/:patientId/payment-profile", c.getPaymentProfile)
	}
}

type PatientRequest struct {
	Name  string `json:"name" binding:"required"`
	CPF   string `json:"cpf" binding:"required,cpf"`
	Email string `json:"email" binding:"required,email"`
	Phone string `json:"phone" binding:"required,brphone"`
}

func (r PatientRequest) toDomain() domain.Patient {
	return domain.Patient{
		Name:  r.Name,
		CPF:   r.CPF,
		Email: r.Email,
		Phone: r.Phone,
	}
}

func (c *PatientController) getPatient(ctx *gin.Context) {
	patientID, err := uuid.Parse(ctx.Param("patientId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid patient ID format"})
		return
	}

	patient, err := c.useCase.GetPatient(ctx.Request.Context(), patientID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, patient)
}

func (c *PatientController) createPatient(ctx *gin.Context) {
	var req PatientRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := c.useCase.CreatePatient(ctx.Request.Context(), req.toDomain())
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, created)
}

func (c *PatientController) updatePatient(ctx *gin.Context) {
	patientID, err := uuid.Parse(ctx.Param("patientId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid patient ID format"})
		return
	}

	var req PatientRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	patient := req.toDomain()
	patient.ID = patientID

	updated, err := c.useCase.UpdatePatient(ctx.Request.Context(), patient)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

func (c *PatientController) getPaymentProfile(ctx *gin.Context) {
	patientID, err := uuid.Parse(ctx.Param("patientId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid patient ID format"})
		return
	}

	profile, err := c.useCase.GetPaymentProfile(ctx.Request.Context(), patientID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, profile)
}

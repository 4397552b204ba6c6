package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/clinicore/medical-automation-api/internal/core/json_types"
	"github.com/clinicore/medical-automation-api/internal/core/ports/in"
)

type AvailabilityController struct {
	useCase in.AvailabilityUseCase
}

func NewAvailabilityController(useCase in.AvailabilityUseCase) *AvailabilityController {
	return &AvailabilityController{
		useCase: useCase,
	}
}

func (c *AvailabilityController) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/v1")
	{
		api.GET("/doctors/:doctorId/slots", c.getAvailableSlots)
		api.POST("/appointments", c.bookAppointment)
		api.DELETE("/appointments/:appointmentId", c.cancelAppointment)
		api.POST("/appointments/:appointmentId/reschedule", c.rescheduleAppointment)
	}
}

type BookAppointmentRequest struct {
	DoctorID        uuid.UUID `json:"doctorId" binding:"required"`
	PatientID       uuid.UUID `json:"patientId" binding:"required"`
	Date            string    `json:"date" binding:"required"`
	StartTime       string    `json:"startTime" binding:"required"`
	DurationMinutes int       `json:"durationMinutes" binding:"omitempty,min=1"`
}

type RescheduleAppointmentRequest struct {
	Date      string `json:"date" binding:"required"`
	StartTime string `json:"startTime" binding:"required"`
}

func (c *AvailabilityController) getAvailableSlots(ctx *gin.Context) {
	doctorID, err := uuid.Parse(ctx.Param("doctorId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid doctor ID format"})
		return
	}

	date, err := json_types.ParseDate(ctx.Query("date"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format, expected YYYY-MM-DD"})
		return
	}

	windows, err := c.useCase.GetAvailableSlots(ctx.Request.Context(), doctorID, date)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"doctorId": doctorID,
		"date":     date,
		"slots":    windows,
	})
}

func (c *AvailabilityController) bookAppointment(ctx *gin.Context) {
	var req BookAppointmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date, err := json_types.ParseDate(req.Date)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format, expected YYYY-MM-DD"})
		return
	}

	startTime, err := json_types.ParseTimeOfDay(req.StartTime)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid start time format, expected HH:MM"})
		return
	}

	appointment, err := c.useCase.BookAppointment(ctx.Request.Context(), in.BookAppointmentParams{
		DoctorID:        req.DoctorID,
		PatientID:       req.PatientID,
		Date:            date,
		StartTime:       startTime,
		DurationMinutes: req.DurationMinutes,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, appointment)
}

func (c *AvailabilityController) cancelAppointment(ctx *gin.Context) {
	appointmentID, err := uuid.Parse(ctx.Param("appointmentId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid appointment ID format"})
		return
	}

	if err := c.useCase.CancelAppointment(ctx.Request.Context(), appointmentID); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "cancelled"})
}

func (c *AvailabilityController) rescheduleAppointment(ctx *gin.Context) {
	appointmentID, err := uuid.Parse(ctx.Param("appointmentId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid appointment ID format"})
		return
	}

	var req RescheduleAppointmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date, err := json_types.ParseDate(req.Date)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format, expected YYYY-MM-DD"})
		return
	}

	startTime, err := json_types.ParseTimeOfDay(req.StartTime)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid start time format, expected HH:MM"})
		return
	}

	appointment, err := c.useCase.RescheduleAppointment(ctx.Request.Context(), appointmentID, date, startTime)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, appointment)
}

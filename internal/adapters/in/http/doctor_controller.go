package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/clinicore/medical-automation-api/internal/core/domain"
	"github.com/clinicore/medical-automation-api/internal/core/json_types"
	"github.com/clinicore/medical-automation-api/internal/core/ports/in"
)

type DoctorController struct {
	useCase in.DoctorUseCase
}

func NewDoctorController(useCase in.DoctorUseCase) *DoctorController {
	return &DoctorController{
		useCase: useCase,
	}
}

func (c *DoctorController) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/v1")
	{
		api.GET("/doctors", c.listDoctors)
		api.POST("/doctors", c.createDoctor)
		api.GET("/doctors/:doctorId", c.getDoctor)
		api.PUT("/doctors/:doctorId", c.updateDoctor)
	}
}

type WorkingWindowBody struct {
	Start string `json:"start" binding:"required"`
	End   string `json:"end" binding:"required"`
}

type DoctorRequest struct {
	Name                string                         `json:"name" binding:"required"`
	Specialty           string                         `json:"specialty"`
	SlotDurationMinutes int                            `json:"slotDurationMinutes" binding:"required,min=1"`
	WorkingHours        map[string][]WorkingWindowBody `json:"workingHours" binding:"required"`
}

var knownWeekdays = map[string]domain.Weekday{
	string(domain.WeekdayMon): domain.WeekdayMon,
	string(domain.WeekdayTue): domain.WeekdayTue,
	string(domain.WeekdayWed): domain.WeekdayWed,
	string(domain.WeekdayThu): domain.WeekdayThu,
	string(domain.WeekdayFri): domain.WeekdayFri,
	string(domain.WeekdaySat): domain.WeekdaySat,
	string(domain.WeekdaySun): domain.WeekdaySun,
}

func (r DoctorRequest) toDomain() (domain.Doctor, error) {
	workingHours := make(map[domain.Weekday][]domain.WorkingWindow, len(r.WorkingHours))

	for rawDay, windows := range r.WorkingHours {
		weekday, known := knownWeekdays[rawDay]
		if !known {
			return domain.Doctor{}, &weekdayError{day: rawDay}
		}

		converted := make([]domain.WorkingWindow, 0, len(windows))
		for _, window := range windows {
			start, err := json_types.ParseTimeOfDay(window.Start)
			if err != nil {
				return domain.Doctor{}, err
			}
			end, err := json_types.ParseTimeOfDay(window.End)
			if err != nil {
				return domain.Doctor{}, err
			}
			converted = append(converted, domain.WorkingWindow{Start: start, End: end})
		}

		workingHours[weekday] = converted
	}

	return domain.Doctor{
		Name:                r.Name,
		Specialty:           r.Specialty,
		SlotDurationMinutes: r.SlotDurationMinutes,
		WorkingHours:        workingHours,
	}, nil
}

type weekdayError struct {
	day string
}

func (e *weekdayError) Error() string {
	return "unknown weekday key: " + e.day + ", expected mon..sun"
}

func (c *DoctorController) listDoctors(ctx *gin.Context) {
	doctors, err := c.useCase.ListDoctors(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"doctors": doctors})
}

func (c *DoctorController) getDoctor(ctx *gin.Context) {
	doctorID, err := uuid.Parse(ctx.Param("doctorId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid doctor ID format"})
		return
	}

	doctor, err := c.useCase.GetDoctor(ctx.Request.Context(), doctorID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, doctor)
}

func (c *DoctorController) createDoctor(ctx *gin.Context) {
	var req DoctorRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	doctor, err := req.toDomain()
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := c.useCase.CreateDoctor(ctx.Request.Context(), doctor)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, created)
}

func (c *DoctorController) updateDoctor(ctx *gin.Context) {
	doctorID, err := uuid.Parse(ctx.Param("doctorId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid doctor ID format"})
		return
	}

	var req DoctorRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	doctor, err := req.toDomain()
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	doctor.ID = doctorID

	updated, err := c.useCase.UpdateDoctor(ctx.Request.Context(), doctor)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

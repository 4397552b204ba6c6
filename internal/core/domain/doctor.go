package domain

import (
	"time"

	"github.com/clinicore/medical-automation-api/internal/core/json_types"
	"github.com/google/uuid"
)

type Weekday string

const (
	WeekdayMon Weekday = "mon"
	WeekdayTue Weekday = "tue"
	WeekdayWed Weekday = "wed"
	WeekdayThu Weekday = "thu"
	WeekdayFri Weekday = "fri"
	WeekdaySat Weekday = "sat"
	WeekdaySun Weekday = "sun"
)

var WeekdayMap = map[time.Weekday]Weekday{
	time.Monday:    WeekdayMon,
	time.Tuesday:   WeekdayTue,
	time.Wednesday: WeekdayWed,
	time.Thursday:  WeekdayThu,
	time.Friday:    WeekdayFri,
	time.Saturday:  WeekdaySat,
	time.Sunday:    WeekdaySun,
}

// WorkingWindow - рабочее окно врача в рамках одного дня недели
type WorkingWindow struct {
	Start json_types.TimeOfDay `json:"start"`
	End   json_types.TimeOfDay `json:"end"`
}

type Doctor struct {
	ID                  uuid.UUID                   `json:"id"`
	Name                string                      `json:"name"`
	Specialty           string                      `json:"specialty"`
	SlotDurationMinutes int                         `json:"slotDurationMinutes"`
	WorkingHours        map[Weekday][]WorkingWindow `json:"workingHours"`
}

// WindowsForDate возвращает шаблон рабочих окон врача на день недели указанной даты
func (d Doctor) WindowsForDate(date json_types.Date) []WorkingWindow {
	return d.WorkingHours[WeekdayMap[date.Weekday()]]
}

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/clinicore/medical-automation-api/internal/core/domain"
	"github.com/clinicore/medical-automation-api/internal/core/json_types"
	"github.com/clinicore/medical-automation-api/internal/core/ports/in"
	"github.com/clinicore/medical-automation-api/internal/core/ports/out"
	"github.com/clinicore/medical-automation-api/internal/utils"
	"github.com/google/uuid"
)

type AvailabilityService struct {
	storePort out.StorePort
	cache     *CacheManager
	metrics   out.MetricsPort
	logger    out.LoggerPort

	availabilityTTL time.Duration
	location        *time.Location
}

func NewAvailabilityService(
	storePort out.StorePort,
	cache *CacheManager,
	metrics out.MetricsPort,
	logger out.LoggerPort,
	availabilityTTL time.Duration,
	timezone string,
) *AvailabilityService {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		loc = time.UTC
	}

	return &AvailabilityService{
		storePort:       storePort,
		cache:           cache,
		metrics:         metrics,
		logger:          logger.WithModule("availability_service"),
		availabilityTTL: availabilityTTL,
		location:        loc,
	}
}

// GetAvailableSlots возвращает свободные окна врача на дату.
// Результат кэшируется, при недоступном кэше считается напрямую
func (s *AvailabilityService) GetAvailableSlots(ctx context.Context, doctorID uuid.UUID, date json_types.Date) ([]domain.TimeWindow, error) {
	if date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", domain.ErrInvalidArgument)
	}
	if s.isPastDate(date) {
		return nil, fmt.Errorf("%w: date %s is in the past", domain.ErrInvalidArgument, date)
	}

	return ReadThroughAs(ctx, s.cache, domain.CacheNamespaceAvailability, domain.AvailabilityCacheKey(doctorID, date), s.availabilityTTL,
		func(ctx context.Context) ([]domain.TimeWindow, error) {
			return s.computeAvailableSlots(ctx, doctorID, date)
		})
}

func (s *AvailabilityService) computeAvailableSlots(ctx context.Context, doctorID uuid.UUID, date json_types.Date) ([]domain.TimeWindow, error) {
	doctor, err := s.storePort.FindDoctorByID(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	appointments, err := s.storePort.ListAppointments(ctx, doctorID, date)
	if err != nil {
		return nil, err
	}

	windows := buildFreeWindows(doctor, appointments, date)

	s.logger.Debug("availability.computed", out.LogFields{
		"doctorId": doctorID,
		"date":     date.String(),
		"windows":  len(windows),
	})

	return windows, nil
}

// buildFreeWindows нарезает рабочие окна дня на слоты длительности
// врача и выбрасывает слоты, пересекающиеся с активными записями.
// Возвращает непересекающиеся окна по возрастанию времени начала
func buildFreeWindows(doctor *domain.Doctor, appointments []domain.Appointment, date json_types.Date) []domain.TimeWindow {
	free := TimeWindowSlice{}

	for _, workWindow := range doctor.WindowsForDate(date) {
		slotStart := workWindow.Start

		// Генерируем слоты в пределах рабочего окна
		for slotStart.AddMinutes(doctor.SlotDurationMinutes).Before(workWindow.End) ||
			slotStart.AddMinutes(doctor.SlotDurationMinutes).Equal(workWindow.End) {
			candidate := domain.TimeWindow{
				Start: slotStart,
				End:   slotStart.AddMinutes(doctor.SlotDurationMinutes),
			}

			if !overlapsScheduled(candidate, appointments) {
				free = append(free, candidate)
			}

			slotStart = candidate.End
		}
	}

	return free.quickSort()
}

func overlapsScheduled(window domain.TimeWindow, appointments []domain.Appointment) bool {
	for _, appointment := range appointments {
		if !appointment.IsScheduled() {
			continue
		}
		if window.Overlaps(appointment.Window()) {
			return true
		}
	}

	return false
}

// BookAppointment бронирует окно. Дружелюбные проверки рабочего
// времени и пересечений выполняются здесь, но решающее слово за
// условной вставкой хранилища: при гонке побеждает ровно один запрос
func (s *AvailabilityService) BookAppointment(ctx context.Context, params in.BookAppointmentParams) (*domain.Appointment, error) {
	if err := s.validateBookingTime(params.Date, params.StartTime); err != nil {
		return nil, err
	}
	if params.DurationMinutes < 0 {
		return nil, fmt.Errorf("%w: duration must be positive", domain.ErrInvalidArgument)
	}

	doctor, err := s.storePort.FindDoctorByID(ctx, params.DoctorID)
	if err != nil {
		return nil, err
	}
	if _, err := s.storePort.FindPatientByID(ctx, params.PatientID); err != nil {
		return nil, err
	}

	duration := params.DurationMinutes
	if duration == 0 {
		duration = doctor.SlotDurationMinutes
	}

	window := domain.TimeWindow{
		Start: params.StartTime,
		End:   params.StartTime.AddMinutes(duration),
	}

	if !insideWorkingHours(doctor, params.Date, window) {
		return nil, fmt.Errorf("%w: window %s is outside working hours", domain.ErrConflict, window)
	}

	appointments, err := s.storePort.ListAppointments(ctx, params.DoctorID, params.Date)
	if err != nil {
		return nil, err
	}
	if overlapsScheduled(window, appointments) {
		return nil, fmt.Errorf("%w: window %s is already booked", domain.ErrConflict, window)
	}

	now := time.Now().In(s.location)
	appointment := domain.Appointment{
		ID:              uuid.New(),
		DoctorID:        params.DoctorID,
		PatientID:       params.PatientID,
		Date:            params.Date,
		StartTime:       params.StartTime,
		DurationMinutes: duration,
		Status:          domain.AppointmentStatusScheduled,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.storePort.InsertAppointment(ctx, appointment); err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, domain.CacheNamespaceAvailability, domain.AvailabilityCacheKey(params.DoctorID, params.Date))
	s.metrics.IncAppointmentBooked()

	s.logger.Info("booking.created", out.LogFields{
		"appointmentId": appointment.ID,
		"doctorId":      params.DoctorID,
		"patientId":     params.PatientID,
		"date":          params.Date.String(),
		"window":        window.String(),
	})

	return &appointment, nil
}

// CancelAppointment переводит запись в cancelled. Повторная отмена
// и отмена завершённой записи возвращают ErrNotFound
func (s *AvailabilityService) CancelAppointment(ctx context.Context, appointmentID uuid.UUID) error {
	appointment, err := s.storePort.FindAppointmentByID(ctx, appointmentID)
	if err != nil {
		return err
	}

	// Статус проверяет и хранилище, здесь отсекаем очевидное
	if !appointment.IsScheduled() {
		return fmt.Errorf("%w: appointment %s is not scheduled", domain.ErrNotFound, appointmentID)
	}

	if err := s.storePort.UpdateAppointmentStatus(ctx, appointmentID, domain.AppointmentStatusCancelled); err != nil {
		return err
	}

	s.cache.Invalidate(ctx, domain.CacheNamespaceAvailability, domain.AvailabilityCacheKey(appointment.DoctorID, appointment.Date))
	s.metrics.IncAppointmentCancelled()

	s.logger.Info("booking.cancelled", out.LogFields{
		"appointmentId": appointmentID,
		"doctorId":      appointment.DoctorID,
		"date":          appointment.Date.String(),
	})

	return nil
}

// RescheduleAppointment атомарно отменяет старую запись и создаёт
// новую. При конфликте нового окна старая запись остаётся scheduled
func (s *AvailabilityService) RescheduleAppointment(ctx context.Context, appointmentID uuid.UUID, newDate json_types.Date, newStart json_types.TimeOfDay) (*domain.Appointment, error) {
	if err := s.validateBookingTime(newDate, newStart); err != nil {
		return nil, err
	}

	oldAppointment, err := s.storePort.FindAppointmentByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if !oldAppointment.IsScheduled() {
		return nil, fmt.Errorf("%w: appointment %s is not scheduled", domain.ErrNotFound, appointmentID)
	}

	doctor, err := s.storePort.FindDoctorByID(ctx, oldAppointment.DoctorID)
	if err != nil {
		return nil, err
	}

	// Длительность переносится со старой записи
	window := domain.TimeWindow{
		Start: newStart,
		End:   newStart.AddMinutes(oldAppointment.DurationMinutes),
	}

	if !insideWorkingHours(doctor, newDate, window) {
		return nil, fmt.Errorf("%w: window %s is outside working hours", domain.ErrConflict, window)
	}

	appointments, err := s.storePort.ListAppointments(ctx, oldAppointment.DoctorID, newDate)
	if err != nil {
		return nil, err
	}
	if overlapsScheduledExcept(window, appointments, appointmentID) {
		return nil, fmt.Errorf("%w: window %s is already booked", domain.ErrConflict, window)
	}

	now := time.Now().In(s.location)
	newAppointment := domain.Appointment{
		ID:              uuid.New(),
		DoctorID:        oldAppointment.DoctorID,
		PatientID:       oldAppointment.PatientID,
		Date:            newDate,
		StartTime:       newStart,
		DurationMinutes: oldAppointment.DurationMinutes,
		Status:          domain.AppointmentStatusScheduled,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.storePort.ReplaceAppointment(ctx, appointmentID, newAppointment); err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, domain.CacheNamespaceAvailability, domain.AvailabilityCacheKey(oldAppointment.DoctorID, oldAppointment.Date))
	s.cache.Invalidate(ctx, domain.CacheNamespaceAvailability, domain.AvailabilityCacheKey(newAppointment.DoctorID, newDate))
	s.metrics.IncAppointmentRescheduled()

	s.logger.Info("booking.rescheduled", out.LogFields{
		"appointmentId":    appointmentID,
		"newAppointmentId": newAppointment.ID,
		"doctorId":         newAppointment.DoctorID,
		"oldDate":          oldAppointment.Date.String(),
		"newDate":          newDate.String(),
		"window":           window.String(),
	})

	return &newAppointment, nil
}

// insideWorkingHours проверяет, что окно целиком лежит в одном из
// рабочих окон врача на этот день недели
func insideWorkingHours(doctor *domain.Doctor, date json_types.Date, window domain.TimeWindow) bool {
	for _, workWindow := range doctor.WindowsForDate(date) {
		workTimeWindow := domain.TimeWindow{Start: workWindow.Start, End: workWindow.End}
		if workTimeWindow.Contains(window) {
			return true
		}
	}

	return false
}

func overlapsScheduledExcept(window domain.TimeWindow, appointments []domain.Appointment, exceptID uuid.UUID) bool {
	for _, appointment := range appointments {
		if appointment.ID == exceptID {
			continue
		}
		if !appointment.IsScheduled() {
			continue
		}
		if window.Overlaps(appointment.Window()) {
			return true
		}
	}

	return false
}

func (s *AvailabilityService) validateBookingTime(date json_types.Date, start json_types.TimeOfDay) error {
	if date.IsZero() {
		return fmt.Errorf("%w: date is required", domain.ErrInvalidArgument)
	}
	if !start.Valid() {
		return fmt.Errorf("%w: start time %s is out of range", domain.ErrInvalidArgument, start)
	}

	now := time.Now().In(s.location)
	if s.isPastDate(date) {
		return fmt.Errorf("%w: date %s is in the past", domain.ErrInvalidArgument, date)
	}
	// Для сегодняшней даты отклоняем уже прошедшее время начала
	if utils.SameCalendarDay(date.Date, now) && start.Minutes <= now.Hour()*60+now.Minute() {
		return fmt.Errorf("%w: start time %s has already passed", domain.ErrInvalidArgument, start)
	}

	return nil
}

func (s *AvailabilityService) isPastDate(date json_types.Date) bool {
	return date.Before(time.Now().In(s.location))
}

package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/clinicore/medical-automation-api/internal/core/domain"
	"github.com/clinicore/medical-automation-api/internal/core/json_types"
)

func scanAppointment(row pgx.Row) (domain.Appointment, error) {
	var appointment domain.Appointment
	var visitDate time.Time
	var startMinute int
	var status string

	err := row.Scan(
		&appointment.ID, &appointment.DoctorID, &appointment.PatientID,
		&visitDate, &startMinute, &appointment.DurationMinutes,
		&status, &appointment.CreatedAt, &appointment.UpdatedAt,
	)
	if err != nil {
		return domain.Appointment{}, err
	}

	appointment.Date = json_types.NewDate(visitDate)
	appointment.StartTime = json_types.TimeOfDay{Minutes: startMinute}
	appointment.Status = domain.AppointmentStatus(status)

	return appointment, nil
}

// ListAppointments возвращает записи врача на дату во всех статусах
func (r *PostgresStoreAdapter) ListAppointments(ctx context.Context, doctorID uuid.UUID, date json_types.Date) ([]domain.Appointment, error) {
	q := r.qb().Select("id", "doctor_id", "patient_id", "visit_date", "start_minute", "duration_minutes", "status", "created_at", "updated_at").
		From("appointments").
		Where(sq.Eq{"doctor_id": doctorID, "visit_date": date.Date}).
		OrderBy("start_minute ASC")

	sqlStr, args, _ := q.ToSql()
	r.logSQL("ListAppointments", sqlStr, args)

	rows, err := r.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: list appointments: %v", domain.ErrStoreFailure, err)
	}
	defer rows.Close()

	appointments := make([]domain.Appointment, 0)
	for rows.Next() {
		appointment, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan appointment: %v", domain.ErrStoreFailure, err)
		}
		appointments = append(appointments, appointment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list appointments: %v", domain.ErrStoreFailure, err)
	}

	return appointments, nil
}

func (r *PostgresStoreAdapter) FindAppointmentByID(ctx context.Context, appointmentID uuid.UUID) (*domain.Appointment, error) {
	q := r.qb().Select("id", "doctor_id", "patient_id", "visit_date", "start_minute", "duration_minutes", "status", "created_at", "updated_at").
		From("appointments").
		Where(sq.Eq{"id": appointmentID})

	sqlStr, args, _ := q.ToSql()
	r.logSQL("FindAppointmentByID", sqlStr, args)

	appointment, err := scanAppointment(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: appointment %s", domain.ErrNotFound, appointmentID)
		}
		return nil, fmt.Errorf("%w: find appointment: %v", domain.ErrStoreFailure, err)
	}

	return &appointment, nil
}

// InsertAppointment вставляет запись в одной транзакции с блокировкой
// строки врача. Конкурентные запросы на пересекающиеся окна
// сериализуются на этой блокировке, выигрывает ровно один
func (r *PostgresStoreAdapter) InsertAppointment(ctx context.Context, appointment domain.Appointment) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: begin: %v", domain.ErrStoreFailure, err)
	}
	defer tx.Rollback(ctx)

	if err := r.lockDoctor(ctx, tx, appointment.DoctorID); err != nil {
		return err
	}

	overlap, err := r.hasScheduledOverlap(ctx, tx, appointment.DoctorID, appointment.Date, appointment.Window())
	if err != nil {
		return err
	}
	if overlap {
		return fmt.Errorf("%w: window %s is already booked", domain.ErrConflict, appointment.Window())
	}

	q := r.qb().Insert("appointments").
		Columns("id", "doctor_id", "patient_id", "visit_date", "start_minute", "duration_minutes", "status", "created_at", "updated_at").
		Values(
			appointment.ID, appointment.DoctorID, appointment.PatientID,
			appointment.Date.Date, appointment.StartTime.Minutes, appointment.DurationMinutes,
			string(appointment.Status), appointment.CreatedAt, appointment.UpdatedAt,
		)

	sqlStr, args, _ := q.ToSql()
	r.logSQL("InsertAppointment", sqlStr, args)

	if _, err := tx.Exec(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("%w: insert appointment: %v", domain.ErrStoreFailure, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: commit: %v", domain.ErrStoreFailure, err)
	}

	return nil
}

// UpdateAppointmentStatus меняет статус только у scheduled-записи
func (r *PostgresStoreAdapter) UpdateAppointmentStatus(ctx context.Context, appointmentID uuid.UUID, status domain.AppointmentStatus) error {
	q := r.qb().Update("appointments").
		SetMap(map[string]interface{}{
			"status":     string(status),
			"updated_at": sq.Expr("now()"),
		}).
		Where(sq.Eq{
			"id":     appointmentID,
			"status": string(domain.AppointmentStatusScheduled),
		})

	sqlStr, args, _ := q.ToSql()
	r.logSQL("UpdateAppointmentStatus", sqlStr, args)

	tag, err := r.pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		return fmt.Errorf("%w: update appointment status: %v", domain.ErrStoreFailure, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: scheduled appointment %s", domain.ErrNotFound, appointmentID)
	}

	return nil
}

// ReplaceAppointment отменяет старую запись и вставляет новую в одной
// транзакции. При конфликте нового окна транзакция откатывается и
// старая запись остается scheduled
func (r *PostgresStoreAdapter) ReplaceAppointment(ctx context.Context, oldID uuid.UUID, newAppointment domain.Appointment) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: begin: %v", domain.ErrStoreFailure, err)
	}
	defer tx.Rollback(ctx)

	if err := r.lockDoctor(ctx, tx, newAppointment.DoctorID); err != nil {
		return err
	}

	cancelQ := r.qb().Update("appointments").
		SetMap(map[string]interface{}{
			"status":     string(domain.AppointmentStatusCancelled),
			"updated_at": sq.Expr("now()"),
		}).
		Where(sq.Eq{
			"id":     oldID,
			"status": string(domain.AppointmentStatusScheduled),
		})

	sqlStr, args, _ := cancelQ.ToSql()
	r.logSQL("ReplaceAppointment.cancel", sqlStr, args)

	tag, err := tx.Exec(ctx, sqlStr, args...)
	if err != nil {
		return fmt.Errorf("%w: cancel appointment: %v", domain.ErrStoreFailure, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: scheduled appointment %s", domain.ErrNotFound, oldID)
	}

	// Старая запись уже cancelled внутри транзакции и конфликт не дает
	overlap, err := r.hasScheduledOverlap(ctx, tx, newAppointment.DoctorID, newAppointment.Date, newAppointment.Window())
	if err != nil {
		return err
	}
	if overlap {
		return fmt.Errorf("%w: window %s is already booked", domain.ErrConflict, newAppointment.Window())
	}

	insertQ := r.qb().Insert("appointments").
		Columns("id", "doctor_id", "patient_id", "visit_date", "start_minute", "duration_minutes", "status", "created_at", "updated_at").
		Values(
			newAppointment.ID, newAppointment.DoctorID, newAppointment.PatientID,
			newAppointment.Date.Date, newAppointment.StartTime.Minutes, newAppointment.DurationMinutes,
			string(newAppointment.Status), newAppointment.CreatedAt, newAppointment.UpdatedAt,
		)

	sqlStr, args, _ = insertQ.ToSql()
	r.logSQL("ReplaceAppointment.insert", sqlStr, args)

	if _, err := tx.Exec(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("%w: insert appointment: %v", domain.ErrStoreFailure, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: commit: %v", domain.ErrStoreFailure, err)
	}

	return nil
}

// lockDoctor берет блокировку строки врача до конца транзакции
func (r *PostgresStoreAdapter) lockDoctor(ctx context.Context, tx pgx.Tx, doctorID uuid.UUID) error {
	q := r.qb().Select("id").
		From("doctors").
		Where(sq.Eq{"id": doctorID}).
		Suffix("FOR UPDATE")

	sqlStr, args, _ := q.ToSql()
	r.logSQL("LockDoctor", sqlStr, args)

	var lockedID uuid.UUID
	if err := tx.QueryRow(ctx, sqlStr, args...).Scan(&lockedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: doctor %s", domain.ErrNotFound, doctorID)
		}
		return fmt.Errorf("%w: lock doctor: %v", domain.ErrStoreFailure, err)
	}

	return nil
}

func (r *PostgresStoreAdapter) hasScheduledOverlap(ctx context.Context, tx pgx.Tx, doctorID uuid.UUID, date json_types.Date, window domain.TimeWindow) (bool, error) {
	q := r.qb().Select("start_minute", "duration_minutes").
		From("appointments").
		Where(sq.Eq{
			"doctor_id":  doctorID,
			"visit_date": date.Date,
			"status":     string(domain.AppointmentStatusScheduled),
		})

	sqlStr, args, _ := q.ToSql()
	r.logSQL("HasScheduledOverlap", sqlStr, args)

	rows, err := tx.Query(ctx, sqlStr, args...)
	if err != nil {
		return false, fmt.Errorf("%w: select scheduled: %v", domain.ErrStoreFailure, err)
	}
	defer rows.Close()

	existing := make([]domain.TimeWindow, 0)
	for rows.Next() {
		var startMinute, durationMinutes int
		if err := rows.Scan(&startMinute, &durationMinutes); err != nil {
			return false, fmt.Errorf("%w: scan scheduled: %v", domain.ErrStoreFailure, err)
		}
		start := json_types.TimeOfDay{Minutes: startMinute}
		existing = append(existing, domain.TimeWindow{
			Start: start,
			End:   start.AddMinutes(durationMinutes),
		})
	}
	if err := rows.Err(); err != nil {
		return false, fmt.Errorf("%w: select scheduled: %v", domain.ErrStoreFailure, err)
	}

	for _, other := range existing {
		if window.Overlaps(other) {
			return true, nil
		}
	}

	return false, nil
}

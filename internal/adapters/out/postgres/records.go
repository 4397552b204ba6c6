package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/clinicore/medical-automation-api/internal/core/domain"
)

// uniqueViolation - код ошибки postgres для нарушения уникальности
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func (r *PostgresStoreAdapter) FindDoctorByID(ctx context.Context, doctorID uuid.UUID) (*domain.Doctor, error) {
	q := r.qb().Select("id", "name", "specialty", "slot_duration_minutes", "working_hours").
		From("doctors").
		Where(sq.Eq{"id": doctorID})

	sqlStr, args, _ := q.ToSql()
	r.logSQL("FindDoctorByID", sqlStr, args)

	var doctor domain.Doctor
	var workingHoursRaw []byte
	err := r.pool.QueryRow(ctx, sqlStr, args...).Scan(
		&doctor.ID, &doctor.Name, &doctor.Specialty, &doctor.SlotDurationMinutes, &workingHoursRaw,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: doctor %s", domain.ErrNotFound, doctorID)
		}
		return nil, fmt.Errorf("%w: find doctor: %v", domain.ErrStoreFailure, err)
	}

	if err := json.Unmarshal(workingHoursRaw, &doctor.WorkingHours); err != nil {
		return nil, fmt.Errorf("%w: decode working hours: %v", domain.ErrStoreFailure, err)
	}

	return &doctor, nil
}

func (r *PostgresStoreAdapter) ListDoctors(ctx context.Context) ([]domain.Doctor, error) {
	q := r.qb().Select("id", "name", "specialty", "slot_duration_minutes", "working_hours").
		From("doctors").
		OrderBy("name ASC")

	sqlStr, args, _ := q.ToSql()
	r.logSQL("ListDoctors", sqlStr, args)

	rows, err := r.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: list doctors: %v", domain.ErrStoreFailure, err)
	}
	defer rows.Close()

	doctors := make([]domain.Doctor, 0)
	for rows.Next() {
		var doctor domain.Doctor
		var workingHoursRaw []byte
		if err := rows.Scan(
			&doctor.ID, &doctor.Name, &doctor.Specialty, &doctor.SlotDurationMinutes, &workingHoursRaw,
		); err != nil {
			return nil, fmt.Errorf("%w: scan doctor: %v", domain.ErrStoreFailure, err)
		}
		if err := json.Unmarshal(workingHoursRaw, &doctor.WorkingHours); err != nil {
			return nil, fmt.Errorf("%w: decode working hours: %v", domain.ErrStoreFailure, err)
		}
		doctors = append(doctors, doctor)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list doctors: %v", domain.ErrStoreFailure, err)
	}

	return doctors, nil
}

func (r *PostgresStoreAdapter) CreateDoctor(ctx context.Context, doctor domain.Doctor) error {
	workingHoursRaw, err := json.Marshal(doctor.WorkingHours)
	if err != nil {
		return fmt.Errorf("%w: encode working hours: %v", domain.ErrStoreFailure, err)
	}

	q := r.qb().Insert("doctors").
		Columns("id", "name", "specialty", "slot_duration_minutes", "working_hours").
		Values(doctor.ID, doctor.Name, doctor.Specialty, doctor.SlotDurationMinutes, workingHoursRaw)

	sqlStr, args, _ := q.ToSql()
	r.logSQL("CreateDoctor", sqlStr, args)

	if _, err := r.pool.Exec(ctx, sqlStr, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: doctor %s already exists", domain.ErrConflict, doctor.ID)
		}
		return fmt.Errorf("%w: create doctor: %v", domain.ErrStoreFailure, err)
	}

	return nil
}

func (r *PostgresStoreAdapter) UpdateDoctor(ctx context.Context, doctor domain.Doctor) error {
	workingHoursRaw, err := json.Marshal(doctor.WorkingHours)
	if err != nil {
		return fmt.Errorf("%w: encode working hours: %v", domain.ErrStoreFailure, err)
	}

	q := r.qb().Update("doctors").
		SetMap(map[string]interface{}{
			"name":                  doctor.Name,
			"specialty":             doctor.Specialty,
			"slot_duration_minutes": doctor.SlotDurationMinutes,
			"working_hours":         workingHoursRaw,
			"updated_at":            sq.Expr("now()"),
		}).
		Where(sq.Eq{"id": doctor.ID})

	sqlStr, args, _ := q.ToSql()
	r.logSQL("UpdateDoctor", sqlStr, args)

	tag, err := r.pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		return fmt.Errorf("%w: update doctor: %v", domain.ErrStoreFailure, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: doctor %s", domain.ErrNotFound, doctor.ID)
	}

	return nil
}

func (r *PostgresStoreAdapter) FindPatientByID(ctx context.Context, patientID uuid.UUID) (*domain.Patient, error) {
	q := r.qb().Select("id", "name", "cpf", "email", "phone").
		From("patients").
		Where(sq.Eq{"id": patientID})

	sqlStr, args, _ := q.ToSql()
	r.logSQL("FindPatientByID", sqlStr, args)

	var patient domain.Patient
	err := r.pool.QueryRow(ctx, sqlStr, args...).Scan(
		&patient.ID, &patient.Name, &patient.CPF, &patient.Email, &patient.Phone,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: patient %s", domain.ErrNotFound, patientID)
		}
		return nil, fmt.Errorf("%w: find patient: %v", domain.ErrStoreFailure, err)
	}

	return &patient, nil
}

func (r *PostgresStoreAdapter) CreatePatient(ctx context.Context, patient domain.Patient) error {
	q := r.qb().Insert("patients").
		Columns("id", "name", "cpf", "email", "phone").
		Values(patient.ID, patient.Name, patient.CPF, patient.Email, patient.Phone)

	sqlStr, args, _ := q.ToSql()
	r.logSQL("CreatePatient", sqlStr, args)

	if _, err := r.pool.Exec(ctx, sqlStr, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: patient or cpf already registered", domain.ErrConflict)
		}
		return fmt.Errorf("%w: create patient: %v", domain.ErrStoreFailure, err)
	}

	return nil
}

func (r *PostgresStoreAdapter) UpdatePatient(ctx context.Context, patient domain.Patient) error {
	q := r.qb().Update("patients").
		SetMap(map[string]interface{}{
			"name":       patient.Name,
			"cpf":        patient.CPF,
			"email":      patient.Email,
			"phone":      patient.Phone,
			"updated_at": sq.Expr("now()"),
		}).
		Where(sq.Eq{"id": patient.ID})

	sqlStr, args, _ := q.ToSql()
	r.logSQL("UpdatePatient", sqlStr, args)

	tag, err := r.pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: cpf already registered", domain.ErrConflict)
		}
		return fmt.Errorf("%w: update patient: %v", domain.ErrStoreFailure, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: patient %s", domain.ErrNotFound, patient.ID)
	}

	return nil
}

func (r *PostgresStoreAdapter) FindPaymentProfileByPatientID(ctx context.Context, patientID uuid.UUID) (*domain.PaymentProfile, error) {
	q := r.qb().Select("patient_id", "provider", "plan_code", "card_token", "updated_at").
		From("payment_profiles").
		Where(sq.Eq{"patient_id": patientID})

	sqlStr, args, _ := q.ToSql()
	r.logSQL("FindPaymentProfileByPatientID", sqlStr, args)

	var profile domain.PaymentProfile
	err := r.pool.QueryRow(ctx, sqlStr, args...).Scan(
		&profile.PatientID, &profile.Provider, &profile.PlanCode, &profile.CardToken, &profile.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: payment profile for patient %s", domain.ErrNotFound, patientID)
		}
		return nil, fmt.Errorf("%w: find payment profile: %v", domain.ErrStoreFailure, err)
	}

	return &profile, nil
}

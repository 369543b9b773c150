package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"vet-clinic-api/internal/domain/schedules"
)

type SchedulesRepo struct {
	db *sql.DB
}

func NewSchedulesRepo(db *sql.DB) *SchedulesRepo {
	return &SchedulesRepo{db: db}
}

const scheduleColumns = `
	id, date, weight_killogram, temperature,
	complain_diagnosis, treatment, service, status,
	follow_up, created_at, updated_at
`

func (r *SchedulesRepo) Create(ctx context.Context, s schedules.Schedule, petIDs []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO vaccination_schedules (
			id, date, weight_killogram, temperature,
			complain_diagnosis, treatment, service, status,
			follow_up, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`,
		s.ID,
		s.Date,
		s.WeightKg,
		s.Temperature,
		s.ComplainDiagnosis,
		s.Treatment,
		string(s.Service),
		string(s.Status),
		toNullTime(s.FollowUp),
		s.CreatedAt,
		s.UpdatedAt,
	); err != nil {
		return err
	}

	for _, petID := range petIDs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO schedule_pets (schedule_id, pet_id, created_at)
			VALUES ($1, $2, now())
			ON CONFLICT (schedule_id, pet_id) DO NOTHING
		`, s.ID, petID); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *SchedulesRepo) Update(ctx context.Context, s schedules.Schedule) error {
	if !isUUID(s.ID) {
		return schedules.ErrNotFound
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE vaccination_schedules
		SET
			date = $2,
			weight_killogram = $3,
			temperature = $4,
			complain_diagnosis = $5,
			treatment = $6,
			service = $7,
			status = $8,
			follow_up = $9,
			updated_at = $10
		WHERE id = $1
	`,
		s.ID,
		s.Date,
		s.WeightKg,
		s.Temperature,
		s.ComplainDiagnosis,
		s.Treatment,
		string(s.Service),
		string(s.Status),
		toNullTime(s.FollowUp),
		s.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return schedules.ErrNotFound
	}
	return nil
}

func (r *SchedulesRepo) GetByID(ctx context.Context, id string) (schedules.Schedule, error) {
	if !isUUID(id) {
		return schedules.Schedule{}, schedules.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx,
		`SELECT `+scheduleColumns+` FROM vaccination_schedules WHERE id = $1`, id)
	return scanSchedule(row)
}

func (r *SchedulesRepo) List(ctx context.Context, f schedules.ListFilter) ([]schedules.Schedule, error) {
	sb := strings.Builder{}
	sb.WriteString(`SELECT ` + scheduleColumns + ` FROM vaccination_schedules WHERE 1=1`)

	args := []any{}
	argN := 1

	if f.Service != "" {
		sb.WriteString(fmt.Sprintf(" AND service = $%d", argN))
		args = append(args, string(f.Service))
		argN++
	}
	if f.Status != "" {
		sb.WriteString(fmt.Sprintf(" AND status = $%d", argN))
		args = append(args, string(f.Status))
		argN++
	}
	if f.PetID != "" {
		sb.WriteString(fmt.Sprintf(
			" AND id IN (SELECT schedule_id FROM schedule_pets WHERE pet_id = $%d)", argN))
		args = append(args, f.PetID)
		argN++
	}
	if f.From != nil {
		sb.WriteString(fmt.Sprintf(" AND date >= $%d", argN))
		args = append(args, *f.From)
		argN++
	}
	if f.To != nil {
		sb.WriteString(fmt.Sprintf(" AND date < $%d", argN))
		args = append(args, *f.To)
		argN++
	}

	orderCol := "date"
	if f.FollowUpFrom != nil {
		sb.WriteString(fmt.Sprintf(" AND follow_up IS NOT NULL AND follow_up >= $%d", argN))
		args = append(args, *f.FollowUpFrom)
		argN++
		orderCol = "follow_up"
	}

	dir := "DESC"
	if f.Asc {
		dir = "ASC"
	}
	sb.WriteString(" ORDER BY " + orderCol + " " + dir)

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]schedules.Schedule, 0)
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SchedulesRepo) Delete(ctx context.Context, id string) error {
	if !isUUID(id) {
		return schedules.ErrNotFound
	}

	// schedule_pets rows go with it (ON DELETE CASCADE).
	res, err := r.db.ExecContext(ctx, `DELETE FROM vaccination_schedules WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return schedules.ErrNotFound
	}
	return nil
}

func (r *SchedulesRepo) SetStatus(ctx context.Context, id string, st schedules.Status, updatedAt time.Time) error {
	if !isUUID(id) {
		return schedules.ErrNotFound
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE vaccination_schedules SET status = $2, updated_at = $3 WHERE id = $1
	`, id, string(st), updatedAt)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return schedules.ErrNotFound
	}
	return nil
}

func (r *SchedulesRepo) AttachPet(ctx context.Context, scheduleID, petID string) error {
	if !isUUID(scheduleID) || !isUUID(petID) {
		return schedules.ErrNotFound
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO schedule_pets (schedule_id, pet_id, created_at)
		VALUES ($1, $2, now())
		ON CONFLICT (schedule_id, pet_id) DO NOTHING
	`, scheduleID, petID)
	return err
}

func (r *SchedulesRepo) DetachPet(ctx context.Context, scheduleID, petID string) error {
	// Detach of an absent pairing is a no-op, and a malformed id can
	// never name a pairing.
	if !isUUID(scheduleID) || !isUUID(petID) {
		return nil
	}

	_, err := r.db.ExecContext(ctx, `
		DELETE FROM schedule_pets WHERE schedule_id = $1 AND pet_id = $2
	`, scheduleID, petID)
	return err
}

func (r *SchedulesRepo) SyncPets(ctx context.Context, scheduleID string, petIDs []string) error {
	if !isUUID(scheduleID) {
		return schedules.ErrNotFound
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM schedule_pets WHERE schedule_id = $1
	`, scheduleID); err != nil {
		return err
	}

	for _, petID := range petIDs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO schedule_pets (schedule_id, pet_id, created_at)
			VALUES ($1, $2, now())
			ON CONFLICT (schedule_id, pet_id) DO NOTHING
		`, scheduleID, petID); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *SchedulesRepo) ListPetIDs(ctx context.Context, scheduleID string) ([]string, error) {
	if !isUUID(scheduleID) {
		return []string{}, nil
	}
	return queryIDs(ctx, r.db, `
		SELECT pet_id FROM schedule_pets WHERE schedule_id = $1 ORDER BY created_at ASC
	`, scheduleID)
}

func (r *SchedulesRepo) RemovePetLinks(ctx context.Context, petID string) error {
	if !isUUID(petID) {
		return nil
	}
	_, err := r.db.ExecContext(ctx, `DELETE FROM schedule_pets WHERE pet_id = $1`, petID)
	return err
}

func scanSchedule(row rowScanner) (schedules.Schedule, error) {
	var s schedules.Schedule
	var service, status string
	var followUp sql.NullTime
	if err := row.Scan(
		&s.ID,
		&s.Date,
		&s.WeightKg,
		&s.Temperature,
		&s.ComplainDiagnosis,
		&s.Treatment,
		&service,
		&status,
		&followUp,
		&s.CreatedAt,
		&s.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return schedules.Schedule{}, schedules.ErrNotFound
		}
		return schedules.Schedule{}, err
	}
	s.Service = schedules.ServiceType(service)
	s.Status = schedules.Status(status)
	if followUp.Valid {
		t := followUp.Time
		s.FollowUp = &t
	}
	return s, nil
}

package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"wellhub/internal/apperrors"
	"wellhub/internal/database"
	"wellhub/internal/models"
)

type AttendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// Mark appends an attendance record, moves the registration to its outcome
// status, and adjusts the event's attended counter, all in one transaction.
//
// The counter moves only on transitions: into attended it increments, out of
// attended (an admin correcting a mistaken present) it decrements. Re-marking
// an already-attended registration as present is a no-op for the counter, so
// repeated corrections cannot inflate it.
func (r *AttendanceRepository) Mark(ctx context.Context, registrationID string, status models.AttendanceStatus, adminID, notes string) (*models.AttendanceRecord, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, apperrors.Unavailable("begin mark attendance", err)
	}
	defer tx.Rollback()

	reg := &models.Registration{}
	err = scanRegistration(tx.QueryRowContext(ctx,
		`SELECT `+registrationColumns+` FROM registrations WHERE id = $1 FOR UPDATE`,
		registrationID,
	), reg)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, apperrors.Unavailable("lock registration row", err)
	}

	if !reg.CanMarkAttendance() {
		return nil, apperrors.Validationf("cannot mark attendance on a %s registration", reg.Status)
	}

	var attended, registered int
	err = tx.QueryRowContext(ctx,
		`SELECT attended, registered FROM events WHERE id = $1 FOR UPDATE`,
		reg.EventID,
	).Scan(&attended, &registered)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, apperrors.Unavailable("lock event row", err)
	}

	now := time.Now()
	record := &models.AttendanceRecord{
		ID:             uuid.New().String(),
		RegistrationID: reg.ID,
		EventID:        reg.EventID,
		UserID:         reg.UserID,
		Status:         status,
		MarkedBy:       adminID,
		Notes:          notes,
	}
	if status.CountsAsAttended() {
		record.CheckInAt = &now
	}

	err = tx.QueryRowContext(ctx,
		`INSERT INTO attendance_records (id, registration_id, event_id, user_id, status, check_in_at, marked_by, notes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING created_at`,
		record.ID, record.RegistrationID, record.EventID, record.UserID,
		record.Status, record.CheckInAt, record.MarkedBy, record.Notes,
	).Scan(&record.CreatedAt)
	if err != nil {
		return nil, apperrors.Unavailable("insert attendance record", err)
	}

	newStatus := models.RegistrationOutcome(status)
	if _, err := tx.ExecContext(ctx,
		`UPDATE registrations
		 SET status = $1, attendance_marked_at = $2, attendance_marked_by = $3
		 WHERE id = $4`,
		newStatus, now, adminID, registrationID,
	); err != nil {
		return nil, apperrors.Unavailable("update registration outcome", err)
	}

	wasAttended := reg.Status == models.RegistrationStatusAttended
	nowAttended := newStatus == models.RegistrationStatusAttended
	switch {
	case nowAttended && !wasAttended:
		_, err = tx.ExecContext(ctx,
			`UPDATE events SET attended = attended + 1, updated_at = NOW() WHERE id = $1`,
			reg.EventID)
	case wasAttended && !nowAttended:
		_, err = tx.ExecContext(ctx,
			`UPDATE events SET attended = GREATEST(attended - 1, 0), updated_at = NOW() WHERE id = $1`,
			reg.EventID)
	}
	if err != nil {
		return nil, apperrors.Unavailable("adjust attended counter", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, apperrors.Unavailable("commit mark attendance", err)
	}

	return record, nil
}

func (r *AttendanceRepository) ListByEvent(ctx context.Context, eventID string) ([]models.AttendanceRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, registration_id, event_id, user_id, status, check_in_at,
		        check_out_at, marked_by, notes, created_at
		 FROM attendance_records
		 WHERE event_id = $1
		 ORDER BY created_at DESC`,
		eventID)
	if err != nil {
		return nil, apperrors.Unavailable("list attendance", err)
	}
	defer rows.Close()

	var records []models.AttendanceRecord
	for rows.Next() {
		var rec models.AttendanceRecord
		err := rows.Scan(
			&rec.ID,
			&rec.RegistrationID,
			&rec.EventID,
			&rec.UserID,
			&rec.Status,
			&rec.CheckInAt,
			&rec.CheckOutAt,
			&rec.MarkedBy,
			&rec.Notes,
			&rec.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.Unavailable("scan attendance record", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

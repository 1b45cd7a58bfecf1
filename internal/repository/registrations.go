package repository

import (
	"context"
	"database/sql"

	"wellhub/internal/apperrors"
	"wellhub/internal/database"
	"wellhub/internal/models"
)

type RegistrationRepository struct {
	db *database.DB
}

func NewRegistrationRepository(db *database.DB) *RegistrationRepository {
	return &RegistrationRepository{db: db}
}

const registrationColumns = `id, event_id, user_id, name, email, phone, status,
	payment_status, registered_at, attendance_marked_at, attendance_marked_by`

func scanRegistration(row interface{ Scan(...any) error }, reg *models.Registration) error {
	return row.Scan(
		&reg.ID,
		&reg.EventID,
		&reg.UserID,
		&reg.Name,
		&reg.Email,
		&reg.Phone,
		&reg.Status,
		&reg.PaymentStatus,
		&reg.RegisteredAt,
		&reg.AttendanceMarkedAt,
		&reg.AttendanceMarkedBy,
	)
}

// Register inserts a registration and increments the event's registered
// counter in one transaction.
//
// The row lock taken by SELECT ... FOR UPDATE serializes concurrent
// registrations for the same event: without it, two transactions can both
// read registered < capacity before either writes the increment, and the
// event overbooks. With the lock, the second transaction blocks until the
// first commits and then re-reads the updated counter.
func (r *RegistrationRepository) Register(ctx context.Context, eventID string, reg *models.Registration) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.Unavailable("begin register", err)
	}
	defer tx.Rollback()

	var capacity, registered int
	var price int64
	err = tx.QueryRowContext(ctx,
		`SELECT capacity, registered, price FROM events WHERE id = $1 FOR UPDATE`,
		eventID,
	).Scan(&capacity, &registered, &price)
	if err == sql.ErrNoRows {
		return apperrors.ErrNotFound
	}
	if err != nil {
		return apperrors.Unavailable("lock event row", err)
	}

	if registered >= capacity {
		return apperrors.ErrCapacityExceeded
	}

	// Most recent registration for the pair decides whether the user still
	// holds a seat; cancelled and no-show history does not block.
	var lastStatus models.RegistrationStatus
	err = tx.QueryRowContext(ctx,
		`SELECT status FROM registrations
		 WHERE event_id = $1 AND user_id = $2
		 ORDER BY registered_at DESC
		 LIMIT 1`,
		eventID, reg.UserID,
	).Scan(&lastStatus)
	if err != nil && err != sql.ErrNoRows {
		return apperrors.Unavailable("check duplicate registration", err)
	}
	if err == nil {
		prev := models.Registration{Status: lastStatus}
		if prev.IsActive() {
			return apperrors.ErrDuplicateRegistration
		}
	}

	reg.EventID = eventID
	reg.Status = models.RegistrationStatusRegistered
	reg.PaymentStatus = models.PaymentStatusForPrice(price)

	err = tx.QueryRowContext(ctx,
		`INSERT INTO registrations (id, event_id, user_id, name, email, phone, status, payment_status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING registered_at`,
		reg.ID, reg.EventID, reg.UserID, reg.Name, reg.Email, reg.Phone, reg.Status, reg.PaymentStatus,
	).Scan(&reg.RegisteredAt)
	if err != nil {
		return apperrors.Unavailable("insert registration", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE events SET registered = registered + 1, updated_at = NOW() WHERE id = $1`,
		eventID,
	); err != nil {
		return apperrors.Unavailable("increment registered", err)
	}

	if err := tx.Commit(); err != nil {
		return apperrors.Unavailable("commit register", err)
	}
	return nil
}

// Cancel moves a registration to cancelled and releases its seat. Only
// registrations that can still transition (registered, waitlist) are
// accepted; cancelling a waitlisted entry does not decrement because it
// never held a seat.
func (r *RegistrationRepository) Cancel(ctx context.Context, registrationID string) (*models.Registration, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, apperrors.Unavailable("begin cancel", err)
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

	if !reg.CanCancel() {
		return nil, apperrors.Validationf("cannot cancel a %s registration", reg.Status)
	}
	heldSeat := reg.Status == models.RegistrationStatusRegistered

	if _, err := tx.ExecContext(ctx,
		`UPDATE registrations SET status = $1 WHERE id = $2`,
		models.RegistrationStatusCancelled, registrationID,
	); err != nil {
		return nil, apperrors.Unavailable("cancel registration", err)
	}

	if heldSeat {
		// GREATEST floors at zero; the counter should never be negative if
		// the invariants held.
		if _, err := tx.ExecContext(ctx,
			`UPDATE events SET registered = GREATEST(registered - 1, 0), updated_at = NOW()
			 WHERE id = $1`,
			reg.EventID,
		); err != nil {
			return nil, apperrors.Unavailable("decrement registered", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, apperrors.Unavailable("commit cancel", err)
	}

	reg.Status = models.RegistrationStatusCancelled
	return reg, nil
}

func (r *RegistrationRepository) GetByID(ctx context.Context, id string) (*models.Registration, error) {
	reg := &models.Registration{}
	err := scanRegistration(r.db.QueryRowContext(ctx,
		`SELECT `+registrationColumns+` FROM registrations WHERE id = $1`, id), reg)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, apperrors.Unavailable("get registration", err)
	}
	return reg, nil
}

func (r *RegistrationRepository) LatestForUser(ctx context.Context, eventID, userID string) (*models.Registration, error) {
	reg := &models.Registration{}
	err := scanRegistration(r.db.QueryRowContext(ctx,
		`SELECT `+registrationColumns+` FROM registrations
		 WHERE event_id = $1 AND user_id = $2
		 ORDER BY registered_at DESC
		 LIMIT 1`,
		eventID, userID), reg)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Unavailable("get user registration", err)
	}
	return reg, nil
}

func (r *RegistrationRepository) ListByEvent(ctx context.Context, eventID string) ([]models.Registration, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+registrationColumns+` FROM registrations
		 WHERE event_id = $1
		 ORDER BY registered_at DESC`,
		eventID)
	if err != nil {
		return nil, apperrors.Unavailable("list registrations", err)
	}
	defer rows.Close()

	var regs []models.Registration
	for rows.Next() {
		var reg models.Registration
		if err := scanRegistration(rows, &reg); err != nil {
			return nil, apperrors.Unavailable("scan registration", err)
		}
		regs = append(regs, reg)
	}

	return regs, rows.Err()
}

package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"wellhub/internal/apperrors"
	"wellhub/internal/database"
	"wellhub/internal/models"
)

type EventRepository struct {
	db *database.DB
}

func NewEventRepository(db *database.DB) *EventRepository {
	return &EventRepository{db: db}
}

const eventColumns = `id, title, description, category, starts_at, ends_at,
	location_type, location, capacity, price, registered, attended, status,
	featured, created_at, updated_at`

func scanEvent(row interface{ Scan(...any) error }, e *models.Event) error {
	return row.Scan(
		&e.ID,
		&e.Title,
		&e.Description,
		&e.Category,
		&e.StartsAt,
		&e.EndsAt,
		&e.LocationType,
		&e.Location,
		&e.Capacity,
		&e.Price,
		&e.Registered,
		&e.Attended,
		&e.Status,
		&e.Featured,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
}

func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	query := `
		INSERT INTO events (id, title, description, category, starts_at, ends_at,
			location_type, location, capacity, price, registered, attended, status, featured)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 0, 0, $11, $12)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		event.ID,
		event.Title,
		event.Description,
		event.Category,
		event.StartsAt,
		event.EndsAt,
		event.LocationType,
		event.Location,
		event.Capacity,
		event.Price,
		event.Status,
		event.Featured,
	).Scan(&event.CreatedAt, &event.UpdatedAt)
	if err != nil {
		return apperrors.Unavailable("insert event", err)
	}

	event.Registered = 0
	event.Attended = 0
	return nil
}

func (r *EventRepository) GetByID(ctx context.Context, id string) (*models.Event, error) {
	event := &models.Event{}
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	err := scanEvent(r.db.QueryRowContext(ctx, query, id), event)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, apperrors.Unavailable("get event", err)
	}

	return event, nil
}

func (r *EventRepository) List(ctx context.Context, filter models.EventFilter) ([]models.Event, error) {
	var args []interface{}
	argIndex := 1
	var searchArgIndex int

	sqlQuery := `SELECT ` + eventColumns + ` FROM events WHERE 1=1`

	if filter.Query != "" {
		searchArgIndex = argIndex
		sqlQuery += fmt.Sprintf(" AND search_vector @@ to_tsquery('english', $%d)", argIndex)
		args = append(args, prepareSearchQuery(filter.Query))
		argIndex++
	}

	if filter.Status != "" {
		sqlQuery += fmt.Sprintf(" AND status = $%d", argIndex)
		args = append(args, filter.Status)
		argIndex++
	}

	if filter.Category != "" {
		sqlQuery += fmt.Sprintf(" AND category = $%d", argIndex)
		args = append(args, filter.Category)
		argIndex++
	}

	if filter.LocationType != "" {
		sqlQuery += fmt.Sprintf(" AND location_type = $%d", argIndex)
		args = append(args, filter.LocationType)
		argIndex++
	}

	if filter.Featured != nil {
		sqlQuery += fmt.Sprintf(" AND featured = $%d", argIndex)
		args = append(args, *filter.Featured)
		argIndex++
	}

	if filter.From != nil {
		sqlQuery += fmt.Sprintf(" AND starts_at >= $%d", argIndex)
		args = append(args, *filter.From)
		argIndex++
	}

	if filter.To != nil {
		sqlQuery += fmt.Sprintf(" AND starts_at <= $%d", argIndex)
		args = append(args, *filter.To)
		argIndex++
	}

	// Relevance first when searching, otherwise by schedule
	if filter.Query != "" {
		sqlQuery += fmt.Sprintf(" ORDER BY ts_rank(search_vector, to_tsquery('english', $%d)) DESC, starts_at ASC", searchArgIndex)
	} else {
		sqlQuery += " ORDER BY starts_at ASC"
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		sqlQuery += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
		args = append(args, filter.PageSize, offset)
	}

	rows, err := r.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, apperrors.Unavailable("list events", err)
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		var event models.Event
		if err := scanEvent(rows, &event); err != nil {
			return nil, apperrors.Unavailable("scan event", err)
		}
		events = append(events, event)
	}

	return events, rows.Err()
}

func (r *EventRepository) Update(ctx context.Context, id string, upd models.UpdateEventRequest) (*models.Event, error) {
	var sets []string
	var args []interface{}
	argIndex := 1

	set := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argIndex))
		args = append(args, value)
		argIndex++
	}

	if upd.Title != nil {
		set("title", *upd.Title)
	}
	if upd.Description != nil {
		set("description", *upd.Description)
	}
	if upd.Category != nil {
		set("category", *upd.Category)
	}
	if upd.StartsAt != nil {
		set("starts_at", *upd.StartsAt)
	}
	if upd.EndsAt != nil {
		set("ends_at", *upd.EndsAt)
	}
	if upd.LocationType != nil {
		set("location_type", *upd.LocationType)
	}
	if upd.Location != nil {
		set("location", *upd.Location)
	}
	if upd.Capacity != nil {
		set("capacity", *upd.Capacity)
	}
	if upd.Price != nil {
		set("price", *upd.Price)
	}
	if upd.Status != nil {
		set("status", *upd.Status)
	}
	if upd.Featured != nil {
		set("featured", *upd.Featured)
	}

	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}

	set("updated_at", time.Now())

	query := fmt.Sprintf(`UPDATE events SET %s WHERE id = $%d RETURNING `+eventColumns,
		strings.Join(sets, ", "), argIndex)
	args = append(args, id)

	event := &models.Event{}
	err := scanEvent(r.db.QueryRowContext(ctx, query, args...), event)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, apperrors.Unavailable("update event", err)
	}

	return event, nil
}

func (r *EventRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.Unavailable("begin delete event", err)
	}
	defer tx.Rollback()

	// Explicit cascade so the whole removal commits or rolls back together.
	if _, err := tx.ExecContext(ctx, `DELETE FROM attendance_records WHERE event_id = $1`, id); err != nil {
		return apperrors.Unavailable("delete attendance records", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM registrations WHERE event_id = $1`, id); err != nil {
		return apperrors.Unavailable("delete registrations", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return apperrors.Unavailable("delete event", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return apperrors.Unavailable("delete event", err)
	}
	if affected == 0 {
		return apperrors.ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return apperrors.Unavailable("commit delete event", err)
	}
	return nil
}

func (r *EventRepository) Recount(ctx context.Context, id string) (*models.EventCounts, error) {
	counts := &models.EventCounts{EventID: id}
	query := `
		SELECT e.registered, e.attended,
		       (SELECT COUNT(*) FROM registrations
		        WHERE event_id = e.id AND status IN ('registered', 'attended')),
		       (SELECT COUNT(*) FROM registrations
		        WHERE event_id = e.id AND status = 'attended')
		FROM events e
		WHERE e.id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&counts.StoredRegistered,
		&counts.StoredAttended,
		&counts.DerivedRegistered,
		&counts.DerivedAttended,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, apperrors.Unavailable("recount event", err)
	}

	return counts, nil
}

func (r *EventRepository) CompletePast(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE events SET status = 'completed', updated_at = NOW()
		 WHERE status = 'published' AND ends_at < $1`, now)
	if err != nil {
		return 0, apperrors.Unavailable("complete past events", err)
	}
	return res.RowsAffected()
}

// prepareSearchQuery formats a search query for PostgreSQL full-text search
func prepareSearchQuery(query string) string {
	if containsSearchOperators(query) {
		return query
	}

	words := strings.Fields(strings.TrimSpace(query))
	if len(words) == 0 {
		return ""
	}

	// Prefix-match each word, all words required
	var formattedWords []string
	for _, word := range words {
		if word != "" {
			formattedWords = append(formattedWords, word+":*")
		}
	}

	return strings.Join(formattedWords, " & ")
}

// containsSearchOperators checks if the search query contains PostgreSQL search operators
func containsSearchOperators(query string) bool {
	operators := []string{"&", "|", "!", "(", ")", ":", "*"}
	for _, op := range operators {
		if strings.Contains(query, op) {
			return true
		}
	}
	return false
}

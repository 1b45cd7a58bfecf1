package database

import (
	"fmt"
	"log/slog"
)

func (db *DB) RunMigrations() error {
	slog.Info("Running database migrations...")

	migrations := []string{
		createEventsTable,
		createRegistrationsTable,
		createAttendanceRecordsTable,
		createRegistrationsActiveIndex,
		createRegistrationsEventIndex,
		createAttendanceEventIndex,
		createEventsScheduleIndex,
		createEventsSearchIndex,
	}

	for i, migration := range migrations {
		slog.Info("Running migration", "step", i+1)
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	slog.Info("All migrations completed successfully")
	return nil
}

const createEventsTable = `
CREATE TABLE IF NOT EXISTS events (
    id UUID PRIMARY KEY,
    title VARCHAR(500) NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    category VARCHAR(100) NOT NULL DEFAULT 'general',
    starts_at TIMESTAMPTZ NOT NULL,
    ends_at TIMESTAMPTZ NOT NULL,
    location_type VARCHAR(20) NOT NULL DEFAULT 'physical',
    location TEXT NOT NULL DEFAULT '',
    capacity INTEGER NOT NULL,
    price BIGINT NOT NULL DEFAULT 0,
    registered INTEGER NOT NULL DEFAULT 0,
    attended INTEGER NOT NULL DEFAULT 0,
    status VARCHAR(20) NOT NULL DEFAULT 'draft',
    featured BOOLEAN NOT NULL DEFAULT FALSE,
    search_vector tsvector GENERATED ALWAYS AS (
        to_tsvector('english', title || ' ' || description)
    ) STORED,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),

    CHECK (capacity > 0),
    CHECK (ends_at >= starts_at),
    CHECK (attended >= 0 AND attended <= registered AND registered <= capacity),
    CHECK (status IN ('draft', 'published', 'cancelled', 'completed')),
    CHECK (location_type IN ('physical', 'online', 'hybrid'))
);`

const createRegistrationsTable = `
CREATE TABLE IF NOT EXISTS registrations (
    id UUID PRIMARY KEY,
    event_id UUID NOT NULL REFERENCES events(id) ON DELETE CASCADE,
    user_id VARCHAR(255) NOT NULL,
    name VARCHAR(255) NOT NULL,
    email VARCHAR(255) NOT NULL,
    phone VARCHAR(50) NOT NULL DEFAULT '',
    status VARCHAR(20) NOT NULL DEFAULT 'registered',
    payment_status VARCHAR(20) NOT NULL DEFAULT 'pending',
    registered_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    attendance_marked_at TIMESTAMPTZ,
    attendance_marked_by VARCHAR(255),

    CHECK (status IN ('registered', 'attended', 'no-show', 'cancelled', 'waitlist')),
    CHECK (payment_status IN ('paid', 'pending', 'refunded'))
);`

const createAttendanceRecordsTable = `
CREATE TABLE IF NOT EXISTS attendance_records (
    id UUID PRIMARY KEY,
    registration_id UUID NOT NULL REFERENCES registrations(id) ON DELETE CASCADE,
    event_id UUID NOT NULL REFERENCES events(id) ON DELETE CASCADE,
    user_id VARCHAR(255) NOT NULL,
    status VARCHAR(20) NOT NULL,
    check_in_at TIMESTAMPTZ,
    check_out_at TIMESTAMPTZ,
    marked_by VARCHAR(255) NOT NULL,
    notes TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),

    CHECK (status IN ('present', 'absent', 'late', 'left-early'))
);`

// DB-level backstop for the one-active-registration-per-user invariant. The
// register transaction enforces it first, so violations here indicate a bug.
const createRegistrationsActiveIndex = `
CREATE UNIQUE INDEX IF NOT EXISTS registrations_one_active_idx
ON registrations (event_id, user_id)
WHERE status IN ('registered', 'attended');`

const createRegistrationsEventIndex = `
CREATE INDEX IF NOT EXISTS registrations_event_registered_at_idx
ON registrations (event_id, registered_at DESC);`

const createAttendanceEventIndex = `
CREATE INDEX IF NOT EXISTS attendance_event_created_at_idx
ON attendance_records (event_id, created_at DESC);`

const createEventsScheduleIndex = `
CREATE INDEX IF NOT EXISTS events_starts_at_idx
ON events (starts_at);`

const createEventsSearchIndex = `
CREATE INDEX IF NOT EXISTS events_search_vector_idx
ON events USING GIN (search_vector);`

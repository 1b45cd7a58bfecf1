package jobs

import (
	"context"
	"log/slog"
	"time"

	"wellhub/internal/repository"
)

const checkInterval = 1 * time.Minute

// EventCompletionJob moves published events whose end time has passed to
// the completed status.
type EventCompletionJob struct {
	events repository.EventStore
	ticker *time.Ticker
	done   chan bool
}

func NewEventCompletionJob(events repository.EventStore) *EventCompletionJob {
	return &EventCompletionJob{
		events: events,
		done:   make(chan bool),
	}
}

// Start begins the background job that sweeps for ended events.
func (j *EventCompletionJob) Start(ctx context.Context) {
	slog.Info("Starting event completion job", "check_interval", checkInterval.String())

	j.ticker = time.NewTicker(checkInterval)

	go j.completeEndedEvents(ctx)

	go func() {
		for {
			select {
			case <-j.ticker.C:
				go j.completeEndedEvents(ctx)
			case <-j.done:
				slog.Info("Event completion job stopped")
				return
			}
		}
	}()
}

// Stop gracefully stops the background job.
func (j *EventCompletionJob) Stop() {
	if j.ticker != nil {
		j.ticker.Stop()
	}
	close(j.done)
}

func (j *EventCompletionJob) completeEndedEvents(ctx context.Context) {
	count, err := j.events.CompletePast(ctx, time.Now())
	if err != nil {
		slog.Error("Failed to complete ended events", "error", err)
		return
	}

	if count > 0 {
		slog.Info("Completed ended events", "count", count)
	}
}

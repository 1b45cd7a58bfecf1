package consumers

import (
	"context"
	"log/slog"

	"wellhub/internal/config"
	"wellhub/internal/database"
	"wellhub/internal/external"
	"wellhub/internal/messaging"
	"wellhub/internal/repository"
)

const queueGroup = "consumers"

// ConsumerService runs the NATS subscribers that react to domain events.
type ConsumerService struct {
	db       *database.DB
	nats     *messaging.Client
	repos    *repository.Repositories
	handlers *Handlers
}

func NewConsumerService(cfg *config.Config) (*ConsumerService, error) {
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, err
	}

	natsClient, err := messaging.Connect(cfg.NATS)
	if err != nil {
		return nil, err
	}

	repos := repository.NewRepositories(db)
	mailer := external.NewMailer(cfg.Mailer)
	handlers := NewHandlers(repos, mailer)

	return &ConsumerService{
		db:       db,
		nats:     natsClient,
		repos:    repos,
		handlers: handlers,
	}, nil
}

// Repositories exposes the repositories for background jobs sharing this
// service's database connection.
func (cs *ConsumerService) Repositories() *repository.Repositories {
	return cs.repos
}

func (cs *ConsumerService) Start() error {
	slog.Info("Starting NATS consumers...")

	if _, err := cs.nats.SubscribeQueue("registration.created", queueGroup, "registration-created", cs.handlers.HandleRegistrationCreated); err != nil {
		return err
	}
	if _, err := cs.nats.SubscribeQueue("registration.cancelled", queueGroup, "registration-cancelled", cs.handlers.HandleRegistrationCancelled); err != nil {
		return err
	}
	if _, err := cs.nats.SubscribeQueue("attendance.marked", queueGroup, "attendance-marked", cs.handlers.HandleAttendanceMarked); err != nil {
		return err
	}

	slog.Info("All consumers started successfully")
	return nil
}

func (cs *ConsumerService) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down consumer service...")

	if cs.nats != nil {
		if err := cs.nats.Close(); err != nil {
			slog.Error("Error closing NATS connection", "error", err)
		}
	}

	if cs.db != nil {
		if err := cs.db.Close(); err != nil {
			slog.Error("Error closing database connection", "error", err)
			return err
		}
	}

	return nil
}

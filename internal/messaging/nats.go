package messaging

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	stan "github.com/nats-io/stan.go"
)

// Config holds NATS Streaming connection settings.
type Config struct {
	URL       string
	ClusterID string
	ClientID  string
}

// Client wraps a NATS Streaming connection used to publish and consume
// domain events.
type Client struct {
	conn stan.Conn
}

// Connect establishes a NATS Streaming connection. The client id is
// suffixed with a random fragment so multiple instances can connect
// to the same cluster without clashing.
func Connect(cfg Config) (*Client, error) {
	clientID := fmt.Sprintf("%s-%s", cfg.ClientID, uuid.NewString()[:8])

	conn, err := stan.Connect(cfg.ClusterID, clientID,
		stan.NatsURL(cfg.URL),
		stan.ConnectWait(5*time.Second),
		stan.Pings(10, 5),
		stan.SetConnectionLostHandler(func(_ stan.Conn, reason error) {
			slog.Error("NATS connection lost", "error", reason)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS Streaming: %w", err)
	}

	slog.Info("Connected to NATS Streaming",
		"url", cfg.URL, "cluster_id", cfg.ClusterID, "client_id", clientID)

	return &Client{conn: conn}, nil
}

// Publish marshals the payload to JSON and publishes it on the subject.
func (c *Client) Publish(subject string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload for %s: %w", subject, err)
	}
	if err := c.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", subject, err)
	}
	return nil
}

// Subscribe creates a durable subscription on the subject.
func (c *Client) Subscribe(subject, durable string, handler stan.MsgHandler) (stan.Subscription, error) {
	return c.conn.Subscribe(subject, handler,
		stan.DurableName(durable),
		stan.SetManualAckMode(),
		stan.AckWait(30*time.Second),
		stan.MaxInflight(25),
	)
}

// SubscribeQueue creates a durable queue subscription so a group of
// workers share the subject's messages.
func (c *Client) SubscribeQueue(subject, queue, durable string, handler stan.MsgHandler) (stan.Subscription, error) {
	return c.conn.QueueSubscribe(subject, queue, handler,
		stan.DurableName(durable),
		stan.SetManualAckMode(),
		stan.AckWait(30*time.Second),
		stan.MaxInflight(25),
	)
}

func (c *Client) Close() error {
	return c.conn.Close()
}

package rum

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"
)

// NATSPublisher publishes checkpoints as JSON on a NATS subject.
type NATSPublisher struct {
	conn    *nats.Conn
	subject string
}

// NewNATSPublisher connects to url.
func NewNATSPublisher(url, subject string) (*NATSPublisher, error) {
	conn, err := nats.Connect(url, nats.Name("pageloader-rum"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	slog.Info("NATS publisher initialized for RUM", "url", url, "subject", subject)
	return &NATSPublisher{conn: conn, subject: subject}, nil
}

func (n *NATSPublisher) Publish(_ context.Context, c Checkpoint) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal checkpoint: %w", err)
	}
	if err := n.conn.Publish(n.subject, data); err != nil {
		return fmt.Errorf("failed to publish checkpoint: %w", err)
	}
	slog.Debug("Published RUM checkpoint", "checkpoint", c.Checkpoint, "url", c.URL)
	return nil
}

// Close drains and closes the connection.
func (n *NATSPublisher) Close() error {
	if n.conn == nil {
		return nil
	}
	return n.conn.Drain()
}

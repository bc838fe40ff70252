// Package notify delivers fire-and-forget messages to players through the
// NATS broker. Delivery failures are logged and never surfaced to game code.
package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// Broadcast is the recipient list meaning "every connected user".
var Broadcast []int

// Message is the envelope published to the broker. The push gateway fans
// it out to the targeted websocket connections.
type Message struct {
	ID        string      `json:"id"`
	To        []int       `json:"to,omitempty"` // empty = broadcast
	Subject   string      `json:"subject"`
	Payload   interface{} `json:"message"`
	Timestamp time.Time   `json:"timestamp"`
}

// Notifier sends a typed message to a list of user ids.
type Notifier interface {
	Send(ctx context.Context, to []int, subject string, payload interface{})
}

// NatsNotifier publishes messages to a NATS subject.
type NatsNotifier struct {
	conn    *nats.Conn
	subject string
	logger  *zap.Logger
}

// NewNatsNotifier creates a notifier publishing on "<prefix>.messages".
func NewNatsNotifier(conn *nats.Conn, prefix string, logger *zap.Logger) *NatsNotifier {
	return &NatsNotifier{
		conn:    conn,
		subject: prefix + ".messages",
		logger:  logger,
	}
}

// Send publishes the message. Errors are logged, not returned; game
// progress never depends on delivery.
func (n *NatsNotifier) Send(ctx context.Context, to []int, subject string, payload interface{}) {
	msg := Message{
		ID:        uuid.NewString(),
		To:        to,
		Subject:   subject,
		Payload:   payload,
		Timestamp: time.Now(),
	}

	data, err := json.Marshal(msg)
	if err != nil {
		n.logger.Error("failed to marshal notification", zap.String("subject", subject), zap.Error(err))
		return
	}

	if err := n.conn.Publish(n.subject, data); err != nil {
		n.logger.Error("failed to publish notification",
			zap.String("subject", subject),
			zap.Ints("to", to),
			zap.Error(err),
		)
	}
}

// NopNotifier drops every message. Used by tests and catalog-less dev runs.
type NopNotifier struct{}

func (NopNotifier) Send(context.Context, []int, string, interface{}) {}

// Recorder keeps sent messages in memory for test assertions.
type Recorder struct {
	Messages []Message
}

func (r *Recorder) Send(_ context.Context, to []int, subject string, payload interface{}) {
	r.Messages = append(r.Messages, Message{To: to, Subject: subject, Payload: payload})
}

// BySubject returns the recorded messages with the given subject.
func (r *Recorder) BySubject(subject string) []Message {
	var out []Message
	for _, m := range r.Messages {
		if m.Subject == subject {
			out = append(out, m)
		}
	}
	return out
}

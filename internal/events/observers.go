package events

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
)

// LoggingObserver logs every event at debug level.
type LoggingObserver struct {
	logger *slog.Logger
}

// NewLoggingObserver creates a new observer that logs events.
func NewLoggingObserver(logger *slog.Logger) *LoggingObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingObserver{logger: logger}
}

// OnEvent logs the event details.
func (o *LoggingObserver) OnEvent(event Event) error {
	o.logger.Debug("event", "type", event.Type, "user", event.UserID, "payload", event.Payload)
	return nil
}

// Name returns the observer's name.
func (o *LoggingObserver) Name() string { return "LoggingObserver" }

// ShouldHandle returns true for all events.
func (o *LoggingObserver) ShouldHandle(string) bool { return true }

// Publisher is the subset of *nats.Conn used by NATSObserver.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// envelope is the JSON published for each event.
type envelope struct {
	Type      string `json:"type"`
	UserID    string `json:"userId,omitempty"`
	Data      any    `json:"data"`
	Timestamp int64  `json:"timestamp"`
}

// NATSObserver publishes events as JSON on "<prefix>.<type>", with ':' in the
// type replaced by '.' so that subscribers can use subject wildcards.
type NATSObserver struct {
	pub    Publisher
	prefix string
}

// NewNATSObserver creates an observer publishing through pub.
func NewNATSObserver(pub Publisher, prefix string) *NATSObserver {
	return &NATSObserver{pub: pub, prefix: strings.TrimSuffix(prefix, ".")}
}

// Subject returns the subject an event type is published on.
func (o *NATSObserver) Subject(eventType string) string {
	return o.prefix + "." + strings.ReplaceAll(eventType, ":", ".")
}

// OnEvent publishes the event.
func (o *NATSObserver) OnEvent(event Event) error {
	ts := event.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	data, err := json.Marshal(envelope{
		Type:      event.Type,
		UserID:    event.UserID,
		Data:      event.Payload,
		Timestamp: ts.UnixMilli(),
	})
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", event.Type, err)
	}
	if err := o.pub.Publish(o.Subject(event.Type), data); err != nil {
		return fmt.Errorf("publish event %s: %w", event.Type, err)
	}
	return nil
}

// Name returns the observer's name.
func (o *NATSObserver) Name() string { return "NATSObserver" }

// ShouldHandle returns true for all events.
func (o *NATSObserver) ShouldHandle(string) bool { return true }

// ConnectNATS dials a NATS server with reconnect handling logged through logger.
func ConnectNATS(url string, logger *slog.Logger) (*nats.Conn, error) {
	if logger == nil {
		logger = slog.Default()
	}
	conn, err := nats.Connect(url,
		nats.Name("obyyo"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("nats reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return conn, nil
}

var (
	_ Observer  = (*LoggingObserver)(nil)
	_ Observer  = (*NATSObserver)(nil)
	_ Publisher = (*nats.Conn)(nil)
)

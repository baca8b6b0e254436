// Package events delivers committed governor transitions to an event bus.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/demole/governor/sdk"
	"github.com/demole/governor/types"
)

// DefaultSubjectPrefix is the subject prefix used when none is configured.
const DefaultSubjectPrefix = "governor.events"

var (
	_ sdk.EventPublisher = (*NATSPublisher)(nil)
	_ sdk.EventPublisher = Nop{}
)

// Conn is the subset of *nats.Conn used for publishing.
type Conn interface {
	Publish(subject string, data []byte) error
}

var _ Conn = (*nats.Conn)(nil)

// NATSPublisher publishes each event as JSON on "<prefix>.<kind>".
type NATSPublisher struct {
	conn   Conn
	prefix string
}

// NewNATSPublisher returns a publisher on conn. An empty prefix selects DefaultSubjectPrefix.
func NewNATSPublisher(conn Conn, prefix string) (*NATSPublisher, error) {
	if conn == nil {
		return nil, errors.New("nats connection is required")
	}
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}

	return &NATSPublisher{conn: conn, prefix: prefix}, nil
}

// Subject returns the subject events of kind are published on.
func (p *NATSPublisher) Subject(kind types.EventKind) string {
	return p.prefix + "." + string(kind)
}

// Publish implements sdk.EventPublisher.
func (p *NATSPublisher) Publish(ctx context.Context, event types.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", event.Kind, err)
	}

	subject := p.Subject(event.Kind)
	if err := p.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", subject, err)
	}

	sdk.LoggerFrom(ctx).Debugf("published %s for proposal %d", subject, event.ProposalID)

	return nil
}

// Connect dials url and returns a publisher together with the connection, which the
// caller drains on shutdown.
func Connect(url, prefix string, opts ...nats.Option) (*NATSPublisher, *nats.Conn, error) {
	conn, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to NATS: %w", err)
	}

	pub, err := NewNATSPublisher(conn, prefix)
	if err != nil {
		conn.Close()
		return nil, nil, err
	}

	return pub, conn, nil
}

// Nop discards events.
type Nop struct{}

// Publish implements sdk.EventPublisher.
func (Nop) Publish(context.Context, types.Event) error { return nil }

package sdk

import (
	"context"

	"github.com/demole/governor/types"
)

// EventPublisher receives committed governor transitions.
type EventPublisher interface {
	Publish(ctx context.Context, event types.Event) error
}

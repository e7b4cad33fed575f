package crud

import (
	"context"

	"garageclient/internal/client"
)

// Service is the resource contract the orchestration layer consumes.
// *client.Resource[T] satisfies it; tests plug in fakes.
type Service[T any] interface {
	List(ctx context.Context, q client.Query) (client.Outcome[[]T], error)
	Get(ctx context.Context, id string) (client.Outcome[T], error)
	Create(ctx context.Context, input any) (client.Outcome[T], error)
	Update(ctx context.Context, id string, input any) (client.Outcome[T], error)
	Delete(ctx context.Context, id string) (client.Outcome[struct{}], error)
}

// Notifier renders transient user-visible messages. Every failure an
// orchestrator swallows must pass through here; logging alone is not
// enough.
type Notifier interface {
	Success(message string)
	Error(message string)
}

// Navigator moves the UI to another path after a mutation settles.
type Navigator interface {
	Go(path string)
}

// Confirmer gates destructive actions behind explicit user consent.
// Implementations may block (dialog) or drive a two-step pending/confirm
// flow; the orchestrator only sees the boolean.
type Confirmer interface {
	Confirm(message string) bool
}

// NopNotifier discards messages; useful for headless callers.
type NopNotifier struct{}

func (NopNotifier) Success(string) {}
func (NopNotifier) Error(string)   {}

// NopNavigator ignores navigation.
type NopNavigator struct{}

func (NopNavigator) Go(string) {}

// StaticConfirmer answers every prompt the same way.
type StaticConfirmer bool

func (c StaticConfirmer) Confirm(string) bool { return bool(c) }

package ingest

import (
	"context"

	"github.com/klausbreyer/bonbonbon/models"
)

// ActionSource is one logical stream of semantic key actions. Both input
// modes (binary event device, text lines) implement it, so the session
// never knows which one is driving it.
type ActionSource interface {
	// Next blocks until an action is available. It returns io.EOF when
	// the underlying stream is exhausted and ctx.Err() on cancellation.
	Next(ctx context.Context) (models.KeyAction, error)
	Close() error
}

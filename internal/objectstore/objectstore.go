// Package objectstore abstracts attachment blob storage. Task and workspace
// cascade deletes call into it; the record store never holds file bytes.
package objectstore

import (
	"context"
	"log/slog"
)

type ObjectStorage interface {
	Delete(ctx context.Context, key string) error
	DeleteMany(ctx context.Context, keys []string) error
}

// Noop discards deletes, for deployments without a blob backend and for
// tests. Real deployments plug in their bucket client behind this interface.
type Noop struct{}

func NewNoop() ObjectStorage { return Noop{} }

func (Noop) Delete(ctx context.Context, key string) error {
	slog.DebugContext(ctx, "objectstore delete skipped", "key", key)
	return nil
}

func (Noop) DeleteMany(ctx context.Context, keys []string) error {
	slog.DebugContext(ctx, "objectstore bulk delete skipped", "count", len(keys))
	return nil
}

package persist

import (
	"context"
	"log/slog"

	"github.com/erazemk/musemate/internal/store"
)

// Restore loads the saved state from backend. A missing, unreadable or
// malformed payload yields the empty state; failures are logged, never
// returned.
func Restore(ctx context.Context, backend Backend) store.State {
	data, err := backend.Load(ctx, Key)
	if err != nil {
		slog.Warn("could not load saved state, starting empty", "error", err)
		return store.Empty()
	}
	if data == nil {
		slog.Info("no saved state, starting empty")
		return store.Empty()
	}

	st, err := Decode(data)
	if err != nil {
		slog.Warn("discarding unreadable saved state", "error", err, "bytes", len(data))
		return store.Empty()
	}

	slog.Info("restored state", "items", len(st.Items), "events", len(st.Events))
	return st
}

package service

import (
	"context"
	"log/slog"

	"tollgate/internal/models"
	"tollgate/internal/store"
)

// AsyncLogEvent records an audit entry without blocking the request
// path. With no event store configured (in-memory mode) only the slog
// line is emitted.
func AsyncLogEvent(ctx context.Context, events store.EventStore, entry *models.EventLog) {
	slog.Info("Trial event",
		"action", entry.Action,
		"user_id", entry.UserID,
		"ip", entry.IPAddress,
	)

	if events == nil {
		return
	}

	go func() {
		if err := events.CreateEventLog(context.Background(), entry); err != nil {
			slog.Error("Failed to create event log", "error", err, "action", entry.Action)
		}
	}()
}

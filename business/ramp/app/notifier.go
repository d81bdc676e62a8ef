package app

import (
	"context"

	"github.com/fd1az/ramp-engine/internal/logger"
)

// LogNotifier writes notifications to the structured log stream, the
// only user surface this engine ships with.
type LogNotifier struct {
	log logger.LoggerInterface
}

// NewLogNotifier creates a notifier backed by the given logger.
func NewLogNotifier(log logger.LoggerInterface) *LogNotifier {
	return &LogNotifier{log: log}
}

// Notify logs the notification at info level.
func (n *LogNotifier) Notify(ctx context.Context, notif Notification) {
	n.log.Info(ctx, notif.Title,
		"message", notif.Message,
		"explorer_url", notif.ExplorerURL)
}

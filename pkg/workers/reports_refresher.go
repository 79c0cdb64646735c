package workers

import (
	"context"
	"log/slog"
	"time"
)

type ReportsPanel interface {
	Refresh(ctx context.Context) error
}

type reportsRefresher struct {
	panel    ReportsPanel
	interval time.Duration
}

// NewReportsRefresher periodically resynchronizes the cached report list with
// the backend. Refresh errors are logged and the cached copy stays in place.
func NewReportsRefresher(panel ReportsPanel, interval time.Duration) *reportsRefresher {
	return &reportsRefresher{
		panel:    panel,
		interval: interval,
	}
}

func (r *reportsRefresher) Name() string { return "reports_refresher" }

func (r *reportsRefresher) Start(ctx context.Context) error {
	slog.Info("Starting worker", "name", r.Name(), "interval", r.interval.String())
	defer slog.Info("Worker stopped", "name", r.Name())

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			// Errors already logged by the panel; refresh failures never stop
			// the worker.
			_ = r.panel.Refresh(ctx)
		}
	}
}

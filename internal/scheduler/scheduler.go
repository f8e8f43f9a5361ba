package scheduler

import (
	"log/slog"
	"time"

	"github.com/feriahub/feria-backend/internal/config"
	"github.com/feriahub/feria-backend/internal/services"
)

// Start launches the periodic sweeps: auto-closing stale incidences and
// retrying appeal assignment. Each sweep calls the same idempotent service
// method the interactive path could call; the services never know a timer
// invoked them. Closing done stops both goroutines.
func Start(cfg *config.Config, autoClose *services.AutoCloseService, appeals *services.AppealService, done chan struct{}) {
	go func() {
		ticker := time.NewTicker(cfg.AutoCloseInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				closed, err := autoClose.Run(cfg.AutoCloseInactivity)
				if err != nil {
					slog.Error("auto-close sweep failed", "error", err)
				} else if closed > 0 {
					slog.Info("auto-close sweep completed", "closed", closed)
				}
			case <-done:
				return
			}
		}
	}()

	go func() {
		ticker := time.NewTicker(cfg.AppealSweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				assigned, err := appeals.AutoAssignPending()
				if err != nil {
					slog.Error("appeal assignment sweep failed", "error", err)
				} else if assigned > 0 {
					slog.Info("appeal assignment sweep completed", "assigned", assigned)
				}
			case <-done:
				return
			}
		}
	}()
}

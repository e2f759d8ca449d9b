package main

import (
	"context"
	"log"
	"time"

	"homeMatch/internal/config"
	"homeMatch/internal/services"
)

const (
	defaultSweepInterval = 5 * time.Minute
	sweepTimeout         = 1 * time.Minute
)

// startPoolSweeper runs the periodic expiry pass: active requests past
// their move-in date or TTL leave the pool and lose their matches.
func startPoolSweeper(ctx context.Context, svc *services.MatchService, cfg config.Config, infoLog, errorLog *log.Logger) {
	if svc == nil {
		return
	}

	interval := time.Duration(cfg.Matching.SweepIntervalMinutes) * time.Minute
	if interval <= 0 {
		interval = defaultSweepInterval
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		run := func() {
			runCtx, cancel := context.WithTimeout(ctx, sweepTimeout)
			defer cancel()

			expired, err := svc.ExpireDue(runCtx, time.Now())
			if err != nil {
				if errorLog != nil {
					errorLog.Printf("pool sweeper: expiry pass failed: %v", err)
				}
				return
			}
			if expired > 0 && infoLog != nil {
				infoLog.Printf("pool sweeper: expired %d rental requests", expired)
			}
		}

		run()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				run()
			}
		}
	}()
}

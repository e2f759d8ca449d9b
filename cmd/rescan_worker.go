package main

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"homeMatch/internal/queue"
	"homeMatch/internal/services"
)

const (
	rescanWaitTimeout = 5 * time.Second
	rescanJobTimeout  = 30 * time.Second
)

// startRescanWorker consumes the Redis rescan queue: one request per job,
// so a cancelled worker leaves processed requests correct and the rest
// queued.
func startRescanWorker(ctx context.Context, svc *services.MatchService, q *queue.RescanQueue, infoLog, errorLog *log.Logger) {
	if svc == nil || q == nil {
		return
	}

	go func() {
		for {
			if ctx.Err() != nil {
				return
			}

			requestID, err := q.Dequeue(ctx, rescanWaitTimeout)
			if err != nil {
				if errors.Is(err, queue.ErrEmpty) {
					continue
				}
				if ctx.Err() != nil {
					return
				}
				if errorLog != nil {
					errorLog.Printf("rescan worker: dequeue failed: %v", err)
				}
				time.Sleep(time.Second)
				continue
			}

			jobID := uuid.NewString()
			runCtx, cancel := context.WithTimeout(ctx, rescanJobTimeout)
			count, err := svc.RescanRequest(runCtx, requestID)
			cancel()
			if err != nil {
				if errorLog != nil {
					errorLog.Printf("rescan worker: job %s request %d failed: %v", jobID, requestID, err)
				}
				continue
			}
			if infoLog != nil {
				infoLog.Printf("rescan worker: job %s request %d recomputed, %d matches", jobID, requestID, count)
			}
		}
	}()
}

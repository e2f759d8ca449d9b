package queue

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	rescanListKey = "match:rescan:queue"
	rescanSetKey  = "match:rescan:pending"
)

// ErrEmpty is returned by Dequeue when no job arrived within the wait
// window.
var ErrEmpty = errors.New("queue: no pending rescan")

// RescanQueue fans property/trust change events out to per-request rescan
// jobs. A Redis list carries the order, a companion set deduplicates so a
// request edited ten times while a sweep is behind is rescanned once.
type RescanQueue struct {
	rdb *redis.Client
}

func NewRescanQueue(rdb *redis.Client) *RescanQueue {
	return &RescanQueue{rdb: rdb}
}

// Enqueue schedules a rescan for a single rental request. Already-pending
// requests are skipped.
func (q *RescanQueue) Enqueue(ctx context.Context, requestID int) error {
	member := strconv.Itoa(requestID)
	added, err := q.rdb.SAdd(ctx, rescanSetKey, member).Result()
	if err != nil {
		return err
	}
	if added == 0 {
		return nil
	}
	return q.rdb.LPush(ctx, rescanListKey, member).Err()
}

// EnqueueAll schedules rescans for a batch of requests, skipping
// duplicates individually so one failure does not drop the rest.
func (q *RescanQueue) EnqueueAll(ctx context.Context, requestIDs []int) (int, error) {
	queued := 0
	var lastErr error
	for _, id := range requestIDs {
		if err := q.Enqueue(ctx, id); err != nil {
			lastErr = err
			continue
		}
		queued++
	}
	return queued, lastErr
}

// Dequeue blocks up to wait for the next rescan job. ErrEmpty signals an
// idle queue, context errors pass through for shutdown.
func (q *RescanQueue) Dequeue(ctx context.Context, wait time.Duration) (int, error) {
	vals, err := q.rdb.BRPop(ctx, wait, rescanListKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrEmpty
		}
		return 0, err
	}
	member := vals[1]
	q.rdb.SRem(ctx, rescanSetKey, member)
	requestID, err := strconv.Atoi(member)
	if err != nil {
		return 0, ErrEmpty
	}
	return requestID, nil
}

// Pending reports the number of requests awaiting a rescan.
func (q *RescanQueue) Pending(ctx context.Context) (int64, error) {
	return q.rdb.LLen(ctx, rescanListKey).Result()
}

package notify

import (
	"context"
)

// Logger is the minimal logging interface required by dispatchers.
type Logger interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// MatchEvent describes a newly created or meaningfully improved match.
type MatchEvent struct {
	MatchID        int     `json:"match_id"`
	RequestID      int     `json:"request_id"`
	CounterpartyID int     `json:"counterparty_id"`
	Score          float64 `json:"score"`
	Reason         string  `json:"reason"`
	Improved       bool    `json:"improved"`
}

// Notifier receives match events from the engine. Implementations must not
// block the scoring path on delivery problems; failures are logged and
// swallowed.
type Notifier interface {
	NotifyMatch(ctx context.Context, event MatchEvent)
}

// Multi fans one event out to several dispatchers.
type Multi []Notifier

func (m Multi) NotifyMatch(ctx context.Context, event MatchEvent) {
	for _, n := range m {
		n.NotifyMatch(ctx, event)
	}
}

// Nop discards events; used when no outbound channel is configured.
type Nop struct{}

func (Nop) NotifyMatch(context.Context, MatchEvent) {}

package notify

import (
	"context"
	"fmt"

	"firebase.google.com/go/messaging"
)

// DeviceTokenSource resolves the push tokens registered for a
// counterparty's members.
type DeviceTokenSource interface {
	DeviceTokens(ctx context.Context, counterpartyID int) ([]string, error)
}

// FCMDispatcher delivers match events as Firebase Cloud Messaging pushes.
type FCMDispatcher struct {
	Client *messaging.Client
	Tokens DeviceTokenSource
	Logger Logger
}

func NewFCMDispatcher(client *messaging.Client, tokens DeviceTokenSource, logger Logger) *FCMDispatcher {
	return &FCMDispatcher{Client: client, Tokens: tokens, Logger: logger}
}

func (d *FCMDispatcher) NotifyMatch(ctx context.Context, event MatchEvent) {
	tokens, err := d.Tokens.DeviceTokens(ctx, event.CounterpartyID)
	if err != nil {
		if d.Logger != nil {
			d.Logger.Errorf("fcm: token lookup for counterparty %d failed: %v", event.CounterpartyID, err)
		}
		return
	}

	title := "New matching request"
	if event.Improved {
		title = "Match improved"
	}
	body := fmt.Sprintf("Compatibility %.0f%%: %s", event.Score, event.Reason)

	for _, token := range tokens {
		message := &messaging.Message{
			Token: token,
			Notification: &messaging.Notification{
				Title: title,
				Body:  body,
			},
			Data: map[string]string{
				"match_id":   fmt.Sprintf("%d", event.MatchID),
				"request_id": fmt.Sprintf("%d", event.RequestID),
				"score":      fmt.Sprintf("%.0f", event.Score),
			},
			Android: &messaging.AndroidConfig{
				Priority: "high",
				Notification: &messaging.AndroidNotification{
					ChannelID: "match_channel",
				},
			},
			APNS: &messaging.APNSConfig{
				Headers: map[string]string{
					"apns-priority": "10",
				},
				Payload: &messaging.APNSPayload{
					Aps: &messaging.Aps{
						Alert: &messaging.ApsAlert{
							Title: title,
							Body:  body,
						},
						Sound: "default",
					},
				},
			},
		}
		if _, err := d.Client.Send(ctx, message); err != nil {
			if d.Logger != nil {
				d.Logger.Errorf("fcm: send to counterparty %d failed: %v", event.CounterpartyID, err)
			}
		}
	}
}

package notify

import (
	"context"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
)

type multicastSender interface {
	SendEachForMulticast(ctx context.Context, message *messaging.MulticastMessage) (*messaging.BatchResponse, error)
}

// Pusher delivers device notifications through Firebase Cloud Messaging.
// A Pusher built without a Firebase app only logs.
type Pusher struct {
	client multicastSender
	logger *zap.SugaredLogger
}

func NewPusher(ctx context.Context, app *firebase.App, logger *zap.SugaredLogger) *Pusher {
	p := &Pusher{logger: logger}
	if app == nil {
		logger.Warn("Firebase not configured, device pushes disabled")
		return p
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		logger.Errorf("❌ Firebase client error: %v", err)
		return p
	}
	p.client = client
	return p
}

// Push returns the number of tokens the notification was accepted for.
func (p *Pusher) Push(ctx context.Context, tokens []string, title, body string, data map[string]string) int {
	var valid []string
	for _, token := range tokens {
		if token != "" {
			valid = append(valid, token)
		}
	}
	if len(valid) == 0 {
		return 0
	}
	if p.client == nil {
		p.logger.Infow("📵 Push skipped, messaging disabled", "tokens", len(valid), "title", title)
		return 0
	}

	resp, err := p.client.SendEachForMulticast(ctx, &messaging.MulticastMessage{
		Tokens: valid,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
		},
	})
	if err != nil {
		p.logger.Errorw("❌ Push multicast failed", "tokens", len(valid), "error", err)
		return 0
	}

	for i, r := range resp.Responses {
		if !r.Success {
			p.logger.Warnw("❌ Failed to send to token", "token", valid[i], "error", r.Error)
		}
	}
	p.logger.Infof("📊 Push %q: sent %d/%d notifications successfully", title, resp.SuccessCount, len(valid))
	return resp.SuccessCount
}

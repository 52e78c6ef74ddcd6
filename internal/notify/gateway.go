package notify

import (
	"context"
	"errors"
	"regexp"

	"go.uber.org/zap"
)

// ErrDelivery marks a failure reported by the underlying SMS/voice provider.
var ErrDelivery = errors.New("delivery failed")

var e164 = regexp.MustCompile(`^\+\d{10,15}$`)

// ValidNumber reports whether phone looks like an E.164 number.
func ValidNumber(phone string) bool {
	return e164.MatchString(phone)
}

// Transport is the raw provider API. Implementations return an error wrapping
// ErrDelivery when the provider rejects or fails the request.
type Transport interface {
	SendSMS(ctx context.Context, to, body string) (string, error)
	CreateCall(ctx context.Context, to, spokenText, voice string) (string, error)
}

// Gateway sends texts and voice calls to a single destination. It never returns
// errors: invalid numbers and provider failures are logged and reported as false
// so a bad recipient cannot break a fan-out loop.
type Gateway struct {
	transport Transport
	voice     string
	logger    *zap.SugaredLogger
}

func NewGateway(transport Transport, voice string, logger *zap.SugaredLogger) *Gateway {
	if voice == "" {
		voice = "alice"
	}
	return &Gateway{
		transport: transport,
		voice:     voice,
		logger:    logger,
	}
}

func (g *Gateway) SendText(ctx context.Context, phone, body string) bool {
	if !ValidNumber(phone) {
		g.logger.Warnw("Skipping SMS to invalid number", "phone", phone)
		return false
	}

	sid, err := g.transport.SendSMS(ctx, phone, body)
	if err != nil {
		g.logger.Errorw("❌ SMS delivery failed", "phone", phone, "error", err)
		return false
	}

	g.logger.Infow("✅ SMS sent", "phone", phone, "sid", sid)
	return true
}

func (g *Gateway) PlaceCall(ctx context.Context, phone, spokenMessage string) bool {
	if !ValidNumber(phone) {
		g.logger.Warnw("Skipping call to invalid number", "phone", phone)
		return false
	}

	sid, err := g.transport.CreateCall(ctx, phone, spokenMessage, g.voice)
	if err != nil {
		g.logger.Errorw("❌ Voice call failed", "phone", phone, "error", err)
		return false
	}

	g.logger.Infow("✅ Voice call placed", "phone", phone, "sid", sid)
	return true
}

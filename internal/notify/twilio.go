package notify

import (
	"context"
	"fmt"
	"html"
	"time"

	"github.com/go-resty/resty/v2"
)

type TwilioConfig struct {
	BaseURL    string
	AccountSID string
	AuthToken  string
	FromNumber string
}

type twilioResource struct {
	SID    string `json:"sid"`
	Status string `json:"status"`
}

type twilioError struct {
	Code     int    `json:"code"`
	Message  string `json:"message"`
	MoreInfo string `json:"more_info"`
	Status   int    `json:"status"`
}

// TwilioTransport talks to the Twilio REST API. Requests are attempted once.
type TwilioTransport struct {
	httpClient *resty.Client
	cfg        TwilioConfig
}

func NewTwilioTransport(cfg TwilioConfig) *TwilioTransport {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.twilio.com"
	}
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(30*time.Second).
		SetBasicAuth(cfg.AccountSID, cfg.AuthToken).
		SetHeader("Accept", "application/json")

	return &TwilioTransport{httpClient: client, cfg: cfg}
}

func (t *TwilioTransport) SendSMS(ctx context.Context, to, body string) (string, error) {
	return t.create(ctx, "Messages.json", map[string]string{
		"To":   to,
		"From": t.cfg.FromNumber,
		"Body": body,
	})
}

func (t *TwilioTransport) CreateCall(ctx context.Context, to, spokenText, voice string) (string, error) {
	return t.create(ctx, "Calls.json", map[string]string{
		"To":    to,
		"From":  t.cfg.FromNumber,
		"Twiml": BuildTwiML(spokenText, voice),
	})
}

func (t *TwilioTransport) create(ctx context.Context, resource string, form map[string]string) (string, error) {
	var result twilioResource
	var apiErr twilioError

	resp, err := t.httpClient.R().
		SetContext(ctx).
		SetPathParam("sid", t.cfg.AccountSID).
		SetFormData(form).
		SetResult(&result).
		SetError(&apiErr).
		Post("/2010-04-01/Accounts/{sid}/" + resource)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDelivery, err)
	}
	if resp.IsError() {
		if apiErr.Message != "" {
			return "", fmt.Errorf("%w: twilio %d: %s", ErrDelivery, apiErr.Code, apiErr.Message)
		}
		return "", fmt.Errorf("%w: twilio status %d", ErrDelivery, resp.StatusCode())
	}
	return result.SID, nil
}

// BuildTwiML wraps text in a TwiML document that reads it aloud.
func BuildTwiML(text, voice string) string {
	return fmt.Sprintf(`<Response><Say voice="%s">%s</Say></Response>`,
		html.EscapeString(voice), html.EscapeString(text))
}

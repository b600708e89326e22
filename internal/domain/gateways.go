package domain

import (
	"context"
	"net/http"
	"time"
)

//go:generate mockgen -destination mocks/mock_gateways.go -package mocks github.com/schoolcast/schoolcast/internal/domain SMSGateway,VoiceGateway,EmailGateway,ObjectStore
//go:generate mockgen -destination mocks/mock_http_client.go -package mocks github.com/schoolcast/schoolcast/internal/domain HTTPClient

// HTTPClient allows injecting a custom HTTP client for gateway calls
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// GatewayResult is the uniform outcome of one external delivery call
type GatewayResult struct {
	ExternalID string
	Status     RecipientStatus
}

// SMSGateway sends one text message per call. One call is made per
// individual recipient so group membership is never visible to other
// recipients.
type SMSGateway interface {
	SendSMS(ctx context.Context, toE164, body string) (*GatewayResult, error)
}

// VoiceCall is the content of one outbound call: either text handed
// to the gateway for synthesis, or a short-lived audio URL.
type VoiceCall struct {
	Text     string
	AudioURL string
}

// VoiceGateway places one automated call per recipient.
type VoiceGateway interface {
	PlaceCall(ctx context.Context, toE164 string, call VoiceCall) (*GatewayResult, error)
}

// EmailEnvelope is one gateway delivery: a to set plus optional
// cc/bcc, subject, alternative bodies and attachments.
type EmailEnvelope struct {
	To          []string
	CC          []string
	BCC         []string
	Subject     string
	HTML        string
	Text        string
	Attachments []EmailAttachment
}

// EmailGateway delivers email envelopes.
type EmailGateway interface {
	SendEmail(ctx context.Context, envelope EmailEnvelope) error
}

// ObjectStore hosts voice recordings. Signed URLs are short-lived
// credentials and are generated per call attempt, never cached.
type ObjectStore interface {
	Upload(ctx context.Context, data []byte, name, contentType string) (string, error)
	SignedURL(path string, ttl time.Duration) (string, error)
}

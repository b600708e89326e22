package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/schoolcast/schoolcast/internal/domain"
	"github.com/schoolcast/schoolcast/pkg/logger"
)

const defaultTwilioAPIBase = "https://api.twilio.com/2010-04-01"

// TwilioService implements domain.SMSGateway and domain.VoiceGateway
// against the Twilio REST API. Every send is one API call for one
// destination number.
type TwilioService struct {
	httpClient domain.HTTPClient
	logger     logger.Logger
	accountSID string
	authToken  string
	fromNumber string
	callerID   string
	apiBase    string
}

// NewTwilioService creates a new instance of TwilioService
func NewTwilioService(httpClient domain.HTTPClient, logger logger.Logger, accountSID, authToken, fromNumber, callerID string) *TwilioService {
	return &TwilioService{
		httpClient: httpClient,
		logger:     logger,
		accountSID: accountSID,
		authToken:  authToken,
		fromNumber: fromNumber,
		callerID:   callerID,
		apiBase:    defaultTwilioAPIBase,
	}
}

// twilioResponse is the subset of Twilio's resource representation we
// care about
type twilioResponse struct {
	SID    string `json:"sid"`
	Status string `json:"status"`
}

// twilioError is Twilio's error body for non-2xx responses
type twilioError struct {
	Code    json.Number `json:"code"`
	Message string      `json:"message"`
}

// SendSMS sends one text message.
func (s *TwilioService) SendSMS(ctx context.Context, toE164, body string) (*domain.GatewayResult, error) {
	form := url.Values{}
	form.Add("To", toE164)
	form.Add("From", s.fromNumber)
	form.Add("Body", body)

	apiURL := fmt.Sprintf("%s/Accounts/%s/Messages.json", s.apiBase, s.accountSID)
	return s.post(ctx, apiURL, form)
}

// PlaceCall places one automated outbound call. TTS text is handed to
// the gateway as inline TwiML; uploaded audio is referenced by its
// signed URL.
func (s *TwilioService) PlaceCall(ctx context.Context, toE164 string, call domain.VoiceCall) (*domain.GatewayResult, error) {
	form := url.Values{}
	form.Add("To", toE164)
	form.Add("From", s.callerID)

	if call.AudioURL != "" {
		form.Add("Twiml", fmt.Sprintf("<Response><Play>%s</Play></Response>", escapeXML(call.AudioURL)))
	} else {
		form.Add("Twiml", fmt.Sprintf("<Response><Say>%s</Say></Response>", escapeXML(call.Text)))
	}

	apiURL := fmt.Sprintf("%s/Accounts/%s/Calls.json", s.apiBase, s.accountSID)
	return s.post(ctx, apiURL, form)
}

func (s *TwilioService) post(ctx context.Context, apiURL string, form url.Values) (*domain.GatewayResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.SetBasicAuth(s.accountSID, s.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Error(fmt.Sprintf("Failed to execute Twilio request: %v", err))
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)

		var apiErr twilioError
		if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Message != "" {
			return nil, &domain.GatewayError{Code: apiErr.Code.String(), Message: apiErr.Message}
		}
		return nil, &domain.GatewayError{Message: fmt.Sprintf("API returned status code %d", resp.StatusCode)}
	}

	var result twilioResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &domain.GatewayResult{
		ExternalID: result.SID,
		Status:     mapTwilioStatus(result.Status),
	}, nil
}

// mapTwilioStatus translates Twilio's resource status into the ledger's
// recipient status.
func mapTwilioStatus(status string) domain.RecipientStatus {
	switch status {
	case "delivered":
		return domain.RecipientStatusDelivered
	case "failed", "canceled":
		return domain.RecipientStatusFailed
	case "undelivered":
		return domain.RecipientStatusUndelivered
	case "sent", "completed":
		return domain.RecipientStatusSent
	default:
		// queued, accepted, sending, ringing, in-progress
		return domain.RecipientStatusQueued
	}
}

func escapeXML(s string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&apos;",
	)
	return replacer.Replace(s)
}

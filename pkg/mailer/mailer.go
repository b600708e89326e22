// Package mailer delivers email envelopes over SMTP using go-mail.
package mailer

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/wneessen/go-mail"

	"github.com/schoolcast/schoolcast/internal/domain"
	"github.com/schoolcast/schoolcast/pkg/logger"
)

// Config holds the configuration for the mailer
type Config struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromEmail    string
	FromName     string
}

// SMTPMailer implements domain.EmailGateway over SMTP
type SMTPMailer struct {
	config   *Config
	logger   logger.Logger
	testMode bool
}

// NewSMTPMailer creates a new SMTP mailer
func NewSMTPMailer(config *Config, logger logger.Logger) *SMTPMailer {
	return &SMTPMailer{
		config: config,
		logger: logger,
	}
}

// NewTestSMTPMailer creates a mailer in test mode (won't connect to an
// SMTP server)
func NewTestSMTPMailer(config *Config, logger logger.Logger) *SMTPMailer {
	return &SMTPMailer{
		config:   config,
		logger:   logger,
		testMode: true,
	}
}

// SendEmail delivers one envelope.
func (m *SMTPMailer) SendEmail(ctx context.Context, envelope domain.EmailEnvelope) error {
	msg, err := m.buildMessage(envelope)
	if err != nil {
		return err
	}

	client, err := m.createSMTPClient()
	if err != nil {
		return err
	}

	if client == nil {
		m.logger.WithFields(map[string]interface{}{
			"to":      envelope.To,
			"subject": envelope.Subject,
		}).Info("Test mode, skipping SMTP delivery")
		return nil
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return &domain.GatewayError{Message: err.Error()}
	}
	return nil
}

// buildMessage maps an envelope onto a go-mail message.
func (m *SMTPMailer) buildMessage(envelope domain.EmailEnvelope) (*mail.Msg, error) {
	msg := mail.NewMsg(mail.WithNoDefaultUserAgent())

	if err := msg.FromFormat(m.config.FromName, m.config.FromEmail); err != nil {
		return nil, fmt.Errorf("failed to set email from address: %w", err)
	}
	if err := msg.To(envelope.To...); err != nil {
		return nil, fmt.Errorf("failed to set email recipients: %w", err)
	}
	if len(envelope.CC) > 0 {
		if err := msg.Cc(envelope.CC...); err != nil {
			return nil, fmt.Errorf("failed to set email cc: %w", err)
		}
	}
	if len(envelope.BCC) > 0 {
		if err := msg.Bcc(envelope.BCC...); err != nil {
			return nil, fmt.Errorf("failed to set email bcc: %w", err)
		}
	}

	msg.Subject(envelope.Subject)

	if envelope.HTML != "" {
		msg.SetBodyString(mail.TypeTextHTML, envelope.HTML)
		if envelope.Text != "" {
			msg.AddAlternativeString(mail.TypeTextPlain, envelope.Text)
		}
	} else {
		msg.SetBodyString(mail.TypeTextPlain, envelope.Text)
	}

	for _, attachment := range envelope.Attachments {
		opts := []mail.FileOption{}
		if attachment.ContentType != "" {
			opts = append(opts, mail.WithFileContentType(mail.ContentType(attachment.ContentType)))
		}
		if err := msg.AttachReader(attachment.Filename, bytes.NewReader(attachment.Content), opts...); err != nil {
			return nil, fmt.Errorf("failed to attach %s: %w", attachment.Filename, err)
		}
	}

	return msg, nil
}

// createSMTPClient creates and configures a new SMTP client
func (m *SMTPMailer) createSMTPClient() (*mail.Client, error) {
	// In test mode, return nil client to avoid SMTP connections
	if m.testMode {
		return nil, nil
	}

	clientOptions := []mail.Option{
		mail.WithPort(m.config.SMTPPort),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
		mail.WithTimeout(10 * time.Second),
	}

	// Only add authentication if username and password are provided.
	// This allows for unauthenticated SMTP servers (e.g., local
	// relays, port 25).
	if m.config.SMTPUsername != "" && m.config.SMTPPassword != "" {
		clientOptions = append(clientOptions,
			mail.WithUsername(m.config.SMTPUsername),
			mail.WithPassword(m.config.SMTPPassword),
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
		)
	}

	client, err := mail.NewClient(m.config.SMTPHost, clientOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to create SMTP client: %w", err)
	}

	return client, nil
}

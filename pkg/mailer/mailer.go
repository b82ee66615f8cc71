package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/aureeture/aureeture-api/pkg/httpclient"
	"github.com/aureeture/aureeture-api/pkg/logger"
	"github.com/aureeture/aureeture-api/pkg/metrics"
	"github.com/aureeture/aureeture-api/pkg/retry"
)

var ErrNotConfigured = errors.New("mailer is not configured")

// Message is a single transactional email.
type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// Config holds mailer configuration
type Config struct {
	APIURL    string
	APIKey    string
	FromName  string
	FromEmail string
}

// Mailer sends transactional email through an HTTP email API.
// A zero-configured mailer drops messages instead of failing callers.
type Mailer struct {
	cfg        Config
	httpClient httpclient.Client
}

// New creates a Mailer
func New(cfg Config, httpClient httpclient.Client) *Mailer {
	return &Mailer{cfg: cfg, httpClient: httpClient}
}

// Enabled reports whether the mailer has an API endpoint configured
func (m *Mailer) Enabled() bool {
	return m.cfg.APIURL != "" && m.cfg.APIKey != ""
}

// Send delivers a message, retrying transient failures.
// The kind label is used for metrics only (e.g. "booking_confirmation").
func (m *Mailer) Send(ctx context.Context, kind string, msg Message) error {
	if !m.Enabled() {
		logger.Debug("Mailer not configured, dropping email",
			zap.String("kind", kind),
			zap.String("to", msg.To))
		return ErrNotConfigured
	}

	start := time.Now()
	err := retry.Do(ctx, retry.MailerConfig(), "send_email", func() error {
		return m.post(ctx, msg)
	})

	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.EmailsSent.WithLabelValues(kind, status).Inc()
	logger.LogAPICall(ctx, "mailer", "send", status, time.Since(start).Seconds(),
		zap.String("kind", kind))

	return err
}

// SendAsync delivers a message in the background. Failures are logged,
// never surfaced: notification email must not fail the triggering request.
func (m *Mailer) SendAsync(kind string, msg Message) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := m.Send(ctx, kind, msg); err != nil && !errors.Is(err, ErrNotConfigured) {
			logger.Warn("Background email send failed",
				zap.String("kind", kind),
				zap.String("to", msg.To),
				zap.Error(err))
		}
	}()
}

func (m *Mailer) post(ctx context.Context, msg Message) error {
	payload, err := json.Marshal(struct {
		Message
		FromName  string `json:"from_name"`
		FromEmail string `json:"from_email"`
	}{Message: msg, FromName: m.cfg.FromName, FromEmail: m.cfg.FromEmail})
	if err != nil {
		return fmt.Errorf("failed to marshal email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.cfg.APIURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.cfg.APIKey)

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("email request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("email API returned %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"golang.org/x/time/rate"
)

type brevo struct {
	cfg     *Config
	client  *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

// New creates a mail system that delivers notifications through the Brevo
// REST API. Sends are throttled by the configured rate and burst.
func New(cfg *Config, logger *slog.Logger) System {
	return &brevo{
		cfg:     cfg,
		client:  &http.Client{Timeout: cfg.SendTimeoutDuration()},
		limiter: rate.NewLimiter(rate.Limit(cfg.SendRate), cfg.SendBurst),
		logger:  logger.With("system", "mail"),
	}
}

type sendRequest struct {
	Sender      party   `json:"sender"`
	To          []party `json:"to"`
	Subject     string  `json:"subject"`
	HTMLContent string  `json:"htmlContent"`
}

type party struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

type sendError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (b *brevo) Send(ctx context.Context, n Notification) error {
	if err := b.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrSendFailed, err)
	}

	payload := sendRequest{
		Sender:      party{Name: b.cfg.SenderName, Email: b.cfg.SenderEmail},
		To:          []party{{Email: n.ToEmail}},
		Subject:     subject(n),
		HTMLContent: htmlContent(b.cfg.AppURL, n),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: encode payload: %w", ErrSendFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSendFailed, err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", b.cfg.APIKey)

	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSendFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		b.logger.Info("notification sent", "to", n.ToEmail, "badge", n.BadgeName)
		return nil
	}

	detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var apiErr sendError
	if err := json.Unmarshal(detail, &apiErr); err == nil && apiErr.Message != "" {
		return fmt.Errorf("%w: %s", ErrSendFailed, apiErr.Message)
	}

	return fmt.Errorf("%w: status %d", ErrSendFailed, resp.StatusCode)
}

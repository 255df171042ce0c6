package publishers

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// httpPublisher delivers events to a generic webhook endpoint.
type httpPublisher struct {
	id     string
	typ    string
	url    string
	method string
	client *resty.Client
	log    Logger
}

// newHTTPPublisher creates a webhook publisher from the config.
func newHTTPPublisher(_ context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	if cfg.HTTP == nil {
		return nil, fmt.Errorf("publisher %q missing http configuration", cfg.ID)
	}

	client := resty.New().
		SetTimeout(time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second)
	for k, v := range cfg.HTTP.Headers {
		client.SetHeader(k, v)
	}

	return &httpPublisher{
		id:     cfg.ID,
		typ:    cfg.Type,
		url:    cfg.HTTP.URL,
		method: cfg.HTTP.Method,
		client: client,
		log:    ensureLogger(log),
	}, nil
}

func (p *httpPublisher) ID() string   { return p.id }
func (p *httpPublisher) Type() string { return p.typ }

// Publish sends the event as a JSON payload to the webhook URL.
func (p *httpPublisher) Publish(ctx context.Context, evt Event) error {
	resp, err := p.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(evt).
		Execute(p.method, p.url)
	if err != nil {
		p.log.ErrorObj("http publisher send failed", "publisher_http_error", map[string]any{
			"error": err.Error(),
			"url":   p.url,
		})
		return fmt.Errorf("deliver webhook: %w", err)
	}
	if resp.IsError() {
		p.log.ErrorObj("http publisher received error status", "publisher_http_error", map[string]any{
			"status": resp.StatusCode(),
			"url":    p.url,
		})
		return fmt.Errorf("webhook returned status %d", resp.StatusCode())
	}

	p.log.DebugObj("http publisher delivered event", "publisher_http_delivery", map[string]any{
		"status": resp.StatusCode(),
		"url":    p.url,
	})
	return nil
}

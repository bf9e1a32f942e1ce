package cms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"ContentPilot/internal/config"
	"ContentPilot/internal/domain"
	"ContentPilot/internal/ports"
)

// Publisher pushes approved articles to a WordPress-style endpoint.
// Shortcode validation runs server-side of this process, immediately
// before the HTTP call: unknown shortcodes and missing monetization are
// hard rejections, not warnings.
type Publisher struct {
	endpoint     string
	username     string
	appPassword  string
	categoryID   int
	isDefault    bool
	allowed      map[string]bool
	monetization []string
	client       *http.Client
}

var _ ports.Publisher = (*Publisher)(nil)

var shortcodeRe = regexp.MustCompile(`\[([a-zA-Z0-9_-]+)[^\]]*\]`)

// NewPublisher builds a publisher from configuration.
func NewPublisher(cfg config.CMSConfig) *Publisher {
	allowed := make(map[string]bool, len(cfg.AllowedShortcodes))
	for _, tag := range cfg.AllowedShortcodes {
		allowed[strings.ToLower(tag)] = true
	}

	return &Publisher{
		endpoint:     strings.TrimRight(cfg.Endpoint, "/"),
		username:     cfg.Username,
		appPassword:  cfg.AppPassword,
		categoryID:   cfg.CategoryID,
		isDefault:    cfg.Default,
		allowed:      allowed,
		monetization: cfg.MonetizationShortcodes,
		client:       &http.Client{Timeout: 30 * time.Second},
	}
}

// Publish validates shortcodes and posts the article. Missing
// credentials abort before any network call.
func (p *Publisher) Publish(ctx context.Context, article domain.Article) (ports.PublishResult, error) {
	if p.username == "" || p.appPassword == "" {
		return ports.PublishResult{}, &domain.ConfigurationError{Field: "cms credentials"}
	}
	if p.endpoint == "" {
		return ports.PublishResult{}, &domain.ConfigurationError{Field: "cms endpoint"}
	}

	if err := p.validateShortcodes(article.Content); err != nil {
		return ports.PublishResult{}, err
	}

	payload := map[string]any{
		"title":   article.Title,
		"content": article.Content,
		"excerpt": article.Excerpt,
		"status":  "publish",
	}
	if p.categoryID > 0 {
		payload["categories"] = []int{p.categoryID}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return ports.PublishResult{}, fmt.Errorf("marshal publish payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint+"/wp-json/wp/v2/posts", bytes.NewReader(body))
	if err != nil {
		return ports.PublishResult{}, fmt.Errorf("new request: %w", err)
	}
	req.SetBasicAuth(p.username, p.appPassword)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return ports.PublishResult{}, &domain.ExternalServiceError{Service: "cms", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return ports.PublishResult{}, &domain.ExternalServiceError{
			Service: "cms",
			Err:     fmt.Errorf("status %s: %s", resp.Status, strings.TrimSpace(string(detail))),
		}
	}

	var created struct {
		ID   json.Number `json:"id"`
		Link string      `json:"link"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return ports.PublishResult{}, &domain.ExternalServiceError{Service: "cms", Err: fmt.Errorf("decode response: %w", err)}
	}

	return ports.PublishResult{ID: created.ID.String(), URL: created.Link}, nil
}

// Connected reports whether this is the default connection and the
// endpoint answers an authenticated probe.
func (p *Publisher) Connected(ctx context.Context) bool {
	if !p.isDefault || p.username == "" || p.appPassword == "" || p.endpoint == "" {
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.endpoint+"/wp-json/wp/v2/users/me", nil)
	if err != nil {
		return false
	}
	req.SetBasicAuth(p.username, p.appPassword)

	resp, err := p.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}

// validateShortcodes enforces the allow-list and the monetization
// requirement over every [tag ...] token in the content.
func (p *Publisher) validateShortcodes(content string) error {
	tags := map[string]bool{}
	for _, match := range shortcodeRe.FindAllStringSubmatch(content, -1) {
		tags[strings.ToLower(match[1])] = true
	}

	for tag := range tags {
		if !p.allowed[tag] {
			return &domain.ValidationFailure{Reason: fmt.Sprintf("unknown shortcode [%s] is not on the allow-list", tag)}
		}
	}

	for _, tag := range p.monetization {
		if tags[strings.ToLower(tag)] {
			return nil
		}
	}
	return &domain.ValidationFailure{Reason: "content is missing a monetization shortcode"}
}

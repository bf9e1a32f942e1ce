package cms

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"ContentPilot/internal/config"
	"ContentPilot/internal/domain"
)

func testConfig(endpoint string) config.CMSConfig {
	return config.CMSConfig{
		Endpoint:               endpoint,
		Username:               "bot",
		AppPassword:            "secret",
		CategoryID:             7,
		Default:                true,
		AllowedShortcodes:      []string{"affiliate_box", "cta", "related_posts"},
		MonetizationShortcodes: []string{"affiliate_box", "cta"},
	}
}

func TestPublish(t *testing.T) {
	t.Parallel()

	var captured map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/wp-json/wp/v2/posts" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "bot" || pass != "secret" {
			t.Errorf("missing or wrong basic auth")
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": 42, "link": "https://example.com/payroll-guide"}`))
	}))
	defer srv.Close()

	p := NewPublisher(testConfig(srv.URL))
	res, err := p.Publish(context.Background(), domain.Article{
		Title:   "Payroll Guide",
		Content: "<p>Intro</p>[affiliate_box id=\"3\"]<p>Body</p>",
		Excerpt: "A guide.",
	})
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if res.ID != "42" || res.URL != "https://example.com/payroll-guide" {
		t.Errorf("result = %+v", res)
	}
	if captured["title"] != "Payroll Guide" {
		t.Errorf("payload title = %v", captured["title"])
	}
}

func TestPublishRejectsUnknownShortcode(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request must not reach the endpoint")
	}))
	defer srv.Close()

	p := NewPublisher(testConfig(srv.URL))
	_, err := p.Publish(context.Background(), domain.Article{
		Content: "[affiliate_box][totally_unknown attr=\"x\"]",
	})

	var vf *domain.ValidationFailure
	if !errors.As(err, &vf) {
		t.Fatalf("want ValidationFailure, got %v", err)
	}
}

func TestPublishRequiresMonetizationShortcode(t *testing.T) {
	t.Parallel()

	p := NewPublisher(testConfig("http://unused"))
	_, err := p.Publish(context.Background(), domain.Article{
		Content: "<p>No shortcodes here at all.</p>[related_posts]",
	})

	var vf *domain.ValidationFailure
	if !errors.As(err, &vf) {
		t.Fatalf("want ValidationFailure, got %v", err)
	}
}

func TestPublishMissingCredentials(t *testing.T) {
	t.Parallel()

	cfg := testConfig("http://unused")
	cfg.AppPassword = ""

	p := NewPublisher(cfg)
	_, err := p.Publish(context.Background(), domain.Article{Content: "[cta]"})

	var ce *domain.ConfigurationError
	if !errors.As(err, &ce) {
		t.Fatalf("want ConfigurationError, got %v", err)
	}
}

func TestPublishServerError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	p := NewPublisher(testConfig(srv.URL))
	_, err := p.Publish(context.Background(), domain.Article{Content: "[cta]"})

	var ese *domain.ExternalServiceError
	if !errors.As(err, &ese) {
		t.Fatalf("want ExternalServiceError, got %v", err)
	}
	if ese.Service != "cms" {
		t.Errorf("service = %q", ese.Service)
	}
}

func TestConnected(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, _, ok := r.BasicAuth(); !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p := NewPublisher(testConfig(srv.URL))
	if !p.Connected(context.Background()) {
		t.Error("expected connected")
	}

	cfg := testConfig(srv.URL)
	cfg.Default = false
	if NewPublisher(cfg).Connected(context.Background()) {
		t.Error("non-default connection must report disconnected")
	}
}

package quality

import (
	"reflect"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"ContentPilot/internal/domain"
)

// buildContent produces HTML with a controllable number of words,
// internal links, and external links.
func buildContent(words, internalLinks, externalLinks int) string {
	var b strings.Builder
	b.WriteString("<h2>Overview</h2>")

	b.WriteString("<p>")
	for i := 0; i < words; i++ {
		b.WriteString("term ")
		if i%20 == 19 {
			b.WriteString(". ")
		}
	}
	b.WriteString("</p>")

	for i := 0; i < internalLinks; i++ {
		b.WriteString(`<p>See <a href="/guides/related">related guide</a>.</p>`)
	}
	for i := 0; i < externalLinks; i++ {
		b.WriteString(`<p>Source: <a href="https://example.org/study">study</a>.</p>`)
	}
	return b.String()
}

func TestScoreDeterministic(t *testing.T) {
	t.Parallel()

	content := buildContent(1000, 3, 1)
	meta := ArticleMeta{FocusKeyword: "term"}
	th := DefaultThresholds()

	first := Score(content, meta, th)
	second := Score(content, meta, th)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("assessments differ for identical input:\n%+v\n%+v", first, second)
	}
}

func TestCriticalInternalLinkFailureBlocksPublish(t *testing.T) {
	t.Parallel()

	// 1200 words, zero internal links, FAQ not required.
	content := buildContent(1200, 0, 2)
	a := Score(content, ArticleMeta{}, DefaultThresholds())

	check, ok := a.Checks["internal_links"]
	if !ok {
		t.Fatal("internal_links check missing")
	}
	if check.Passed {
		t.Fatal("internal_links must fail with zero links")
	}
	if !check.Critical {
		t.Fatal("internal_links must be critical")
	}
	if a.CanPublish {
		t.Fatalf("CanPublish must be false on critical failure (score %d)", a.Score)
	}
}

func TestScoreIsRatioOfEnabledChecks(t *testing.T) {
	t.Parallel()

	// Enabled checks with defaults and no focus keyword: word_count,
	// internal_links, external_links, readability.
	content := buildContent(1200, 3, 1)
	a := Score(content, ArticleMeta{}, DefaultThresholds())

	if len(a.Checks) != 4 {
		t.Fatalf("expected 4 enabled checks, got %d: %v", len(a.Checks), a.Checks)
	}

	passed := 0
	for _, c := range a.Checks {
		if c.Passed {
			passed++
		}
	}
	want := int(float64(passed)/4.0*100 + 0.5)
	if a.Score != want {
		t.Fatalf("score = %d, want %d (%d/4 passed)", a.Score, want, passed)
	}
}

func TestDisabledChecksExcluded(t *testing.T) {
	t.Parallel()

	content := buildContent(900, 3, 1)
	a := Score(content, ArticleMeta{}, DefaultThresholds())

	for _, name := range []string{"faq_schema", "bls_citation", "headings", "images", "keyword_density"} {
		if _, ok := a.Checks[name]; ok {
			t.Fatalf("check %s should be excluded when not required", name)
		}
	}
}

func TestFAQCheck(t *testing.T) {
	t.Parallel()

	th := DefaultThresholds()
	th.RequireFAQ = true

	withFAQ := buildContent(900, 3, 1) + "<h2>Frequently Asked Questions</h2><p>q and a</p>"
	a := Score(withFAQ, ArticleMeta{}, th)
	if !a.Checks["faq_schema"].Passed {
		t.Fatal("FAQ heading should satisfy the FAQ check")
	}

	a = Score(buildContent(900, 3, 1), ArticleMeta{}, th)
	check := a.Checks["faq_schema"]
	if check.Passed || !check.Critical {
		t.Fatalf("missing FAQ must fail critically, got %+v", check)
	}
	if a.CanPublish {
		t.Fatal("missing required FAQ must block publish")
	}
}

func TestBLSCheck(t *testing.T) {
	t.Parallel()

	th := DefaultThresholds()
	th.RequireBLSCitation = true

	content := buildContent(900, 3, 1) + `<p>Per the Bureau of Labor Statistics, wages rose.</p>`
	if a := Score(content, ArticleMeta{}, th); !a.Checks["bls_citation"].Passed {
		t.Fatal("BLS mention should pass the citation check")
	}

	if a := Score(buildContent(900, 3, 1), ArticleMeta{}, th); a.Checks["bls_citation"].Passed {
		t.Fatal("missing BLS citation should fail")
	}
}

func TestImageAltCoverage(t *testing.T) {
	t.Parallel()

	th := DefaultThresholds()
	th.RequireImages = true
	th.RequireAltText = true
	th.MinImages = 2

	content := buildContent(900, 3, 1) +
		`<img src="a.png" alt="chart of wages"><img src="b.png">`
	a := Score(content, ArticleMeta{}, th)
	check := a.Checks["images"]
	if check.Passed {
		t.Fatalf("50%% alt coverage below 80%% threshold must fail, got %+v", check)
	}

	content = buildContent(900, 3, 1) +
		`<img src="a.png" alt="chart"><img src="b.png" alt="table">`
	if a := Score(content, ArticleMeta{}, th); !a.Checks["images"].Passed {
		t.Fatal("full alt coverage should pass")
	}
}

func TestIssuesTaggedBySeverity(t *testing.T) {
	t.Parallel()

	// Zero internal links (critical) and zero external links (minor).
	a := Score(buildContent(1000, 0, 0), ArticleMeta{}, DefaultThresholds())

	var major, minor bool
	for _, issue := range a.Issues {
		if strings.HasPrefix(issue, "major:") {
			major = true
		}
		if strings.HasPrefix(issue, "minor:") {
			minor = true
		}
	}
	if !major || !minor {
		t.Fatalf("expected both major and minor issues, got %v", a.Issues)
	}
}

func TestCountLinks(t *testing.T) {
	t.Parallel()

	html := `
	<p><a href="/internal-page">one</a></p>
	<p><a href="https://ourblog.example.com/post">same host</a></p>
	<p><a href="https://other.example.org/cite">external</a></p>
	<p><a href="#anchor">fragment</a></p>
	<p><a href="mailto:hi@example.com">mail</a></p>`

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	internal, external := CountLinks(doc, "ourblog.example.com")
	if internal != 2 {
		t.Fatalf("internal = %d, want 2", internal)
	}
	if external != 1 {
		t.Fatalf("external = %d, want 1", external)
	}
}

func TestRiskLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		checks map[string]CheckResult
		want   domain.RiskLevel
	}{
		{"clean", map[string]CheckResult{"a": {Passed: true}}, domain.RiskLow},
		{"one critical", map[string]CheckResult{"a": {Critical: true}}, domain.RiskHigh},
		{"two critical", map[string]CheckResult{"a": {Critical: true}, "b": {Critical: true}}, domain.RiskCritical},
		{"many minor", map[string]CheckResult{"a": {}, "b": {}, "c": {}}, domain.RiskMedium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RiskLevel(Assessment{Checks: tt.checks}); got != tt.want {
				t.Fatalf("RiskLevel = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestParseThresholds(t *testing.T) {
	t.Parallel()

	t.Run("defaults on empty map", func(t *testing.T) {
		if got := ParseThresholds(nil); got != DefaultThresholds() {
			t.Fatalf("ParseThresholds(nil) = %+v", got)
		}
	})

	t.Run("overrides applied", func(t *testing.T) {
		got := ParseThresholds(map[string]string{
			"min_word_count":     "500",
			"min_internal_links": "5",
			"require_faq":        "true",
			"min_readability":    "50.5",
			"site_host":          "blog.example.com",
		})
		if got.MinWordCount != 500 || got.MinInternalLinks != 5 || !got.RequireFAQ {
			t.Fatalf("overrides not applied: %+v", got)
		}
		if got.MinReadability != 50.5 || got.SiteHost != "blog.example.com" {
			t.Fatalf("overrides not applied: %+v", got)
		}
		// Untouched fields keep defaults.
		if got.MaxWordCount != 2500 || got.MaxKeywordDensity != 2.5 {
			t.Fatalf("defaults lost: %+v", got)
		}
	})

	t.Run("malformed values ignored", func(t *testing.T) {
		got := ParseThresholds(map[string]string{"min_word_count": "lots"})
		if got.MinWordCount != 800 {
			t.Fatalf("malformed value should keep default, got %d", got.MinWordCount)
		}
	})
}

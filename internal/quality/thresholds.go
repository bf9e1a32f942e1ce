package quality

import (
	"strconv"
	"strings"
)

// Thresholds configures every quality check. Zero values are replaced by
// the documented defaults; callers may override any field via a settings
// map (see ParseThresholds).
type Thresholds struct {
	MinWordCount      int
	MaxWordCount      int
	WordCountCritical bool

	MinInternalLinks int
	MinExternalLinks int

	RequireFAQ         bool
	RequireBLSCitation bool

	RequireHeadings bool
	MinHeadingCount int

	RequireImages      bool
	MinImages          int
	RequireAltText     bool
	MinAltTextCoverage float64

	MinKeywordDensity float64
	MaxKeywordDensity float64

	MinReadability float64
	MaxReadability float64

	// SiteHost distinguishes internal links (relative or same host) from
	// external citations.
	SiteHost string
}

// DefaultThresholds returns the documented defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinWordCount:       800,
		MaxWordCount:       2500,
		MinInternalLinks:   3,
		MinExternalLinks:   1,
		MinHeadingCount:    3,
		MinImages:          1,
		MinAltTextCoverage: 0.8,
		MinKeywordDensity:  0.5,
		MaxKeywordDensity:  2.5,
		MinReadability:     60,
		MaxReadability:     80,
	}
}

// ParseThresholds builds Thresholds from a flat string settings map.
// Missing or malformed keys fall back to defaults.
func ParseThresholds(settings map[string]string) Thresholds {
	t := DefaultThresholds()
	if settings == nil {
		return t
	}

	parseInt(settings, "min_word_count", &t.MinWordCount)
	parseInt(settings, "max_word_count", &t.MaxWordCount)
	parseBool(settings, "word_count_critical", &t.WordCountCritical)
	parseInt(settings, "min_internal_links", &t.MinInternalLinks)
	parseInt(settings, "min_external_links", &t.MinExternalLinks)
	parseBool(settings, "require_faq", &t.RequireFAQ)
	parseBool(settings, "require_bls_citation", &t.RequireBLSCitation)
	parseBool(settings, "require_headings", &t.RequireHeadings)
	parseInt(settings, "min_heading_count", &t.MinHeadingCount)
	parseBool(settings, "require_images", &t.RequireImages)
	parseInt(settings, "min_images", &t.MinImages)
	parseBool(settings, "require_alt_text", &t.RequireAltText)
	parseFloat(settings, "min_alt_text_coverage", &t.MinAltTextCoverage)
	parseFloat(settings, "min_keyword_density", &t.MinKeywordDensity)
	parseFloat(settings, "max_keyword_density", &t.MaxKeywordDensity)
	parseFloat(settings, "min_readability", &t.MinReadability)
	parseFloat(settings, "max_readability", &t.MaxReadability)

	if v, ok := settings["site_host"]; ok && strings.TrimSpace(v) != "" {
		t.SiteHost = strings.TrimSpace(v)
	}

	return t
}

func parseInt(settings map[string]string, key string, dst *int) {
	if raw, ok := settings[key]; ok {
		if v, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil {
			*dst = v
		}
	}
}

func parseFloat(settings map[string]string, key string, dst *float64) {
	if raw, ok := settings[key]; ok {
		if v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil {
			*dst = v
		}
	}
}

func parseBool(settings map[string]string, key string, dst *bool) {
	if raw, ok := settings[key]; ok {
		if v, err := strconv.ParseBool(strings.TrimSpace(raw)); err == nil {
			*dst = v
		}
	}
}

package quality

import (
	"fmt"
	"math"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"ContentPilot/internal/domain"
)

// CheckResult is the outcome of one quality check.
type CheckResult struct {
	Passed   bool
	Critical bool
	Value    string
	Issue    string
}

// Assessment is the derived, recomputed-on-demand publish-gate result.
// The article stores only the score/issues snapshot.
type Assessment struct {
	Score      int
	Checks     map[string]CheckResult
	Issues     []string
	CanPublish bool
}

// ArticleMeta carries the non-content inputs to scoring.
type ArticleMeta struct {
	FocusKeyword string
}

// Check names, in the fixed order they are evaluated and reported.
var checkOrder = []string{
	"word_count",
	"internal_links",
	"external_links",
	"faq_schema",
	"bls_citation",
	"headings",
	"images",
	"keyword_density",
	"readability",
}

// Score evaluates every enabled check over the HTML content. The result
// is deterministic for identical (content, meta, thresholds).
func Score(content string, meta ArticleMeta, t Thresholds) Assessment {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		// Unparsable HTML fails the gate outright rather than scoring
		// garbage counts.
		return Assessment{
			Checks: map[string]CheckResult{},
			Issues: []string{fmt.Sprintf("major: content is not parsable HTML: %v", err)},
		}
	}

	text := doc.Text()
	words := strings.Fields(text)

	checks := map[string]CheckResult{}

	checks["word_count"] = checkWordCount(len(words), t)
	checks["internal_links"], checks["external_links"] = checkLinks(doc, t)

	if t.RequireFAQ {
		checks["faq_schema"] = checkFAQ(content, doc)
	}
	if t.RequireBLSCitation {
		checks["bls_citation"] = checkBLS(content)
	}
	if t.RequireHeadings {
		checks["headings"] = checkHeadings(doc, t)
	}
	if t.RequireImages {
		checks["images"] = checkImages(doc, t)
	}
	if meta.FocusKeyword != "" {
		checks["keyword_density"] = checkKeywordDensity(text, len(words), meta.FocusKeyword, t)
	}
	checks["readability"] = checkReadability(text, t)

	passed := 0
	criticalFailed := false
	var issues []string
	for _, name := range checkOrder {
		check, ok := checks[name]
		if !ok {
			continue
		}
		if check.Passed {
			passed++
			continue
		}
		if check.Critical {
			criticalFailed = true
			issues = append(issues, "major: "+check.Issue)
		} else {
			issues = append(issues, "minor: "+check.Issue)
		}
	}

	total := len(checks)
	score := 0
	if total > 0 {
		score = int(math.Round(100 * float64(passed) / float64(total)))
	}

	return Assessment{
		Score:      score,
		Checks:     checks,
		Issues:     issues,
		CanPublish: !criticalFailed,
	}
}

// RiskLevel derives a coarse compliance classification from an
// assessment, independent of the numeric score.
func RiskLevel(a Assessment) domain.RiskLevel {
	criticalFailures := 0
	minorFailures := 0
	for _, c := range a.Checks {
		if c.Passed {
			continue
		}
		if c.Critical {
			criticalFailures++
		} else {
			minorFailures++
		}
	}

	switch {
	case criticalFailures >= 2:
		return domain.RiskCritical
	case criticalFailures == 1:
		return domain.RiskHigh
	case minorFailures >= 3:
		return domain.RiskMedium
	default:
		return domain.RiskLow
	}
}

func checkWordCount(count int, t Thresholds) CheckResult {
	ok := count >= t.MinWordCount && count <= t.MaxWordCount
	r := CheckResult{
		Passed:   ok,
		Critical: t.WordCountCritical,
		Value:    fmt.Sprintf("%d", count),
	}
	if !ok {
		r.Issue = fmt.Sprintf("word count %d outside %d-%d; expand or trim the article", count, t.MinWordCount, t.MaxWordCount)
	}
	return r
}

func checkLinks(doc *goquery.Document, t Thresholds) (internal, external CheckResult) {
	internalCount, externalCount := CountLinks(doc, t.SiteHost)

	internal = CheckResult{
		Passed:   internalCount >= t.MinInternalLinks,
		Critical: true,
		Value:    fmt.Sprintf("%d", internalCount),
	}
	if !internal.Passed {
		internal.Issue = fmt.Sprintf("only %d internal links; add at least %d links to related articles", internalCount, t.MinInternalLinks)
	}

	external = CheckResult{
		Passed: externalCount >= t.MinExternalLinks,
		Value:  fmt.Sprintf("%d", externalCount),
	}
	if !external.Passed {
		external.Issue = fmt.Sprintf("only %d external citations; cite at least %d authoritative sources", externalCount, t.MinExternalLinks)
	}
	return internal, external
}

// CountLinks splits anchors into internal (relative href or same-host)
// and external citations (absolute, different host).
func CountLinks(doc *goquery.Document, siteHost string) (internal, external int) {
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "mailto:") {
			return
		}
		u, err := url.Parse(href)
		if err != nil {
			return
		}
		if u.Host == "" || (siteHost != "" && strings.EqualFold(u.Host, siteHost)) {
			internal++
			return
		}
		external++
	})
	return internal, external
}

func checkFAQ(content string, doc *goquery.Document) CheckResult {
	found := strings.Contains(content, "FAQPage")
	if !found {
		doc.Find("h2, h3").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			heading := strings.ToLower(sel.Text())
			if strings.Contains(heading, "faq") || strings.Contains(heading, "frequently asked") {
				found = true
				return false
			}
			return true
		})
	}

	r := CheckResult{Passed: found, Critical: true, Value: fmt.Sprintf("%t", found)}
	if !found {
		r.Issue = "no FAQ section or FAQPage schema; add a frequently-asked-questions block"
	}
	return r
}

func checkBLS(content string) CheckResult {
	lower := strings.ToLower(content)
	found := strings.Contains(lower, "bls.gov") || strings.Contains(lower, "bureau of labor statistics")
	r := CheckResult{Passed: found, Critical: true, Value: fmt.Sprintf("%t", found)}
	if !found {
		r.Issue = "no BLS citation; reference Bureau of Labor Statistics data"
	}
	return r
}

func checkHeadings(doc *goquery.Document, t Thresholds) CheckResult {
	count := doc.Find("h2, h3").Length()
	r := CheckResult{Passed: count >= t.MinHeadingCount, Value: fmt.Sprintf("%d", count)}
	if !r.Passed {
		r.Issue = fmt.Sprintf("only %d H2/H3 headings; structure the article with at least %d", count, t.MinHeadingCount)
	}
	return r
}

func checkImages(doc *goquery.Document, t Thresholds) CheckResult {
	images := doc.Find("img")
	total := images.Length()
	withAlt := 0
	images.Each(func(_ int, sel *goquery.Selection) {
		if alt, ok := sel.Attr("alt"); ok && strings.TrimSpace(alt) != "" {
			withAlt++
		}
	})

	passed := total >= t.MinImages
	issue := ""
	if !passed {
		issue = fmt.Sprintf("only %d images; include at least %d", total, t.MinImages)
	} else if t.RequireAltText && total > 0 {
		coverage := float64(withAlt) / float64(total)
		if coverage < t.MinAltTextCoverage {
			passed = false
			issue = fmt.Sprintf("alt-text coverage %.0f%% below %.0f%%; describe every image", coverage*100, t.MinAltTextCoverage*100)
		}
	}

	return CheckResult{
		Passed: passed,
		Value:  fmt.Sprintf("%d images, %d with alt", total, withAlt),
		Issue:  issue,
	}
}

func checkKeywordDensity(text string, wordCount int, keyword string, t Thresholds) CheckResult {
	density := 0.0
	if wordCount > 0 {
		occurrences := strings.Count(strings.ToLower(text), strings.ToLower(keyword))
		density = 100 * float64(occurrences) / float64(wordCount)
	}

	r := CheckResult{
		Passed: density >= t.MinKeywordDensity && density <= t.MaxKeywordDensity,
		Value:  fmt.Sprintf("%.2f%%", density),
	}
	if !r.Passed {
		r.Issue = fmt.Sprintf("keyword density %.2f%% outside %.1f%%-%.1f%% for %q", density, t.MinKeywordDensity, t.MaxKeywordDensity, keyword)
	}
	return r
}

func checkReadability(text string, t Thresholds) CheckResult {
	score := FleschReadingEase(text)
	r := CheckResult{
		Passed: score >= t.MinReadability && score <= t.MaxReadability,
		Value:  fmt.Sprintf("%.1f", score),
	}
	if !r.Passed {
		r.Issue = fmt.Sprintf("readability %.1f outside %.0f-%.0f; adjust sentence length and word complexity", score, t.MinReadability, t.MaxReadability)
	}
	return r
}

package revision

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"ContentPilot/internal/domain"
)

// Report aggregates the advisory validation of all feedback items
// against a before/after content pair. It never blocks persistence.
type Report struct {
	Success        bool
	AddressedCount int
	FailedCount    int
	PartialCount   int
	Items          []domain.ValidationResult
	Summary        string
}

var rankingTokenRe = regexp.MustCompile(`(?i)rank|report|best|top`)

// Validate checks each feedback item against the original and revised
// content and rolls the results up.
func Validate(original, revised string, items []domain.FeedbackItem) Report {
	report := Report{Items: make([]domain.ValidationResult, 0, len(items))}

	for _, item := range items {
		result := validateItem(original, revised, item)
		report.Items = append(report.Items, result)

		switch result.Status {
		case domain.ValidationAddressed:
			report.AddressedCount++
		case domain.ValidationFailed:
			report.FailedCount++
		default:
			report.PartialCount++
		}
	}

	report.Success = report.FailedCount == 0
	report.Summary = fmt.Sprintf("%d addressed, %d partial, %d failed of %d feedback items",
		report.AddressedCount, report.PartialCount, report.FailedCount, len(items))
	return report
}

func validateItem(original, revised string, item domain.FeedbackItem) domain.ValidationResult {
	result := domain.ValidationResult{ItemID: item.ID, Status: domain.ValidationUnknown}

	switch Classify(item.Comment, item.SelectedText) {
	case IntentLink:
		validateLink(original, revised, item, &result)
	case IntentCorrection:
		validateCorrection(original, revised, item, &result)
	case IntentRemoval:
		validateRemoval(original, revised, item, &result)
	case IntentAddition:
		validateAddition(original, revised, &result)
	default:
		validateGeneric(original, revised, item, &result)
	}

	return result
}

func validateLink(original, revised string, item domain.FeedbackItem, result *domain.ValidationResult) {
	origLinks := extractLinks(original)
	revLinks := extractLinks(revised)

	// Ranking/report requests need an anchor whose text or URL carries a
	// ranking token, not just any new link.
	if rankingTokenRe.MatchString(item.Comment) &&
		(strings.Contains(strings.ToLower(item.Comment), "ranking") || strings.Contains(strings.ToLower(item.Comment), "report")) {
		for _, l := range revLinks {
			if rankingTokenRe.MatchString(l.text) || rankingTokenRe.MatchString(l.href) {
				result.Status = domain.ValidationAddressed
				result.Evidence = append(result.Evidence, fmt.Sprintf("ranking link present: %s", l.href))
				return
			}
		}
		result.Status = domain.ValidationFailed
		result.Warnings = append(result.Warnings, "no link referencing a ranking or report was found")
		return
	}

	if len(revLinks) > len(origLinks) {
		result.Status = domain.ValidationAddressed
		result.Evidence = append(result.Evidence, fmt.Sprintf("link count increased from %d to %d", len(origLinks), len(revLinks)))
		return
	}

	origHrefs := map[string]bool{}
	for _, l := range origLinks {
		origHrefs[l.href] = true
	}
	for _, l := range revLinks {
		if !origHrefs[l.href] {
			result.Status = domain.ValidationAddressed
			result.Evidence = append(result.Evidence, fmt.Sprintf("new link added: %s", l.href))
			return
		}
	}

	result.Status = domain.ValidationFailed
	result.Warnings = append(result.Warnings, "no new link found in revised content")
}

func validateCorrection(original, revised string, item domain.FeedbackItem, result *domain.ValidationResult) {
	if item.SelectedText == "" || !strings.Contains(original, item.SelectedText) {
		result.Status = domain.ValidationPartial
		result.Warnings = append(result.Warnings, "selected text not found in original; cannot verify correction")
		return
	}

	if strings.Contains(revised, item.SelectedText) {
		result.Status = domain.ValidationFailed
		result.Warnings = append(result.Warnings, fmt.Sprintf("text %q still present after revision", truncate(item.SelectedText, 60)))
		return
	}

	result.Status = domain.ValidationAddressed
	result.Evidence = append(result.Evidence, fmt.Sprintf("text %q no longer appears", truncate(item.SelectedText, 60)))
}

func validateRemoval(original, revised string, item domain.FeedbackItem, result *domain.ValidationResult) {
	if item.SelectedText == "" || !strings.Contains(original, item.SelectedText) {
		result.Status = domain.ValidationPartial
		result.Warnings = append(result.Warnings, "no removable text selected or text not found in original")
		return
	}

	if strings.Contains(revised, item.SelectedText) {
		result.Status = domain.ValidationFailed
		result.Warnings = append(result.Warnings, fmt.Sprintf("text %q was not removed", truncate(item.SelectedText, 60)))
		return
	}

	result.Status = domain.ValidationAddressed
	result.Evidence = append(result.Evidence, fmt.Sprintf("text %q removed", truncate(item.SelectedText, 60)))
}

func validateAddition(original, revised string, result *domain.ValidationResult) {
	if len(revised) > len(original) {
		result.Status = domain.ValidationAddressed
		result.Evidence = append(result.Evidence, fmt.Sprintf("content grew by %d characters", len(revised)-len(original)))
		return
	}
	result.Status = domain.ValidationPartial
	result.Warnings = append(result.Warnings, "content did not grow; addition cannot be confirmed")
}

func validateGeneric(original, revised string, item domain.FeedbackItem, result *domain.ValidationResult) {
	if item.SelectedText != "" && strings.Contains(original, item.SelectedText) && !strings.Contains(revised, item.SelectedText) {
		result.Status = domain.ValidationAddressed
		result.Evidence = append(result.Evidence, "selected text was removed or changed")
		return
	}

	if item.SelectedText != "" {
		if delta, ok := paragraphDelta(original, revised, item.SelectedText); ok && delta >= 0.10 {
			result.Status = domain.ValidationAddressed
			result.Evidence = append(result.Evidence, fmt.Sprintf("paragraph containing selection changed by %.0f%%", delta*100))
			return
		}
	}

	if wholeDocumentDelta(original, revised) > 0.05 {
		result.Status = domain.ValidationAddressed
		result.Evidence = append(result.Evidence, "overall document changed by more than 5%")
		return
	}

	result.Status = domain.ValidationPartial
	result.Warnings = append(result.Warnings, "no measurable change detected; manual review recommended")
}

type link struct {
	href string
	text string
}

func extractLinks(content string) []link {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil
	}

	var links []link
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		links = append(links, link{href: href, text: sel.Text()})
	})
	return links
}

// paragraphBoundaryRe marks the closers that delimit a paragraph:
// </p>, a heading close, or </li>.
var paragraphBoundaryRe = regexp.MustCompile(`(?i)</p>|</h[1-6]>|</li>`)

// paragraphDelta compares the length of the paragraph containing the
// selection in both documents and returns the relative change.
func paragraphDelta(original, revised, selected string) (float64, bool) {
	origPara, ok := paragraphAround(original, selected)
	if !ok {
		return 0, false
	}
	revPara, ok := paragraphAround(revised, selected)
	if !ok {
		// Selection's paragraph vanished entirely; treat as full change.
		return 1.0, true
	}
	if len(origPara) == 0 {
		return 0, false
	}

	delta := math.Abs(float64(len(revPara)-len(origPara))) / float64(len(origPara))
	return delta, true
}

func paragraphAround(content, selected string) (string, bool) {
	idx := strings.Index(content, selected)
	if idx < 0 {
		return "", false
	}

	start := 0
	for _, loc := range paragraphBoundaryRe.FindAllStringIndex(content[:idx], -1) {
		start = loc[1]
	}

	end := len(content)
	if loc := paragraphBoundaryRe.FindStringIndex(content[idx:]); loc != nil {
		end = idx + loc[1]
	}

	return content[start:end], true
}

func wholeDocumentDelta(original, revised string) float64 {
	origWords := len(strings.Fields(original))
	revWords := len(strings.Fields(revised))
	wordDelta := relativeDelta(origWords, revWords)
	charDelta := relativeDelta(len(original), len(revised))
	return math.Max(wordDelta, charDelta)
}

func relativeDelta(before, after int) float64 {
	if before == 0 {
		if after == 0 {
			return 0
		}
		return 1
	}
	return math.Abs(float64(after-before)) / float64(before)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

package usecase

import (
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"ContentPilot/internal/domain"
	"ContentPilot/internal/quality"
)

// Automation levels.
const (
	LevelOff      = "off"
	LevelAssisted = "assisted"
	LevelFull     = "full"
)

// AutomationSettings is the typed view of the flat automation settings
// map, with documented defaults for missing keys.
type AutomationSettings struct {
	AutoPostEnabled         bool
	BlockStart              string
	BlockEnd                string
	AutomationLevel         string
	MinIdeaQueue            int
	MaxConcurrentGeneration int
	AutoPublishDays         int
	SiteHost                string
}

// ParseAutomationSettings reads the automation keys from the settings
// map, defaulting anything missing or malformed.
func ParseAutomationSettings(settings map[string]string) AutomationSettings {
	s := AutomationSettings{
		AutomationLevel:         LevelAssisted,
		MinIdeaQueue:            5,
		MaxConcurrentGeneration: 2,
		AutoPublishDays:         3,
	}
	if settings == nil {
		return s
	}

	if v, err := strconv.ParseBool(settings["auto_post_enabled"]); err == nil {
		s.AutoPostEnabled = v
	}
	if v := strings.TrimSpace(settings["block_start"]); v != "" {
		s.BlockStart = v
	}
	if v := strings.TrimSpace(settings["block_end"]); v != "" {
		s.BlockEnd = v
	}
	if v := strings.TrimSpace(settings["automation_level"]); v != "" {
		s.AutomationLevel = v
	}
	if v, err := strconv.Atoi(settings["min_idea_queue"]); err == nil && v >= 0 {
		s.MinIdeaQueue = v
	}
	if v, err := strconv.Atoi(settings["max_concurrent_generation"]); err == nil && v >= 0 {
		s.MaxConcurrentGeneration = v
	}
	if v, err := strconv.Atoi(settings["auto_publish_days"]); err == nil && v > 0 {
		s.AutoPublishDays = v
	}
	if v := strings.TrimSpace(settings["site_host"]); v != "" {
		s.SiteHost = v
	}

	return s
}

// InBlockWindow reports whether now's local time-of-day falls inside
// [start,end). A window whose start is later than its end crosses
// midnight.
func InBlockWindow(now time.Time, start, end string) bool {
	startMin, okStart := parseClock(start)
	endMin, okEnd := parseClock(end)
	if !okStart || !okEnd || startMin == endMin {
		return false
	}

	nowMin := now.Hour()*60 + now.Minute()
	if startMin < endMin {
		return nowMin >= startMin && nowMin < endMin
	}
	// Crossing midnight.
	return nowMin >= startMin || nowMin < endMin
}

func parseClock(s string) (int, bool) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

// TickState is the persisted-state snapshot one automation tick decides
// over. It is rebuilt fresh each tick.
type TickState struct {
	Approved           []domain.Article
	InProgress         []domain.Article
	PendingIdeas       []domain.Idea
	ArticleTitles      []string
	PendingIdeaCount   int
	GenerationInFlight bool
	PublisherConnected bool
}

// ActionKind discriminates scheduler actions.
type ActionKind string

const (
	ActionPublish         ActionKind = "publish"
	ActionApprove         ActionKind = "approve"
	ActionGenerateArticle ActionKind = "generate_article"
	ActionGenerateIdeas   ActionKind = "generate_ideas"
)

// Action is one decision produced by a tick.
type Action struct {
	Kind      ActionKind
	ArticleID string
	IdeaID    string
	Deadline  time.Time
}

// Tick is the pure per-interval decision function: given fresh state,
// settings, and the current time it returns the actions to execute.
// Keeping it free of I/O makes every branch testable without timers.
func Tick(state TickState, settings AutomationSettings, now time.Time) []Action {
	var actions []Action

	if settings.AutomationLevel == LevelOff {
		return nil
	}

	// Auto-post approved articles, unless blocked or disconnected.
	if settings.AutoPostEnabled &&
		state.PublisherConnected &&
		!InBlockWindow(now, settings.BlockStart, settings.BlockEnd) {
		for _, article := range state.Approved {
			if article.RiskLevel == domain.RiskHigh || article.RiskLevel == domain.RiskCritical {
				continue
			}
			actions = append(actions, Action{Kind: ActionPublish, ArticleID: article.ID})
		}
	}

	// Auto-approve drafts that clear the coarse checklist. Meeting four
	// of five is not enough: an article one short on internal links
	// stays in review.
	for _, article := range state.InProgress {
		if autoApproveScore(article, settings.SiteHost) > 4 {
			actions = append(actions, Action{
				Kind:      ActionApprove,
				ArticleID: article.ID,
				Deadline:  now.AddDate(0, 0, settings.AutoPublishDays),
			})
		}
	}

	if settings.AutomationLevel == LevelFull {
		// Full-auto generation respects the concurrency cap and a
		// substring duplicate guard against existing article titles.
		budget := settings.MaxConcurrentGeneration - len(state.InProgress)
		for _, idea := range state.PendingIdeas {
			if budget <= 0 {
				break
			}
			if titleOverlapsExisting(idea.Title, state.ArticleTitles) {
				continue
			}
			actions = append(actions, Action{Kind: ActionGenerateArticle, IdeaID: idea.ID})
			budget--
		}
	}

	// Refill the idea queue, one generation in flight at a time.
	if state.PendingIdeaCount < settings.MinIdeaQueue && !state.GenerationInFlight {
		actions = append(actions, Action{Kind: ActionGenerateIdeas})
	}

	return actions
}

// autoApproveScore counts how many of the five coarse checklist
// criteria an article meets: wordCount≥850, contentLength>3000,
// keywords present, internal links≥2, external links≥1.
func autoApproveScore(article domain.Article, siteHost string) int {
	score := 0
	if article.WordCount >= 850 {
		score++
	}
	if len(article.Content) > 3000 {
		score++
	}
	if len(article.TargetKeywords) > 0 || article.FocusKeyword != "" {
		score++
	}

	internal, external := 0, 0
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(article.Content)); err == nil {
		internal, external = quality.CountLinks(doc, siteHost)
	}
	if internal >= 2 {
		score++
	}
	if external >= 1 {
		score++
	}
	return score
}

// titleOverlapsExisting applies the scheduler's simple duplicate guard:
// normalized equality, substring, or superstring against any existing
// article title. Distinct from the edit-distance scorer on purpose.
func titleOverlapsExisting(title string, existing []string) bool {
	normalized := normalizeTitle(title)
	if normalized == "" {
		return false
	}
	for _, t := range existing {
		e := normalizeTitle(t)
		if e == "" {
			continue
		}
		if e == normalized || strings.Contains(e, normalized) || strings.Contains(normalized, e) {
			return true
		}
	}
	return false
}

package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/google/uuid"

	"ContentPilot/internal/domain"
	"ContentPilot/internal/match"
	"ContentPilot/internal/ports"
	"ContentPilot/internal/quality"
	"ContentPilot/internal/similarity"
)

const (
	defaultTargetWordCount = 1500
	minCatalogEntries      = 3
	excerptMaxChars        = 200
)

// OrchestratorDeps wires all driven adapters into the generation
// pipeline.
type OrchestratorDeps struct {
	DraftService ports.DraftService
	Humanizer    ports.Humanizer
	LinkInserter ports.LinkInserter
	Ideas        ports.IdeaStore
	Articles     ports.ArticleStore
	Contributors ports.ContributorStore
	Catalog      ports.LinkCatalog
	Settings     ports.SettingsSource
	Logger       *slog.Logger
}

// Orchestrator runs one idea at a time through draft → contributor →
// humanize → link → score → dedup → persist. A failed external call
// aborts the run with no partial persistence; the idea stays pending
// and re-triable.
type Orchestrator struct {
	draftService ports.DraftService
	humanizer    ports.Humanizer
	linkInserter ports.LinkInserter
	ideas        ports.IdeaStore
	articles     ports.ArticleStore
	contributors ports.ContributorStore
	catalog      ports.LinkCatalog
	settings     ports.SettingsSource
	logger       *slog.Logger
	converter    *md.Converter
}

// NewOrchestrator constructs the generation use case.
func NewOrchestrator(deps OrchestratorDeps) *Orchestrator {
	return &Orchestrator{
		draftService: deps.DraftService,
		humanizer:    deps.Humanizer,
		linkInserter: deps.LinkInserter,
		ideas:        deps.Ideas,
		articles:     deps.Articles,
		contributors: deps.Contributors,
		catalog:      deps.Catalog,
		settings:     deps.Settings,
		logger:       deps.Logger,
		converter:    md.NewConverter("", true, nil),
	}
}

// SubmitIdea deduplicates a new idea against existing idea and article
// titles before persisting it as pending. Near-duplicates are saved as
// rejected with the matching title noted, never silently dropped.
func (o *Orchestrator) SubmitIdea(ctx context.Context, idea domain.Idea) (domain.Idea, error) {
	if idea.ID == "" {
		idea.ID = uuid.NewString()
	}
	idea.Status = domain.IdeaPending
	idea.CreatedAt = time.Now()

	existing, err := o.existingTitles(ctx)
	if err != nil {
		return domain.Idea{}, fmt.Errorf("load existing titles: %w", err)
	}

	if dup := similarity.FindDuplicate(idea.Title, existing, 0); dup != "" {
		idea.Status = domain.IdeaRejected
		idea.Note = fmt.Sprintf("near-duplicate of %q", dup)
	}

	if err := o.ideas.SaveIdea(ctx, idea); err != nil {
		return domain.Idea{}, fmt.Errorf("save idea %s: %w", idea.ID, err)
	}

	if idea.Status == domain.IdeaRejected {
		o.log("idea rejected as duplicate", "idea_id", idea.ID, "title", idea.Title, "note", idea.Note)
	}
	return idea, nil
}

// ProcessPending runs up to limit pending ideas. Per-idea failures are
// logged and skipped so one bad idea never stalls the batch.
func (o *Orchestrator) ProcessPending(ctx context.Context, limit int) error {
	ideas, err := o.ideas.PendingIdeas(ctx, limit)
	if err != nil {
		return fmt.Errorf("load pending ideas: %w", err)
	}

	for _, idea := range ideas {
		if _, err := o.ProcessIdea(ctx, idea); err != nil {
			// The idea keeps its pending status so the next cycle
			// retries it.
			o.log("idea run failed", "idea_id", idea.ID, "title", idea.Title, "error", err)
		}
	}
	return nil
}

// ProcessIdea runs the full generation sequence for one idea and
// persists the resulting article as a draft.
func (o *Orchestrator) ProcessIdea(ctx context.Context, idea domain.Idea) (domain.Article, error) {
	thresholds := o.loadThresholds(ctx)

	draft, err := o.draftService.GenerateDraft(ctx, idea, defaultTargetWordCount)
	if err != nil {
		return domain.Article{}, fmt.Errorf("draft idea %s: %w", idea.ID, err)
	}

	styleProfile, contributorID := o.matchContributor(ctx, idea)

	humanized, err := o.humanizer.Humanize(ctx, draft.Content, styleProfile)
	if err != nil {
		return domain.Article{}, fmt.Errorf("humanize idea %s: %w", idea.ID, err)
	}

	linked := o.insertLinks(ctx, idea, humanized)

	content := linked
	if thresholds.RequireFAQ && len(draft.FAQs) > 0 && !strings.Contains(content, "Frequently Asked Questions") {
		content += renderFAQSection(draft.FAQs)
	}

	assessment := quality.Score(content, quality.ArticleMeta{FocusKeyword: draft.FocusKeyword}, thresholds)

	// Re-check for an exact normalized-title duplicate right before
	// persisting; generated content for a duplicate is discarded.
	articleTitles, err := o.articles.ArticleTitles(ctx)
	if err != nil {
		return domain.Article{}, fmt.Errorf("load article titles: %w", err)
	}
	for _, t := range articleTitles {
		if normalizeTitle(t) == normalizeTitle(draft.Title) {
			reason := fmt.Sprintf("duplicate of existing article %q", t)
			if err := o.ideas.UpdateIdeaStatus(ctx, idea.ID, domain.IdeaRejected, reason); err != nil {
				return domain.Article{}, fmt.Errorf("reject idea %s: %w", idea.ID, err)
			}
			return domain.Article{}, &domain.ValidationFailure{Reason: reason}
		}
	}

	article := domain.Article{
		ID:              uuid.NewString(),
		IdeaID:          idea.ID,
		Title:           draft.Title,
		Content:         content,
		Excerpt:         o.excerpt(draft),
		MetaTitle:       draft.MetaTitle,
		MetaDescription: draft.MetaDescription,
		FocusKeyword:    draft.FocusKeyword,
		TargetKeywords:  idea.Keywords,
		WordCount:       len(strings.Fields(stripTags(content))),
		Status:          domain.ArticleDraft,
		QualityScore:    assessment.Score,
		QualityIssues:   assessment.Issues,
		RiskLevel:       quality.RiskLevel(assessment),
		ContributorID:   contributorID,
		CreatedAt:       time.Now(),
	}

	if err := o.articles.SaveArticle(ctx, article); err != nil {
		return domain.Article{}, fmt.Errorf("persist article for idea %s: %w", idea.ID, err)
	}

	o.snapshot(ctx, article.ID, 1, draft.Title, draft.Content, domain.ChangeOriginal)
	o.snapshot(ctx, article.ID, 2, draft.Title, humanized, domain.ChangeHumanized)
	if linked != humanized {
		o.snapshot(ctx, article.ID, 3, draft.Title, linked, domain.ChangeLinked)
	}

	if err := o.ideas.UpdateIdeaStatus(ctx, idea.ID, domain.IdeaCompleted, article.ID); err != nil {
		return domain.Article{}, fmt.Errorf("complete idea %s: %w", idea.ID, err)
	}

	o.log("article generated",
		"idea_id", idea.ID,
		"article_id", article.ID,
		"score", article.QualityScore,
		"risk", article.RiskLevel,
		"words", article.WordCount)

	return article, nil
}

func (o *Orchestrator) matchContributor(ctx context.Context, idea domain.Idea) (styleProfile, contributorID string) {
	if o.contributors == nil {
		return "", ""
	}

	roster, err := o.contributors.Contributors(ctx)
	if err != nil {
		// Non-fatal: generation proceeds without a style profile.
		o.log("contributor fetch failed", "idea_id", idea.ID, "error", err)
		return "", ""
	}

	best := match.Best(idea, roster)
	if best == nil {
		return "", ""
	}
	return best.StyleProfile, best.ID
}

func (o *Orchestrator) insertLinks(ctx context.Context, idea domain.Idea, content string) string {
	if o.catalog == nil || o.linkInserter == nil {
		return content
	}

	entries, err := o.catalog.Entries(ctx)
	if err != nil || len(entries) < minCatalogEntries {
		return content
	}

	linked, err := o.linkInserter.InsertLinks(ctx, content, entries)
	if err != nil {
		// Non-fatal: fall back to the unlinked content.
		o.log("link insertion failed", "idea_id", idea.ID, "error", err)
		return content
	}
	return linked
}

func (o *Orchestrator) snapshot(ctx context.Context, articleID string, version int, title, content string, change domain.VersionChange) {
	err := o.articles.SaveVersion(ctx, domain.ArticleVersion{
		ID:         uuid.NewString(),
		ArticleID:  articleID,
		Version:    version,
		Title:      title,
		Content:    content,
		ChangeType: change,
		CreatedAt:  time.Now(),
	})
	if err != nil {
		o.log("version snapshot failed", "article_id", articleID, "version", version, "error", err)
	}
}

func (o *Orchestrator) loadThresholds(ctx context.Context) quality.Thresholds {
	if o.settings == nil {
		return quality.DefaultThresholds()
	}
	settings, err := o.settings.Settings(ctx)
	if err != nil {
		// Thresholds are safe to default.
		o.log("settings unavailable, using default thresholds", "error", err)
		return quality.DefaultThresholds()
	}
	return quality.ParseThresholds(settings)
}

func (o *Orchestrator) existingTitles(ctx context.Context) ([]string, error) {
	ideaTitles, err := o.ideas.IdeaTitles(ctx)
	if err != nil {
		return nil, err
	}
	articleTitles, err := o.articles.ArticleTitles(ctx)
	if err != nil {
		return nil, err
	}
	return append(ideaTitles, articleTitles...), nil
}

func (o *Orchestrator) excerpt(draft ports.Draft) string {
	if draft.Excerpt != "" {
		return draft.Excerpt
	}

	text, err := o.converter.ConvertString(draft.Content)
	if err != nil {
		text = stripTags(draft.Content)
	}
	text = strings.Join(strings.Fields(text), " ")
	if len(text) > excerptMaxChars {
		if cut := strings.LastIndex(text[:excerptMaxChars], " "); cut > 0 {
			text = text[:cut]
		} else {
			text = text[:excerptMaxChars]
		}
		text += "..."
	}
	return text
}

func (o *Orchestrator) log(msg string, args ...any) {
	if o.logger != nil {
		o.logger.Info(msg, args...)
	}
}

func renderFAQSection(faqs []ports.DraftFAQ) string {
	var b strings.Builder
	b.WriteString("<h2>Frequently Asked Questions</h2>")
	for _, faq := range faqs {
		b.WriteString("<h3>")
		b.WriteString(faq.Question)
		b.WriteString("</h3><p>")
		b.WriteString(faq.Answer)
		b.WriteString("</p>")
	}
	return b.String()
}

func normalizeTitle(title string) string {
	return strings.Join(strings.Fields(strings.ToLower(title)), " ")
}

func stripTags(html string) string {
	var b strings.Builder
	inTag := false
	for _, r := range html {
		switch {
		case r == '<':
			inTag = true
			b.WriteRune(' ')
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return b.String()
}

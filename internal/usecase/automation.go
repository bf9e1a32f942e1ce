package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"ContentPilot/internal/domain"
	"ContentPilot/internal/ports"
)

const (
	pendingIdeaBatch = 25
	ideaRefillCount  = 5
)

// AutomationDeps wires the automation loop's collaborators.
type AutomationDeps struct {
	Ideas        ports.IdeaStore
	Articles     ports.ArticleStore
	Publisher    ports.Publisher
	Settings     ports.SettingsSource
	Notifier     ports.Notifier
	IdeaGen      ports.IdeaGenerator
	Orchestrator *Orchestrator
	Logger       *slog.Logger
}

// Automation executes one decision tick at a time. Ticks are stateless
// except for the single-flight guard on idea generation; everything
// else is recomputed from persisted state, so overlapping ticks stay
// safe as long as status transitions are the only coordination.
type Automation struct {
	ideas        ports.IdeaStore
	articles     ports.ArticleStore
	publisher    ports.Publisher
	settings     ports.SettingsSource
	notifier     ports.Notifier
	ideaGen      ports.IdeaGenerator
	orchestrator *Orchestrator
	logger       *slog.Logger

	ideaGenInFlight atomic.Bool
}

// NewAutomation constructs the automation use case.
func NewAutomation(deps AutomationDeps) *Automation {
	return &Automation{
		ideas:        deps.Ideas,
		articles:     deps.Articles,
		publisher:    deps.Publisher,
		settings:     deps.Settings,
		notifier:     deps.Notifier,
		ideaGen:      deps.IdeaGen,
		orchestrator: deps.Orchestrator,
		logger:       deps.Logger,
	}
}

// RunTick reads settings and persisted state, decides, and executes.
// Action-level failures are logged and never stop the remaining
// actions; the loop must survive every tick.
func (a *Automation) RunTick(ctx context.Context, now time.Time) error {
	raw, err := a.settings.Settings(ctx)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	settings := ParseAutomationSettings(raw)
	if settings.AutomationLevel == LevelOff {
		return nil
	}

	state, err := a.buildState(ctx)
	if err != nil {
		return fmt.Errorf("build tick state: %w", err)
	}

	actions := Tick(state, settings, now)
	for _, action := range actions {
		a.execute(ctx, action, state, settings)
	}
	return nil
}

func (a *Automation) buildState(ctx context.Context) (TickState, error) {
	approved, err := a.articles.ArticlesByStatus(ctx, domain.ArticleApproved)
	if err != nil {
		return TickState{}, fmt.Errorf("load approved: %w", err)
	}
	inProgress, err := a.articles.ArticlesByStatus(ctx, domain.ArticleDraft, domain.ArticleInReview)
	if err != nil {
		return TickState{}, fmt.Errorf("load in-progress: %w", err)
	}
	pending, err := a.ideas.PendingIdeas(ctx, pendingIdeaBatch)
	if err != nil {
		return TickState{}, fmt.Errorf("load pending ideas: %w", err)
	}
	pendingCount, err := a.ideas.CountPending(ctx)
	if err != nil {
		return TickState{}, fmt.Errorf("count pending ideas: %w", err)
	}
	titles, err := a.articles.ArticleTitles(ctx)
	if err != nil {
		return TickState{}, fmt.Errorf("load titles: %w", err)
	}

	connected := false
	if a.publisher != nil {
		connected = a.publisher.Connected(ctx)
	}

	return TickState{
		Approved:           approved,
		InProgress:         inProgress,
		PendingIdeas:       pending,
		ArticleTitles:      titles,
		PendingIdeaCount:   pendingCount,
		GenerationInFlight: a.ideaGenInFlight.Load(),
		PublisherConnected: connected,
	}, nil
}

func (a *Automation) execute(ctx context.Context, action Action, state TickState, settings AutomationSettings) {
	switch action.Kind {
	case ActionPublish:
		a.publish(ctx, action.ArticleID, state)
	case ActionApprove:
		a.approve(ctx, action, state)
	case ActionGenerateArticle:
		a.generateArticle(ctx, action.IdeaID, state)
	case ActionGenerateIdeas:
		a.generateIdeas(ctx)
	}
}

func (a *Automation) publish(ctx context.Context, articleID string, state TickState) {
	article, ok := findArticle(state.Approved, articleID)
	if !ok {
		return
	}

	result, err := a.publisher.Publish(ctx, article)
	if err != nil {
		// No retry within the tick; the next tick sees the article
		// still approved and tries again.
		a.log("auto-publish failed", "article_id", article.ID, "title", article.Title, "error", err)
		a.notify(ctx, fmt.Sprintf("auto-publish failed: %s (%v)", article.Title, err))
		return
	}

	article.Status = domain.ArticlePublished
	article.PublishedURL = result.URL
	article.UpdatedAt = time.Now()
	if err := a.articles.UpdateArticle(ctx, article); err != nil {
		a.log("publish status update failed", "article_id", article.ID, "error", err)
		return
	}

	a.log("article auto-published", "article_id", article.ID, "url", result.URL)
	a.notify(ctx, fmt.Sprintf("published: %s\n%s", article.Title, result.URL))
}

func (a *Automation) approve(ctx context.Context, action Action, state TickState) {
	article, ok := findArticle(state.InProgress, action.ArticleID)
	if !ok {
		return
	}

	article.Status = domain.ArticleApproved
	deadline := action.Deadline
	article.AutoPublishDeadline = &deadline
	article.UpdatedAt = time.Now()

	if err := a.articles.UpdateArticle(ctx, article); err != nil {
		a.log("auto-approve failed", "article_id", article.ID, "error", err)
		return
	}
	a.log("article auto-approved", "article_id", article.ID, "deadline", deadline.Format(time.RFC3339))
}

func (a *Automation) generateArticle(ctx context.Context, ideaID string, state TickState) {
	for _, idea := range state.PendingIdeas {
		if idea.ID != ideaID {
			continue
		}
		if _, err := a.orchestrator.ProcessIdea(ctx, idea); err != nil {
			a.log("auto-generation failed", "idea_id", idea.ID, "title", idea.Title, "error", err)
		}
		return
	}
}

func (a *Automation) generateIdeas(ctx context.Context) {
	if a.ideaGen == nil || a.orchestrator == nil {
		return
	}
	if !a.ideaGenInFlight.CompareAndSwap(false, true) {
		return
	}
	defer a.ideaGenInFlight.Store(false)

	ideas, err := a.ideaGen.GenerateIdeas(ctx, ideaRefillCount)
	if err != nil {
		a.log("idea generation failed", "error", err)
		return
	}

	accepted := 0
	for _, idea := range ideas {
		saved, err := a.orchestrator.SubmitIdea(ctx, idea)
		if err != nil {
			a.log("idea intake failed", "title", idea.Title, "error", err)
			continue
		}
		if saved.Status == domain.IdeaPending {
			accepted++
		}
	}
	a.log("idea queue refilled", "proposed", len(ideas), "accepted", accepted)
}

func (a *Automation) notify(ctx context.Context, message string) {
	if a.notifier == nil {
		return
	}
	if err := a.notifier.Notify(ctx, message); err != nil {
		a.log("notification failed", "error", err)
	}
}

func (a *Automation) log(msg string, args ...any) {
	if a.logger != nil {
		a.logger.Info(msg, args...)
	}
}

func findArticle(articles []domain.Article, id string) (domain.Article, bool) {
	for _, article := range articles {
		if article.ID == id {
			return article, true
		}
	}
	return domain.Article{}, false
}

package ports

import (
	"context"
	"time"

	"ContentPilot/internal/domain"
)

// Draft is the structured response expected from the draft-generation
// service. A response that fails to parse into this shape is an
// ExternalServiceError, not a partial draft.
type Draft struct {
	Title           string     `json:"title"`
	Excerpt         string     `json:"excerpt"`
	Content         string     `json:"content"`
	MetaTitle       string     `json:"metaTitle"`
	MetaDescription string     `json:"metaDescription"`
	FocusKeyword    string     `json:"focusKeyword"`
	FAQs            []DraftFAQ `json:"faqs"`
}

// DraftFAQ is one question/answer pair returned by the draft service.
type DraftFAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// DraftService generates first-pass article content for an idea.
type DraftService interface {
	GenerateDraft(ctx context.Context, idea domain.Idea, targetWordCount int) (Draft, error)
}

// Humanizer rewrites draft HTML in a contributor's voice, preserving
// semantic content and heading structure.
type Humanizer interface {
	Humanize(ctx context.Context, content, styleProfile string) (string, error)
}

// LinkInserter adds internal links from a catalog onto existing text.
type LinkInserter interface {
	InsertLinks(ctx context.Context, content string, catalog []domain.LinkCatalogEntry) (string, error)
}

// IdeaStore persists content ideas.
type IdeaStore interface {
	PendingIdeas(ctx context.Context, limit int) ([]domain.Idea, error)
	SaveIdea(ctx context.Context, idea domain.Idea) error
	UpdateIdeaStatus(ctx context.Context, id string, status domain.IdeaStatus, note string) error
	IdeaTitles(ctx context.Context) ([]string, error)
	CountPending(ctx context.Context) (int, error)
}

// ArticleStore persists generated articles and their version snapshots.
type ArticleStore interface {
	SaveArticle(ctx context.Context, article domain.Article) error
	SaveVersion(ctx context.Context, version domain.ArticleVersion) error
	UpdateArticle(ctx context.Context, article domain.Article) error
	ArticleTitles(ctx context.Context) ([]string, error)
	ArticlesByStatus(ctx context.Context, statuses ...domain.ArticleStatus) ([]domain.Article, error)
}

// ContributorStore reads the contributor roster for matching.
type ContributorStore interface {
	Contributors(ctx context.Context) ([]domain.Contributor, error)
}

// LinkCatalog provides internal-link candidates.
type LinkCatalog interface {
	Entries(ctx context.Context) ([]domain.LinkCatalogEntry, error)
}

// PublishResult is the CMS response for a successful publish.
type PublishResult struct {
	ID  string
	URL string
}

// Publisher pushes an approved article to the external CMS.
type Publisher interface {
	Publish(ctx context.Context, article domain.Article) (PublishResult, error)
	Connected(ctx context.Context) bool
}

// IdeaGenerator proposes new content ideas when the queue runs low.
type IdeaGenerator interface {
	GenerateIdeas(ctx context.Context, count int) ([]domain.Idea, error)
}

// SettingsSource exposes the flat key/value automation settings map.
type SettingsSource interface {
	Settings(ctx context.Context) (map[string]string, error)
}

// Notifier announces publish events to an out-of-band channel.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

// Scheduler controls when automation ticks execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}

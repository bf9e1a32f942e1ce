package domain

import "time"

// IdeaStatus enumerates the lifecycle of a content idea.
type IdeaStatus string

const (
	IdeaPending   IdeaStatus = "pending"
	IdeaApproved  IdeaStatus = "approved"
	IdeaRejected  IdeaStatus = "rejected"
	IdeaCompleted IdeaStatus = "completed"
)

// Idea is a candidate topic awaiting or having undergone generation.
type Idea struct {
	ID          string
	Title       string
	Description string
	Keywords    []string
	ContentType string
	Priority    int
	Status      IdeaStatus
	SourceTag   string
	ArticleID   string
	Note        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ArticleStatus enumerates editorial states of a generated article.
type ArticleStatus string

const (
	ArticleDraft         ArticleStatus = "draft"
	ArticleInReview      ArticleStatus = "in_review"
	ArticleRefinement    ArticleStatus = "refinement"
	ArticleQAReview      ArticleStatus = "qa_review"
	ArticleApproved      ArticleStatus = "approved"
	ArticlePublished     ArticleStatus = "published"
	ArticleNeedsRevision ArticleStatus = "needs_revision"
)

// RiskLevel classifies an article's compliance exposure independent of
// the numeric quality score.
type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskMedium   RiskLevel = "MEDIUM"
	RiskHigh     RiskLevel = "HIGH"
	RiskCritical RiskLevel = "CRITICAL"
)

// Article is the core generated entity carrying content and gate state.
type Article struct {
	ID                  string
	IdeaID              string
	Title               string
	Content             string
	Excerpt             string
	MetaTitle           string
	MetaDescription     string
	FocusKeyword        string
	TargetKeywords      []string
	WordCount           int
	Status              ArticleStatus
	QualityScore        int
	QualityIssues       []string
	RiskLevel           RiskLevel
	AutoPublishDeadline *time.Time
	ContributorID       string
	PublishedURL        string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// VersionChange tags why an ArticleVersion snapshot was taken.
type VersionChange string

const (
	ChangeOriginal   VersionChange = "original"
	ChangeHumanized  VersionChange = "humanized"
	ChangeLinked     VersionChange = "linked"
	ChangeAIRevision VersionChange = "ai_revision"
	ChangeManualEdit VersionChange = "manual_edit"
)

// ArticleVersion is an immutable content snapshot. Rows are only ever
// appended; the article points at the newest version.
type ArticleVersion struct {
	ID         string
	ArticleID  string
	Version    int
	Title      string
	Content    string
	ChangeType VersionChange
	CreatedAt  time.Time
}

// Contributor is a read-only voice/style profile candidate for matching.
type Contributor struct {
	ID                     string
	Name                   string
	ExpertiseAreas         []string
	ContentTypePreferences []string
	StyleProfile           string
}

// FeedbackItem is a human edit request against an article revision.
type FeedbackItem struct {
	ID           string
	Category     string
	Severity     string
	SelectedText string
	Comment      string
}

// ValidationStatus describes whether a feedback item was applied.
type ValidationStatus string

const (
	ValidationAddressed ValidationStatus = "addressed"
	ValidationPartial   ValidationStatus = "partial"
	ValidationFailed    ValidationStatus = "failed"
	ValidationUnknown   ValidationStatus = "unknown"
)

// ValidationResult is the advisory outcome for one feedback item.
type ValidationResult struct {
	ItemID   string
	Status   ValidationStatus
	Evidence []string
	Warnings []string
}

// LinkCatalogEntry is one internal-link candidate handed to the
// link-insertion service.
type LinkCatalogEntry struct {
	Title string
	URL   string
}

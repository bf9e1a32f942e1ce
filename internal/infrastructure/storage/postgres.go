package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"ContentPilot/internal/domain"
	"ContentPilot/internal/ports"
)

// Store persists pipeline entities in Postgres. Writes are
// last-writer-wins at the row level; the pipeline coordinates through
// status transitions, not locks.
type Store struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var (
	_ ports.IdeaStore        = (*Store)(nil)
	_ ports.ArticleStore     = (*Store)(nil)
	_ ports.ContributorStore = (*Store)(nil)
	_ ports.LinkCatalog      = (*Store)(nil)
	_ ports.SettingsSource   = (*Store)(nil)
)

// New wires a sql.DB implementation.
func New(db *sql.DB) *Store {
	return &Store{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// PendingIdeas returns up to limit pending ideas, highest priority and
// oldest first.
func (s *Store) PendingIdeas(ctx context.Context, limit int) ([]domain.Idea, error) {
	query := s.builder.
		Select("id", "title", "description", "keywords", "content_type", "priority", "status", "source_tag", "note").
		From("ideas").
		Where(sq.Eq{"status": domain.IdeaPending}).
		OrderBy("priority DESC", "created_at ASC")
	if limit > 0 {
		query = query.Limit(uint64(limit))
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build pending ideas query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("query pending ideas: %w", err)
	}
	defer rows.Close()

	var ideas []domain.Idea
	for rows.Next() {
		var idea domain.Idea
		var keywords pq.StringArray
		err := rows.Scan(&idea.ID, &idea.Title, &idea.Description, &keywords,
			&idea.ContentType, &idea.Priority, &idea.Status, &idea.SourceTag, &idea.Note)
		if err != nil {
			return nil, fmt.Errorf("scan idea: %w", err)
		}
		idea.Keywords = keywords
		ideas = append(ideas, idea)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ideas: %w", err)
	}

	return ideas, nil
}

// SaveIdea upserts an idea row.
func (s *Store) SaveIdea(ctx context.Context, idea domain.Idea) error {
	sqlStr, args, err := s.builder.
		Insert("ideas").
		Columns("id", "title", "description", "keywords", "content_type", "priority", "status", "source_tag", "note", "created_at").
		Values(idea.ID, idea.Title, idea.Description, pq.StringArray(idea.Keywords),
			idea.ContentType, idea.Priority, idea.Status, idea.SourceTag, idea.Note, idea.CreatedAt).
		Suffix(`ON CONFLICT (id) DO UPDATE
			SET status = EXCLUDED.status,
			    note = EXCLUDED.note,
			    updated_at = NOW()`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build save idea: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("upsert idea %s: %w", idea.ID, err)
	}
	return nil
}

// UpdateIdeaStatus transitions an idea and records the reason or the
// linked article ID in the note column.
func (s *Store) UpdateIdeaStatus(ctx context.Context, id string, status domain.IdeaStatus, note string) error {
	sqlStr, args, err := s.builder.
		Update("ideas").
		Set("status", status).
		Set("note", note).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update idea: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("update idea %s: %w", id, err)
	}
	return nil
}

// IdeaTitles lists every non-rejected idea title for dedup checks.
func (s *Store) IdeaTitles(ctx context.Context) ([]string, error) {
	sqlStr, args, err := s.builder.
		Select("title").
		From("ideas").
		Where(sq.NotEq{"status": domain.IdeaRejected}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build idea titles: %w", err)
	}
	return s.titles(ctx, sqlStr, args)
}

// CountPending returns the pending idea-queue length.
func (s *Store) CountPending(ctx context.Context) (int, error) {
	sqlStr, args, err := s.builder.
		Select("COUNT(*)").
		From("ideas").
		Where(sq.Eq{"status": domain.IdeaPending}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count pending: %w", err)
	}

	var count int
	if err := s.db.QueryRowContext(ctx, sqlStr, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count pending ideas: %w", err)
	}
	return count, nil
}

// SaveArticle inserts a new article row.
func (s *Store) SaveArticle(ctx context.Context, a domain.Article) error {
	sqlStr, args, err := s.builder.
		Insert("articles").
		Columns("id", "idea_id", "title", "content", "excerpt", "meta_title", "meta_description",
			"focus_keyword", "target_keywords", "word_count", "status", "quality_score",
			"quality_issues", "risk_level", "contributor_id", "created_at").
		Values(a.ID, a.IdeaID, a.Title, a.Content, a.Excerpt, a.MetaTitle, a.MetaDescription,
			a.FocusKeyword, pq.StringArray(a.TargetKeywords), a.WordCount, a.Status, a.QualityScore,
			pq.StringArray(a.QualityIssues), a.RiskLevel, a.ContributorID, a.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build save article: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("insert article %s: %w", a.ID, err)
	}
	return nil
}

// SaveVersion appends an immutable content snapshot.
func (s *Store) SaveVersion(ctx context.Context, v domain.ArticleVersion) error {
	sqlStr, args, err := s.builder.
		Insert("article_versions").
		Columns("id", "article_id", "version", "title", "content", "change_type", "created_at").
		Values(v.ID, v.ArticleID, v.Version, v.Title, v.Content, v.ChangeType, v.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build save version: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("insert version %d of %s: %w", v.Version, v.ArticleID, err)
	}
	return nil
}

// UpdateArticle overwrites the mutable article columns.
func (s *Store) UpdateArticle(ctx context.Context, a domain.Article) error {
	query := s.builder.
		Update("articles").
		Set("status", a.Status).
		Set("content", a.Content).
		Set("quality_score", a.QualityScore).
		Set("quality_issues", pq.StringArray(a.QualityIssues)).
		Set("risk_level", a.RiskLevel).
		Set("published_url", a.PublishedURL).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": a.ID})
	if a.AutoPublishDeadline != nil {
		query = query.Set("auto_publish_deadline", *a.AutoPublishDeadline)
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build update article: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("update article %s: %w", a.ID, err)
	}
	return nil
}

// ArticleTitles lists every article title for dedup checks.
func (s *Store) ArticleTitles(ctx context.Context) ([]string, error) {
	sqlStr, args, err := s.builder.Select("title").From("articles").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build article titles: %w", err)
	}
	return s.titles(ctx, sqlStr, args)
}

// ArticlesByStatus loads full article rows in any of the given states.
func (s *Store) ArticlesByStatus(ctx context.Context, statuses ...domain.ArticleStatus) ([]domain.Article, error) {
	values := make([]string, len(statuses))
	for i, st := range statuses {
		values[i] = string(st)
	}

	sqlStr, args, err := s.builder.
		Select("id", "idea_id", "title", "content", "excerpt", "focus_keyword", "target_keywords",
			"word_count", "status", "quality_score", "risk_level", "contributor_id", "published_url").
		From("articles").
		Where(sq.Eq{"status": values}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build articles by status: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("query articles: %w", err)
	}
	defer rows.Close()

	var articles []domain.Article
	for rows.Next() {
		var a domain.Article
		var keywords pq.StringArray
		err := rows.Scan(&a.ID, &a.IdeaID, &a.Title, &a.Content, &a.Excerpt, &a.FocusKeyword,
			&keywords, &a.WordCount, &a.Status, &a.QualityScore, &a.RiskLevel, &a.ContributorID, &a.PublishedURL)
		if err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		a.TargetKeywords = keywords
		articles = append(articles, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate articles: %w", err)
	}

	return articles, nil
}

// Contributors loads the full contributor roster.
func (s *Store) Contributors(ctx context.Context) ([]domain.Contributor, error) {
	sqlStr, args, err := s.builder.
		Select("id", "name", "expertise_areas", "content_type_preferences", "style_profile").
		From("contributors").
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build contributors query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("query contributors: %w", err)
	}
	defer rows.Close()

	var contributors []domain.Contributor
	for rows.Next() {
		var c domain.Contributor
		var areas, prefs pq.StringArray
		if err := rows.Scan(&c.ID, &c.Name, &areas, &prefs, &c.StyleProfile); err != nil {
			return nil, fmt.Errorf("scan contributor: %w", err)
		}
		c.ExpertiseAreas = areas
		c.ContentTypePreferences = prefs
		contributors = append(contributors, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contributors: %w", err)
	}

	return contributors, nil
}

// Entries builds the internal-link catalog from published articles.
func (s *Store) Entries(ctx context.Context) ([]domain.LinkCatalogEntry, error) {
	sqlStr, args, err := s.builder.
		Select("title", "published_url").
		From("articles").
		Where(sq.Eq{"status": domain.ArticlePublished}).
		Where(sq.NotEq{"published_url": ""}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build catalog query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("query catalog: %w", err)
	}
	defer rows.Close()

	var entries []domain.LinkCatalogEntry
	for rows.Next() {
		var e domain.LinkCatalogEntry
		if err := rows.Scan(&e.Title, &e.URL); err != nil {
			return nil, fmt.Errorf("scan catalog entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate catalog: %w", err)
	}

	return entries, nil
}

// Settings reads the flat key/value settings table.
func (s *Store) Settings(ctx context.Context) (map[string]string, error) {
	sqlStr, args, err := s.builder.Select("key", "value").From("settings").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build settings query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("query settings: %w", err)
	}
	defer rows.Close()

	settings := map[string]string{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan setting: %w", err)
		}
		settings[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate settings: %w", err)
	}

	return settings, nil
}

func (s *Store) titles(ctx context.Context, sqlStr string, args []interface{}) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("query titles: %w", err)
	}
	defer rows.Close()

	var titles []string
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, fmt.Errorf("scan title: %w", err)
		}
		titles = append(titles, title)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate titles: %w", err)
	}

	return titles, nil
}

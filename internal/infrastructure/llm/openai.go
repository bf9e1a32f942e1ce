package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"ContentPilot/internal/config"
	"ContentPilot/internal/domain"
	"ContentPilot/internal/ports"
)

// Client implements the draft, humanization, link-insertion, and
// idea-generation services on top of OpenAI-compatible chat APIs.
// Responses are parsed against explicit schemas at this boundary; a
// shape mismatch is an ExternalServiceError, never a partial result.
type Client struct {
	client *openai.Client
	model  string
}

var (
	_ ports.DraftService  = (*Client)(nil)
	_ ports.Humanizer     = (*Client)(nil)
	_ ports.LinkInserter  = (*Client)(nil)
	_ ports.IdeaGenerator = (*Client)(nil)
)

// NewClient builds a client from configuration.
func NewClient(cfg config.OpenAIConfig) *Client {
	client := openai.NewClient(option.WithAPIKey(cfg.APIKey))
	return &Client{client: &client, model: cfg.Model}
}

const draftSchema = `{
  "title": "string",
  "excerpt": "string",
  "content": "HTML string",
  "metaTitle": "string",
  "metaDescription": "string",
  "focusKeyword": "string",
  "faqs": [{"question": "string", "answer": "string"}]
}`

// GenerateDraft asks for a structured first-pass article for the idea.
func (c *Client) GenerateDraft(ctx context.Context, idea domain.Idea, targetWordCount int) (ports.Draft, error) {
	prompt := fmt.Sprintf(`Write a complete article draft.

Topic: %s
Description: %s
Keywords: %s
Content type: %s
Target word count: %d

Respond with only a JSON object of this exact shape:
%s`,
		idea.Title, idea.Description, strings.Join(idea.Keywords, ", "), idea.ContentType, targetWordCount, draftSchema)

	raw, err := c.complete(ctx, "You are a content writer producing structured article drafts as JSON.", prompt)
	if err != nil {
		return ports.Draft{}, &domain.ExternalServiceError{Service: "draft", Err: err}
	}

	var draft ports.Draft
	if err := json.Unmarshal([]byte(extractJSON(raw)), &draft); err != nil {
		return ports.Draft{}, &domain.ExternalServiceError{Service: "draft", Err: fmt.Errorf("parse response: %w", err)}
	}
	if draft.Title == "" || draft.Content == "" {
		return ports.Draft{}, &domain.ExternalServiceError{Service: "draft", Err: fmt.Errorf("response missing title or content")}
	}

	return draft, nil
}

// Humanize rewrites draft HTML in the given voice, keeping structure.
func (c *Client) Humanize(ctx context.Context, content, styleProfile string) (string, error) {
	system := "You rewrite article HTML in a natural human voice. Preserve all headings, lists, and links. Return only the rewritten HTML."
	prompt := content
	if styleProfile != "" {
		prompt = fmt.Sprintf("Voice and style profile:\n%s\n\nArticle HTML:\n%s", styleProfile, content)
	}

	rewritten, err := c.complete(ctx, system, prompt)
	if err != nil {
		return "", &domain.ExternalServiceError{Service: "humanize", Err: err}
	}
	rewritten = strings.TrimSpace(rewritten)
	if rewritten == "" {
		return "", &domain.ExternalServiceError{Service: "humanize", Err: fmt.Errorf("empty response")}
	}
	return rewritten, nil
}

// InsertLinks asks for 3-5 internal links from the catalog woven onto
// existing anchor text.
func (c *Client) InsertLinks(ctx context.Context, content string, catalog []domain.LinkCatalogEntry) (string, error) {
	catalogJSON, err := json.Marshal(catalog)
	if err != nil {
		return "", fmt.Errorf("marshal catalog: %w", err)
	}

	system := "You add internal links to article HTML. Add 3-5 <a href> anchors on existing relevant text using only the provided catalog URLs. Change nothing else. Return only the HTML."
	prompt := fmt.Sprintf("Link catalog:\n%s\n\nArticle HTML:\n%s", catalogJSON, content)

	linked, err := c.complete(ctx, system, prompt)
	if err != nil {
		return "", &domain.ExternalServiceError{Service: "links", Err: err}
	}
	linked = strings.TrimSpace(linked)
	if linked == "" || strings.Count(linked, "<a ") <= strings.Count(content, "<a ") {
		return "", &domain.ExternalServiceError{Service: "links", Err: fmt.Errorf("no links were added")}
	}
	return linked, nil
}

// GenerateIdeas proposes count new topic ideas as structured JSON.
func (c *Client) GenerateIdeas(ctx context.Context, count int) ([]domain.Idea, error) {
	prompt := fmt.Sprintf(`Propose %d new article topic ideas.

Respond with only a JSON array of objects:
[{"title": "string", "description": "string", "keywords": ["string"], "contentType": "string"}]`, count)

	raw, err := c.complete(ctx, "You are an editorial planner proposing article topics as JSON.", prompt)
	if err != nil {
		return nil, &domain.ExternalServiceError{Service: "ideas", Err: err}
	}

	var proposals []struct {
		Title       string   `json:"title"`
		Description string   `json:"description"`
		Keywords    []string `json:"keywords"`
		ContentType string   `json:"contentType"`
	}
	if err := json.Unmarshal([]byte(extractJSON(raw)), &proposals); err != nil {
		return nil, &domain.ExternalServiceError{Service: "ideas", Err: fmt.Errorf("parse response: %w", err)}
	}

	ideas := make([]domain.Idea, 0, len(proposals))
	for _, p := range proposals {
		if p.Title == "" {
			continue
		}
		ideas = append(ideas, domain.Idea{
			Title:       p.Title,
			Description: p.Description,
			Keywords:    p.Keywords,
			ContentType: p.ContentType,
			SourceTag:   "auto",
		})
	}
	return ideas, nil
}

func (c *Client) complete(ctx context.Context, system, prompt string) (string, error) {
	response, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			{
				OfSystem: &openai.ChatCompletionSystemMessageParam{
					Content: openai.ChatCompletionSystemMessageParamContentUnion{
						OfString: openai.String(system),
					},
				},
			},
			{
				OfUser: &openai.ChatCompletionUserMessageParam{
					Content: openai.ChatCompletionUserMessageParamContentUnion{
						OfString: openai.String(prompt),
					},
				},
			},
		},
		Temperature: openai.Float(0.3),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(response.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}
	return response.Choices[0].Message.Content, nil
}

// extractJSON trims markdown code fences some models wrap around JSON.
func extractJSON(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
	}
	return strings.TrimSpace(s)
}

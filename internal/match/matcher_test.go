package match

import (
	"testing"

	"ContentPilot/internal/domain"
)

func TestScore(t *testing.T) {
	t.Parallel()

	idea := domain.Idea{
		Title:       "Payroll Software Guide for Small Business",
		Keywords:    []string{"payroll software", "hr tools"},
		ContentType: "guide",
	}

	tests := []struct {
		name string
		c    domain.Contributor
		want int
	}{
		{
			"all three rules",
			domain.Contributor{
				ExpertiseAreas:         []string{"payroll"},
				ContentTypePreferences: []string{"guide", "listicle"},
			},
			100,
		},
		{
			"content type only",
			domain.Contributor{
				ExpertiseAreas:         []string{"insurance"},
				ContentTypePreferences: []string{"guide"},
			},
			30,
		},
		{
			"keyword substring both directions",
			domain.Contributor{ExpertiseAreas: []string{"hr"}},
			50,
		},
		{
			"no match",
			domain.Contributor{
				ExpertiseAreas:         []string{"cryptocurrency"},
				ContentTypePreferences: []string{"news"},
			},
			0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Score(idea, tt.c); got != tt.want {
				t.Fatalf("Score = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestBestStableTieBreak(t *testing.T) {
	t.Parallel()

	idea := domain.Idea{Title: "Tax Filing Basics", Keywords: []string{"tax"}, ContentType: "guide"}
	contributors := []domain.Contributor{
		{ID: "first", ExpertiseAreas: []string{"tax"}},
		{ID: "second", ExpertiseAreas: []string{"tax"}},
	}

	best := Best(idea, contributors)
	if best == nil || best.ID != "first" {
		t.Fatalf("tie must go to the first contributor in input order, got %+v", best)
	}
}

func TestBestEmptyList(t *testing.T) {
	t.Parallel()

	if got := Best(domain.Idea{Title: "anything"}, nil); got != nil {
		t.Fatalf("Best(nil list) = %+v, want nil", got)
	}
}

func TestBestPicksHighest(t *testing.T) {
	t.Parallel()

	idea := domain.Idea{
		Title:       "Retirement Planning Checklist",
		Keywords:    []string{"retirement", "401k"},
		ContentType: "checklist",
	}
	contributors := []domain.Contributor{
		{ID: "weak", ContentTypePreferences: []string{"checklist"}},                                         // 30
		{ID: "strong", ExpertiseAreas: []string{"retirement"}, ContentTypePreferences: []string{"checklist"}}, // 100
	}

	best := Best(idea, contributors)
	if best == nil || best.ID != "strong" {
		t.Fatalf("Best = %+v, want strong", best)
	}
}

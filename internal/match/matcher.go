package match

import (
	"strings"

	"ContentPilot/internal/domain"
)

// Point weights for the additive contributor score. Each rule fires at
// most once per contributor.
const (
	pointsExpertiseKeyword = 50
	pointsContentType      = 30
	pointsTitleMention     = 20
)

// Score computes the additive match score of one contributor against an
// idea's keywords, content type, and title.
func Score(idea domain.Idea, c domain.Contributor) int {
	score := 0

	if expertiseMatchesKeywords(c.ExpertiseAreas, idea.Keywords) {
		score += pointsExpertiseKeyword
	}
	if prefersContentType(c.ContentTypePreferences, idea.ContentType) {
		score += pointsContentType
	}
	if expertiseInTitle(c.ExpertiseAreas, idea.Title) {
		score += pointsTitleMention
	}

	return score
}

// Best returns the highest-scoring contributor for the idea, or nil when
// the list is empty or nobody scores above zero is not required — a zero
// score still wins if it is the maximum. Ties go to the earliest
// contributor in input order.
func Best(idea domain.Idea, contributors []domain.Contributor) *domain.Contributor {
	if len(contributors) == 0 {
		return nil
	}

	bestIdx := 0
	bestScore := Score(idea, contributors[0])
	for i := 1; i < len(contributors); i++ {
		if s := Score(idea, contributors[i]); s > bestScore {
			bestIdx, bestScore = i, s
		}
	}

	return &contributors[bestIdx]
}

func expertiseMatchesKeywords(areas, keywords []string) bool {
	for _, area := range areas {
		a := strings.ToLower(strings.TrimSpace(area))
		if a == "" {
			continue
		}
		for _, kw := range keywords {
			k := strings.ToLower(strings.TrimSpace(kw))
			if k == "" {
				continue
			}
			if strings.Contains(k, a) || strings.Contains(a, k) {
				return true
			}
		}
	}
	return false
}

func prefersContentType(prefs []string, contentType string) bool {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if ct == "" {
		return false
	}
	for _, p := range prefs {
		if strings.ToLower(strings.TrimSpace(p)) == ct {
			return true
		}
	}
	return false
}

func expertiseInTitle(areas []string, title string) bool {
	lower := strings.ToLower(title)
	for _, area := range areas {
		for _, token := range strings.Fields(strings.ToLower(area)) {
			if strings.Contains(lower, token) {
				return true
			}
		}
	}
	return false
}

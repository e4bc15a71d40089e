package usecase

import (
	"sort"
	"strings"

	"github.com/mitra/backend/internal/domain"
)

const (
	// Minimum lexical similarity for a non-exact keyword to count as a match
	keywordSimilarityThreshold = 0.3

	// Matches kept per category after sorting by score
	maxMatchesPerCategory = 5
)

// CategoryMatcher scores a query against the static shopping taxonomy using
// exact substring matches and lexical similarity lookups.
type CategoryMatcher struct {
	taxonomy *domain.Taxonomy
	index    *SimilarityIndex
}

// NewCategoryMatcher creates a matcher over the given taxonomy. The
// similarity index may be unfitted; non-exact keywords then never match.
func NewCategoryMatcher(taxonomy *domain.Taxonomy, index *SimilarityIndex) *CategoryMatcher {
	return &CategoryMatcher{
		taxonomy: taxonomy,
		index:    index,
	}
}

// Score evaluates the query against every taxonomy keyword. An exact
// substring occurrence in the lowercased query scores 1.0; otherwise the
// keyword is included only when its lexical similarity to the query exceeds
// the threshold. A category absent from the result had no keyword above
// threshold.
func (m *CategoryMatcher) Score(query string) map[string]domain.CategoryMatches {
	queryLower := strings.ToLower(query)
	result := make(map[string]domain.CategoryMatches)

	for _, category := range m.taxonomy.Categories {
		var maxScore float64
		var matches []domain.KeywordMatch

		for _, sub := range category.Subcategories {
			for _, keyword := range sub.Keywords {
				score := 0.0
				if strings.Contains(queryLower, keyword) {
					score = 1.0
				} else {
					sim := m.index.Similarity(queryLower, keyword)
					if sim > keywordSimilarityThreshold {
						score = sim
					}
				}

				if score > 0 {
					matches = append(matches, domain.KeywordMatch{
						Keyword:     keyword,
						Score:       score,
						Subcategory: sub.Name,
					})
					if score > maxScore {
						maxScore = score
					}
				}
			}
		}

		if len(matches) == 0 {
			continue
		}

		sort.SliceStable(matches, func(i, j int) bool {
			return matches[i].Score > matches[j].Score
		})
		if len(matches) > maxMatchesPerCategory {
			matches = matches[:maxMatchesPerCategory]
		}

		result[category.Name] = domain.CategoryMatches{
			MaxScore: maxScore,
			Matches:  matches,
		}
	}

	return result
}

package usecase

import (
	"testing"

	"github.com/mitra/backend/internal/domain"
)

func newTestMatcher(t *testing.T) *CategoryMatcher {
	t.Helper()
	index := fittedIndex(t, indexProducts())
	return NewCategoryMatcher(domain.DefaultTaxonomy(), index)
}

func TestScoreExactKeywordMatch(t *testing.T) {
	matcher := newTestMatcher(t)

	scores := matcher.Score("vegan protein snacks under 300")

	food, ok := scores[domain.CategoryFood]
	if !ok {
		t.Fatal("expected a food category entry")
	}
	if food.MaxScore != 1.0 {
		t.Errorf("food MaxScore = %v, want 1.0", food.MaxScore)
	}

	var veganMatch *domain.KeywordMatch
	for i := range food.Matches {
		if food.Matches[i].Keyword == "vegan" {
			veganMatch = &food.Matches[i]
		}
	}
	if veganMatch == nil {
		t.Fatal("expected 'vegan' keyword match")
	}
	if veganMatch.Score != 1.0 {
		t.Errorf("vegan score = %v, want 1.0", veganMatch.Score)
	}
	if veganMatch.Subcategory != "healthy" {
		t.Errorf("vegan subcategory = %q, want healthy", veganMatch.Subcategory)
	}
}

func TestScoreNoMatchOmitsCategory(t *testing.T) {
	matcher := newTestMatcher(t)

	scores := matcher.Score("vegan snacks")
	if _, ok := scores[domain.CategoryFashion]; ok {
		t.Errorf("fashion should be absent for a food-only query, got %+v", scores[domain.CategoryFashion])
	}

	scores = matcher.Score("xyzzy")
	if len(scores) != 0 {
		t.Errorf("Score(nonsense) = %v, want empty map", scores)
	}
}

func TestScoreFashionQuery(t *testing.T) {
	matcher := newTestMatcher(t)

	scores := matcher.Score("formal blazer for office wear")

	fashion, ok := scores[domain.CategoryFashion]
	if !ok {
		t.Fatal("expected a fashion category entry")
	}
	if fashion.MaxScore != 1.0 {
		t.Errorf("fashion MaxScore = %v, want 1.0", fashion.MaxScore)
	}

	found := make(map[string]bool)
	for _, m := range fashion.Matches {
		found[m.Keyword] = true
	}
	if !found["blazer"] {
		t.Error("expected 'blazer' among matches")
	}
	if !found["office wear"] {
		t.Error("expected 'office wear' among matches")
	}
}

func TestScoreSortedAndCapped(t *testing.T) {
	matcher := newTestMatcher(t)

	// Hits many fashion keywords at once
	scores := matcher.Score("trendy casual wear t-shirt jeans shorts hoodie sneakers")

	fashion, ok := scores[domain.CategoryFashion]
	if !ok {
		t.Fatal("expected a fashion category entry")
	}
	if len(fashion.Matches) > maxMatchesPerCategory {
		t.Errorf("len(matches) = %d, want at most %d", len(fashion.Matches), maxMatchesPerCategory)
	}
	for i := 1; i < len(fashion.Matches); i++ {
		if fashion.Matches[i].Score > fashion.Matches[i-1].Score {
			t.Errorf("matches not sorted descending at %d: %v", i, fashion.Matches)
		}
	}
}

func TestScoreUnfittedIndexExactOnly(t *testing.T) {
	matcher := NewCategoryMatcher(domain.DefaultTaxonomy(), NewSimilarityIndex(SimilarityConfig{}))

	scores := matcher.Score("vegan snacks")
	food, ok := scores[domain.CategoryFood]
	if !ok {
		t.Fatal("exact substring matches must work without a fitted index")
	}
	for _, m := range food.Matches {
		if m.Score != 1.0 {
			t.Errorf("unfitted index produced non-exact match %+v", m)
		}
	}
}

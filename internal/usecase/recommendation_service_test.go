package usecase

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/mitra/backend/internal/domain"
)

// fakeCatalog is an in-memory domain.CatalogRepository
type fakeCatalog struct {
	products []domain.Product
	err      error
}

func (f *fakeCatalog) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []domain.Product
	for _, p := range f.products {
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if filter.MaxPrice > 0 && p.Price > filter.MaxPrice {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// fakeLogStore surfaces async log writes through a channel
type fakeLogStore struct {
	logged chan *domain.RecommendationLog
}

func newFakeLogStore() *fakeLogStore {
	return &fakeLogStore{logged: make(chan *domain.RecommendationLog, 1)}
}

func (f *fakeLogStore) LogRecommendation(ctx context.Context, entry *domain.RecommendationLog) error {
	f.logged <- entry
	return nil
}

func catalogProducts() []domain.Product {
	return []domain.Product{
		{ID: 1, Name: "Plant-Based Protein Cookies", Category: domain.CategoryFood,
			Subcategory: "snacks", Price: 299, Brand: "GreenBite",
			Tags: []string{"vegan", "protein", "cookies", "snacks"}, Availability: true, Rating: 4.5},
		{ID: 2, Name: "Protein Bars - Chocolate", Category: domain.CategoryFood,
			Subcategory: "snacks", Price: 399, Brand: "FitFuel",
			Tags: []string{"protein", "chocolate", "bars"}, Availability: true, Rating: 4.6},
		{ID: 3, Name: "Oversized Cotton Tee", Category: domain.CategoryFashion,
			Subcategory: "casual", Price: 799, Brand: "UrbanStyle",
			Tags: []string{"casual", "cotton", "tee"}, Availability: true, Rating: 4.1},
	}
}

func newTestService(catalog *fakeCatalog, logStore *fakeLogStore) *RecommendationService {
	taxonomy := domain.DefaultTaxonomy()
	index := NewSimilarityIndex(SimilarityConfig{})
	index.Fit(catalog.products)

	llm := failingClient()
	matcher := NewCategoryMatcher(taxonomy, index)
	extractor := NewPreferenceExtractor(llm, matcher, taxonomy, ExtractorConfig{})
	responder := NewResponder(llm, ResponderConfig{})

	return NewRecommendationService(catalog, logStore, extractor, responder, index,
		RecommendationConfig{TopN: 10})
}

func assertScore(t *testing.T, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("score = %v, want %v", got, want)
	}
}

func hasPhrase(reasoning []string, phrase string) bool {
	for _, r := range reasoning {
		if r == phrase {
			return true
		}
	}
	return false
}

func TestScoreFactors(t *testing.T) {
	service := newTestService(&fakeCatalog{products: catalogProducts()}, newFakeLogStore())

	base := domain.Product{
		ID: 100, Name: "Test Product", Category: domain.CategoryFood,
		Price: 300, Brand: "TestBrand", Rating: 4.0,
	}

	t.Run("category and exact budget boundary", func(t *testing.T) {
		prefs := &domain.PreferenceSet{Category: domain.CategoryFood, BudgetMax: 300}
		score, reasoning := service.Score(base, prefs)

		// 0.30 category + 0.25*(1-0.5) price + 0.10 tag neutral +
		// 0.05 brand neutral + 0.08 rating
		assertScore(t, score, 0.655)
		if !hasPhrase(reasoning, "Perfect category match (food)") {
			t.Errorf("reasoning = %v, want category phrase", reasoning)
		}
		if !hasPhrase(reasoning, "Within budget (₹300 ≤ ₹300)") {
			t.Errorf("reasoning = %v, want within-budget phrase", reasoning)
		}
		if !hasPhrase(reasoning, "Quality rating: 4/5") {
			t.Errorf("reasoning = %v, want rating phrase", reasoning)
		}
	})

	t.Run("category both gets partial credit", func(t *testing.T) {
		prefs := &domain.PreferenceSet{Category: domain.CategoryBoth}
		_, reasoning := service.Score(base, prefs)

		if !hasPhrase(reasoning, "Category compatible (food)") {
			t.Errorf("reasoning = %v, want compatible phrase", reasoning)
		}
	})

	t.Run("over budget earns nothing", func(t *testing.T) {
		prefs := &domain.PreferenceSet{Category: domain.CategoryFood, BudgetMax: 200}
		score, reasoning := service.Score(base, prefs)

		// 0.30 category + 0.10 tag neutral + 0.05 brand neutral + 0.08 rating
		assertScore(t, score, 0.53)
		if !hasPhrase(reasoning, "Over budget (₹300 > ₹200)") {
			t.Errorf("reasoning = %v, want over-budget phrase", reasoning)
		}
	})

	t.Run("cheaper products score higher within budget", func(t *testing.T) {
		prefs := &domain.PreferenceSet{Category: domain.CategoryFood, BudgetMax: 1000}
		cheap := base
		cheap.Price = 100
		costly := base
		costly.Price = 900

		cheapScore, _ := service.Score(cheap, prefs)
		costlyScore, _ := service.Score(costly, prefs)
		if cheapScore <= costlyScore {
			t.Errorf("cheap = %v should exceed costly = %v", cheapScore, costlyScore)
		}
	})

	t.Run("neutral credits without any signals", func(t *testing.T) {
		product := base
		product.Rating = 0
		score, reasoning := service.Score(product, &domain.PreferenceSet{})

		// 0.15 price neutral + 0.10 tag neutral + 0.05 brand neutral +
		// 0.06 from the default rating of 3
		assertScore(t, score, 0.36)
		if !hasPhrase(reasoning, "No budget constraint") {
			t.Errorf("reasoning = %v, want no-budget phrase", reasoning)
		}
		if !hasPhrase(reasoning, "Quality rating: 3/5") {
			t.Errorf("reasoning = %v, want default-rating phrase", reasoning)
		}
	})

	t.Run("tag overlap", func(t *testing.T) {
		product := base
		product.Tags = []string{"vegan", "protein"}
		prefs := &domain.PreferenceSet{DietaryPreferences: []string{"vegan"}}
		score, reasoning := service.Score(product, prefs)

		// 0.15 price neutral + 0.25 full overlap + 0.05 brand neutral + 0.08 rating
		assertScore(t, score, 0.53)
		if !hasPhrase(reasoning, "Matches preferences: vegan") {
			t.Errorf("reasoning = %v, want preference match phrase", reasoning)
		}
	})

	t.Run("unmatched preferences earn nothing", func(t *testing.T) {
		product := base
		product.Tags = []string{"spicy"}
		prefs := &domain.PreferenceSet{DietaryPreferences: []string{"vegan"}}
		_, reasoning := service.Score(product, prefs)

		if !hasPhrase(reasoning, "No specific preference matches") {
			t.Errorf("reasoning = %v, want no-match phrase", reasoning)
		}
	})

	t.Run("t-shirt synonym group", func(t *testing.T) {
		product := domain.Product{
			ID: 3, Name: "Oversized Cotton Tee", Category: domain.CategoryFashion,
			Price: 799, Brand: "UrbanStyle", Rating: 4.1,
			Tags: []string{"casual", "cotton", "tee"},
		}
		prefs := &domain.PreferenceSet{
			Category:          domain.CategoryFashion,
			ExtractedKeywords: []string{"tee"},
		}
		_, reasoning := service.Score(product, prefs)

		if !hasPhrase(reasoning, "Perfect product type match (tee)") {
			t.Errorf("reasoning = %v, want synonym product type phrase", reasoning)
		}
		if !hasPhrase(reasoning, "T-shirt match: tee") {
			t.Errorf("reasoning = %v, want t-shirt tag phrase", reasoning)
		}
	})

	t.Run("brand preference", func(t *testing.T) {
		prefs := &domain.PreferenceSet{BrandPreferences: []string{"TestBrand"}}
		_, reasoning := service.Score(base, prefs)
		if !hasPhrase(reasoning, "Preferred brand (TestBrand)") {
			t.Errorf("reasoning = %v, want preferred brand phrase", reasoning)
		}

		prefs = &domain.PreferenceSet{BrandPreferences: []string{"OtherBrand"}}
		_, reasoning = service.Score(base, prefs)
		if !hasPhrase(reasoning, "Different brand (TestBrand)") {
			t.Errorf("reasoning = %v, want different brand phrase", reasoning)
		}
	})

	t.Run("subcategory containment", func(t *testing.T) {
		product := base
		product.Subcategory = "healthy snacks"
		prefs := &domain.PreferenceSet{Subcategory: "snacks"}
		_, reasoning := service.Score(product, prefs)
		if !hasPhrase(reasoning, "Subcategory match (healthy snacks)") {
			t.Errorf("reasoning = %v, want subcategory match phrase", reasoning)
		}

		product.Subcategory = "snacks"
		prefs = &domain.PreferenceSet{Subcategory: "healthy snacks"}
		_, reasoning = service.Score(product, prefs)
		if !hasPhrase(reasoning, "Subcategory compatible (snacks)") {
			t.Errorf("reasoning = %v, want subcategory compatible phrase", reasoning)
		}
	})

	t.Run("score stays within bounds", func(t *testing.T) {
		product := domain.Product{
			ID: 3, Name: "Oversized Cotton Tee", Category: domain.CategoryFashion,
			Subcategory: "casual", Price: 100, Brand: "UrbanStyle", Rating: 5,
			Tags: []string{"casual", "cotton", "tee"},
		}
		prefs := &domain.PreferenceSet{
			Category:          domain.CategoryFashion,
			Subcategory:       "casual",
			BudgetMax:         10000,
			StylePreferences:  []string{"casual", "cotton"},
			ExtractedKeywords: []string{"tee"},
			BrandPreferences:  []string{"UrbanStyle"},
			OriginalQuery:     "casual cotton tee",
		}
		score, _ := service.Score(product, prefs)

		if score < 0.0 || score > 1.0 {
			t.Errorf("score = %v, want within [0,1]", score)
		}
	})

	t.Run("deterministic", func(t *testing.T) {
		product := catalogProducts()[0]
		prefs := &domain.PreferenceSet{
			Category:           domain.CategoryFood,
			BudgetMax:          500,
			DietaryPreferences: []string{"vegan", "protein"},
			ExtractedKeywords:  []string{"cookies"},
			OriginalQuery:      "vegan protein cookies",
		}

		score1, reasoning1 := service.Score(product, prefs)
		score2, reasoning2 := service.Score(product, prefs)

		if score1 != score2 {
			t.Errorf("scores differ across runs: %v vs %v", score1, score2)
		}
		if strings.Join(reasoning1, reasoningSeparator) != strings.Join(reasoning2, reasoningSeparator) {
			t.Errorf("reasoning differs across runs: %v vs %v", reasoning1, reasoning2)
		}
	})
}

func TestRank(t *testing.T) {
	service := newTestService(&fakeCatalog{products: catalogProducts()}, newFakeLogStore())

	t.Run("sorts by confidence descending", func(t *testing.T) {
		prefs := &domain.PreferenceSet{Category: domain.CategoryFood, BudgetMax: 500}
		recs := service.Rank(catalogProducts(), prefs, 10)

		if len(recs) != 3 {
			t.Fatalf("len(recs) = %d, want 3", len(recs))
		}
		for i := 1; i < len(recs); i++ {
			if recs[i].Confidence > recs[i-1].Confidence {
				t.Errorf("recommendations not sorted at %d: %d > %d", i, recs[i].Confidence, recs[i-1].Confidence)
			}
		}
		if recs[0].Category != domain.CategoryFood {
			t.Errorf("top recommendation category = %s, want food", recs[0].Category)
		}
	})

	t.Run("truncates to topN", func(t *testing.T) {
		prefs := &domain.PreferenceSet{Category: domain.CategoryFood}
		recs := service.Rank(catalogProducts(), prefs, 2)
		if len(recs) != 2 {
			t.Errorf("len(recs) = %d, want 2", len(recs))
		}
	})

	t.Run("empty input yields empty non-nil slice", func(t *testing.T) {
		recs := service.Rank(nil, &domain.PreferenceSet{}, 10)
		if recs == nil {
			t.Fatal("Rank(nil) = nil, want empty slice")
		}
		if len(recs) != 0 {
			t.Errorf("len(recs) = %d, want 0", len(recs))
		}
	})

	t.Run("confidence is a 0-100 percentage", func(t *testing.T) {
		prefs := &domain.PreferenceSet{Category: domain.CategoryFood, BudgetMax: 500}
		for _, rec := range service.Rank(catalogProducts(), prefs, 10) {
			if rec.Confidence < 0 || rec.Confidence > 100 {
				t.Errorf("confidence = %d, want within [0,100]", rec.Confidence)
			}
		}
	})
}

func TestRecommend(t *testing.T) {
	t.Run("rejects blank queries", func(t *testing.T) {
		service := newTestService(&fakeCatalog{products: catalogProducts()}, newFakeLogStore())

		for _, query := range []string{"", "   ", "\t\n"} {
			if _, err := service.Recommend(context.Background(), query, "u1"); !errors.Is(err, domain.ErrInvalidRequest) {
				t.Errorf("Recommend(%q) error = %v, want ErrInvalidRequest", query, err)
			}
		}
	})

	t.Run("filters by extracted category and budget", func(t *testing.T) {
		logStore := newFakeLogStore()
		service := newTestService(&fakeCatalog{products: catalogProducts()}, logStore)

		result, err := service.Recommend(context.Background(), "vegan protein snacks under 300", "u1")
		if err != nil {
			t.Fatalf("Recommend() error = %v", err)
		}

		if result.Query != "vegan protein snacks under 300" {
			t.Errorf("query = %q, want the original query", result.Query)
		}

		// Fallback extraction yields food + budget 300; only the 299 cookie
		// product survives the filter
		if len(result.Recommendations) != 1 {
			t.Fatalf("len(recommendations) = %d, want 1: %+v", len(result.Recommendations), result.Recommendations)
		}
		rec := result.Recommendations[0]
		if rec.ID != 1 {
			t.Errorf("recommended product ID = %d, want 1", rec.ID)
		}
		if !strings.Contains(rec.Reasoning, "Within budget") {
			t.Errorf("reasoning = %q, want a within-budget phrase", rec.Reasoning)
		}

		if result.AIResponse == "" {
			t.Error("ai_response should not be empty")
		}
		if result.Preferences == nil || result.Preferences.BudgetMax != 300 {
			t.Errorf("preferences_extracted = %+v, want budget 300", result.Preferences)
		}

		// Logging is fire-and-forget but must happen
		select {
		case entry := <-logStore.logged:
			if entry.Query != result.Query {
				t.Errorf("logged query = %q, want %q", entry.Query, result.Query)
			}
			if entry.ID == "" {
				t.Error("logged entry should carry a generated ID")
			}
			if len(entry.Confidences) != len(result.Recommendations) {
				t.Errorf("logged %d confidences, want %d", len(entry.Confidences), len(result.Recommendations))
			}
		case <-time.After(2 * time.Second):
			t.Error("recommendation was never logged")
		}
	})

	t.Run("empty candidate set is not an error", func(t *testing.T) {
		service := newTestService(&fakeCatalog{}, newFakeLogStore())

		result, err := service.Recommend(context.Background(), "vegan snacks", "u1")
		if err != nil {
			t.Fatalf("Recommend() error = %v", err)
		}
		if len(result.Recommendations) != 0 {
			t.Errorf("len(recommendations) = %d, want 0", len(result.Recommendations))
		}
		if !strings.Contains(result.AIResponse, "couldn't find exact matches") {
			t.Errorf("ai_response = %q, want the no-results message", result.AIResponse)
		}
	})

	t.Run("propagates catalog failures", func(t *testing.T) {
		service := newTestService(&fakeCatalog{err: errors.New("disk gone")}, newFakeLogStore())

		_, err := service.Recommend(context.Background(), "vegan snacks", "u1")
		if !errors.Is(err, domain.ErrStoreFailure) {
			t.Errorf("Recommend() error = %v, want ErrStoreFailure", err)
		}
	})
}

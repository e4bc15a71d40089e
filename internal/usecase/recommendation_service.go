package usecase

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mitra/backend/internal/domain"
)

// Scoring factor weights. Each bonus is capped at its weight; the sum is
// clipped to [0,1] before conversion to a confidence percentage.
const (
	categoryMatchWeight      = 0.30 // exact category match
	categoryCompatibleWeight = 0.20 // preferences.category == "both"

	productTypeSynonymWeight = 0.20 // t-shirt synonym group match
	productTypeWeight        = 0.15 // other direct keyword match

	subcategoryMatchWeight      = 0.15 // preference subcategory contained in product's
	subcategoryCompatibleWeight = 0.10 // reverse containment

	priceWeight        = 0.25 // scaled by closeness to budget
	priceNeutralCredit = 0.15 // no budget constraint stated

	tagOverlapWeight = 0.25 // scaled by matched share of user preferences
	tagSynonymBonus  = 0.15 // extra credit for a t-shirt group tag match
	tagNeutralCredit = 0.10 // no preferences stated

	brandMatchWeight   = 0.10
	brandNeutralCredit = 0.05

	ratingWeight = 0.10 // scaled by rating/5
	defaultRating = 3.0

	textSimilarityWeight = 0.10

	// Similarity above this is worth calling out in the reasoning
	textSimilarityCallout = 0.3

	// Tokens shorter than this are too noisy for partial tag matching
	minPartialTokenLen = 3
)

// The t-shirt synonym groups. Keyword side and product-tag side differ
// deliberately; this mirrors long-standing catalog tagging.
var (
	teeQuerySynonyms = map[string]bool{"t-shirt": true, "tshirt": true, "tee": true}
	teeTagSynonyms   = map[string]bool{"tee": true, "tshirt": true}
)

// reasoningSeparator joins reasoning phrases for display
const reasoningSeparator = " • "

// RecommendationResult is the full outcome of one ranking pass
type RecommendationResult struct {
	Query           string                        `json:"query"`
	Recommendations []domain.ScoredRecommendation `json:"recommendations"`
	AIResponse      string                        `json:"ai_response"`
	Preferences     *domain.PreferenceSet         `json:"preferences_extracted"`
}

// RecommendationConfig holds configuration for the recommendation engine
type RecommendationConfig struct {
	TopN               int
	EnableDebugLogging bool
}

// RecommendationService orchestrates the pipeline: preference extraction,
// catalog listing, per-product scoring, ranking, response generation, and
// fire-and-forget analytics logging.
type RecommendationService struct {
	catalog   domain.CatalogRepository
	logStore  domain.RecommendationLogger
	extractor *PreferenceExtractor
	responder *Responder
	index     *SimilarityIndex
	topN      int
	debug     bool
}

// NewRecommendationService creates a new recommendation service
func NewRecommendationService(
	catalog domain.CatalogRepository,
	logStore domain.RecommendationLogger,
	extractor *PreferenceExtractor,
	responder *Responder,
	index *SimilarityIndex,
	config RecommendationConfig,
) *RecommendationService {
	topN := config.TopN
	if topN <= 0 {
		topN = 10
	}

	return &RecommendationService{
		catalog:   catalog,
		logStore:  logStore,
		extractor: extractor,
		responder: responder,
		index:     index,
		topN:      topN,
		debug:     config.EnableDebugLogging,
	}
}

// FitCatalog loads the full catalog and fits the similarity index against it.
// Called once at startup and again after catalog changes.
func (s *RecommendationService) FitCatalog(ctx context.Context) error {
	products, err := s.catalog.ListProducts(ctx, domain.ProductFilter{})
	if err != nil {
		return fmt.Errorf("listing catalog for index fit: %w", err)
	}

	s.index.Fit(products)
	log.Printf("[ENGINE] Similarity index fitted over %d products", len(products))
	return nil
}

// Recommend runs one full ranking pass for a query. The extraction step
// never fails (rule-based fallback); an empty candidate set yields an empty
// recommendation list with a dedicated no-results response, not an error.
func (s *RecommendationService) Recommend(ctx context.Context, query, userID string) (*RecommendationResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, domain.ErrInvalidRequest
	}

	prefs := s.extractor.Extract(ctx, query)

	filter := domain.ProductFilter{}
	if prefs.Category == domain.CategoryFood || prefs.Category == domain.CategoryFashion {
		filter.Category = prefs.Category
	}
	if prefs.BudgetMax > 0 {
		filter.MaxPrice = prefs.BudgetMax
	}

	// Tag relevance is the scorer's job; never filter on tags here
	products, err := s.catalog.ListProducts(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreFailure, err)
	}

	recommendations := s.Rank(products, prefs, s.topN)

	if s.debug {
		log.Printf("[ENGINE] Query %q: %d candidates, %d recommended", query, len(products), len(recommendations))
	}

	aiResponse := s.responder.Respond(ctx, query, recommendations, prefs)

	// Fire-and-forget analytics; a logging failure never aborts the response
	go s.logPass(query, prefs, recommendations)

	return &RecommendationResult{
		Query:           query,
		Recommendations: recommendations,
		AIResponse:      aiResponse,
		Preferences:     prefs,
	}, nil
}

// Rank scores every candidate, maps scores to integer confidences, sorts
// stably descending, and truncates to topN. An empty candidate list returns
// an empty (non-nil) slice.
func (s *RecommendationService) Rank(products []domain.Product, prefs *domain.PreferenceSet, topN int) []domain.ScoredRecommendation {
	recommendations := make([]domain.ScoredRecommendation, 0, len(products))
	for _, product := range products {
		score, reasoning := s.Score(product, prefs)
		recommendations = append(recommendations, domain.ScoredRecommendation{
			Product:    product,
			Confidence: int(math.Round(score * 100)),
			Reasoning:  strings.Join(reasoning, reasoningSeparator),
		})
	}

	// Stable: original catalog order breaks ties
	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].Confidence > recommendations[j].Confidence
	})

	if len(recommendations) > topN {
		recommendations = recommendations[:topN]
	}
	return recommendations
}

// Score computes the bounded [0,1] match score and the reasoning trail for a
// (product, preferences) pair. Deterministic: identical inputs always
// produce the identical score and phrases.
func (s *RecommendationService) Score(product domain.Product, prefs *domain.PreferenceSet) (float64, []string) {
	score := 0.0
	var reasoning []string

	// Category matching (30%)
	if prefs.Category == product.Category {
		score += categoryMatchWeight
		reasoning = append(reasoning, fmt.Sprintf("Perfect category match (%s)", product.Category))
	} else if prefs.Category == domain.CategoryBoth {
		score += categoryCompatibleWeight
		reasoning = append(reasoning, fmt.Sprintf("Category compatible (%s)", product.Category))
	}

	// Product type matching (special bonus, first extracted keyword wins)
	nameLower := strings.ToLower(product.Name)
	tagsLower := lowerAll(product.Tags)
	for _, keyword := range prefs.ExtractedKeywords {
		kw := strings.ToLower(keyword)
		if teeQuerySynonyms[kw] {
			if anyTagIn(tagsLower, teeTagSynonyms) || strings.Contains(nameLower, "tee") {
				score += productTypeSynonymWeight
				reasoning = append(reasoning, fmt.Sprintf("Perfect product type match (%s)", keyword))
				break
			}
		} else if strings.Contains(nameLower, kw) || anyTagContains(tagsLower, kw) {
			score += productTypeWeight
			reasoning = append(reasoning, fmt.Sprintf("Product type match (%s)", keyword))
			break
		}
	}

	// Subcategory matching (bonus 15%)
	if prefs.Subcategory != "" && product.Subcategory != "" {
		prefSub := strings.ToLower(prefs.Subcategory)
		prodSub := strings.ToLower(product.Subcategory)
		if strings.Contains(prodSub, prefSub) {
			score += subcategoryMatchWeight
			reasoning = append(reasoning, fmt.Sprintf("Subcategory match (%s)", product.Subcategory))
		} else if strings.Contains(prefSub, prodSub) {
			score += subcategoryCompatibleWeight
			reasoning = append(reasoning, fmt.Sprintf("Subcategory compatible (%s)", product.Subcategory))
		}
	}

	// Price matching (25%)
	if prefs.BudgetMax > 0 {
		if product.Price <= prefs.BudgetMax {
			score += priceWeight * (1 - (product.Price/prefs.BudgetMax)*0.5)
			reasoning = append(reasoning, fmt.Sprintf("Within budget (₹%s ≤ ₹%s)",
				formatAmount(product.Price), formatAmount(prefs.BudgetMax)))
		} else {
			reasoning = append(reasoning, fmt.Sprintf("Over budget (₹%s > ₹%s)",
				formatAmount(product.Price), formatAmount(prefs.BudgetMax)))
		}
	} else {
		score += priceNeutralCredit
		reasoning = append(reasoning, "No budget constraint")
	}

	// Tag/preference matching (25%)
	userPrefs := collectUserPrefs(prefs)
	if len(userPrefs) > 0 {
		matched := matchTags(userPrefs, tagsLower)
		if len(matched) > 0 {
			tagScore := tagOverlapWeight * math.Min(1.0, float64(len(matched))/float64(len(userPrefs)))

			if anySetIn(matched, teeTagSynonyms) {
				tagScore += tagSynonymBonus
				reasoning = append(reasoning, "T-shirt match: "+joinTop(matched, 3))
			} else {
				reasoning = append(reasoning, "Matches preferences: "+joinTop(matched, 3))
			}
			score += tagScore
		} else {
			reasoning = append(reasoning, "No specific preference matches")
		}
	} else {
		score += tagNeutralCredit
	}

	// Brand matching (10%)
	if len(prefs.BrandPreferences) > 0 {
		if containsString(prefs.BrandPreferences, product.Brand) {
			score += brandMatchWeight
			reasoning = append(reasoning, fmt.Sprintf("Preferred brand (%s)", product.Brand))
		} else {
			reasoning = append(reasoning, fmt.Sprintf("Different brand (%s)", product.Brand))
		}
	} else {
		score += brandNeutralCredit
	}

	// Rating boost (10%)
	rating := product.Rating
	if rating <= 0 {
		rating = defaultRating
	}
	score += (rating / 5) * ratingWeight
	reasoning = append(reasoning, fmt.Sprintf("Quality rating: %s/5", formatAmount(rating)))

	// Text similarity bonus: only when a fitted index with a precomputed
	// vector for this product is available; otherwise silently contributes 0
	if s.index != nil {
		sim := s.index.SimilarityToProduct(prefs.OriginalQuery, product.ID)
		score += sim * textSimilarityWeight
		if sim > textSimilarityCallout {
			reasoning = append(reasoning, fmt.Sprintf("High text similarity (%.2f)", sim))
		}
	}

	// Clip to [0,1]
	score = math.Max(0, math.Min(1, score))

	return score, reasoning
}

// logPass records a completed ranking pass for analytics
func (s *RecommendationService) logPass(query string, prefs *domain.PreferenceSet, recs []domain.ScoredRecommendation) {
	confidences := make([]int, len(recs))
	for i, rec := range recs {
		confidences[i] = rec.Confidence
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	entry := &domain.RecommendationLog{
		ID:              uuid.NewString(),
		Query:           query,
		Preferences:     prefs,
		Recommendations: recs,
		Confidences:     confidences,
		CreatedAt:       time.Now(),
	}
	if err := s.logStore.LogRecommendation(ctx, entry); err != nil {
		log.Printf("[ENGINE] Recommendation log write failed: %v", err)
	}
}

// collectUserPrefs builds the lowercased union of dietary, style, specific
// requirement, and extracted keyword tokens
func collectUserPrefs(prefs *domain.PreferenceSet) map[string]bool {
	set := make(map[string]bool)
	for _, group := range [][]string{
		prefs.DietaryPreferences,
		prefs.StylePreferences,
		prefs.SpecificRequirements,
		prefs.ExtractedKeywords,
	} {
		for _, p := range group {
			if p != "" {
				set[strings.ToLower(p)] = true
			}
		}
	}
	return set
}

// matchTags unions exact tag intersections with meaningful partial matches.
// Partial matching only considers tokens of length >= 3 without digits, with
// containment in either direction, plus the t-shirt synonym equivalence.
func matchTags(userPrefs map[string]bool, productTags []string) map[string]bool {
	tagSet := make(map[string]bool, len(productTags))
	for _, tag := range productTags {
		tagSet[tag] = true
	}

	matched := make(map[string]bool)
	for pref := range userPrefs {
		if tagSet[pref] {
			matched[pref] = true
		}
	}

	for pref := range userPrefs {
		if len(pref) < minPartialTokenLen {
			continue
		}
		for tag := range tagSet {
			if len(tag) < minPartialTokenLen {
				continue
			}
			switch {
			case (pref == "t-shirt" || pref == "tshirt") && (tag == "tee" || tag == "tshirt" || tag == "t-shirt"):
				matched[tag] = true
			case pref == "tee" && (tag == "tshirt" || tag == "t-shirt"):
				matched[tag] = true
			case (strings.Contains(tag, pref) || strings.Contains(pref, tag)) && !hasDigit(pref):
				matched[tag] = true
			}
		}
	}

	return matched
}

// joinTop renders up to n matched tokens in sorted order for display
func joinTop(set map[string]bool, n int) string {
	tokens := make([]string, 0, len(set))
	for t := range set {
		tokens = append(tokens, t)
	}
	sort.Strings(tokens)
	if len(tokens) > n {
		tokens = tokens[:n]
	}
	return strings.Join(tokens, ", ")
}

// formatAmount renders a price or rating without trailing zeros
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func lowerAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.ToLower(v)
	}
	return out
}

func anyTagIn(tags []string, set map[string]bool) bool {
	for _, tag := range tags {
		if set[tag] {
			return true
		}
	}
	return false
}

func anyTagContains(tags []string, substr string) bool {
	for _, tag := range tags {
		if strings.Contains(tag, substr) {
			return true
		}
	}
	return false
}

func anySetIn(set map[string]bool, group map[string]bool) bool {
	for v := range set {
		if group[v] {
			return true
		}
	}
	return false
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}

func hasDigit(s string) bool {
	for _, c := range s {
		if c >= '0' && c <= '9' {
			return true
		}
	}
	return false
}

package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/mitra/backend/internal/domain"
)

// Package-level compiled regex patterns for extraction
var (
	// First JSON object in a completion, across newlines
	jsonObjectRegex = regexp.MustCompile(`(?s)\{.*\}`)

	// Budget amounts: after a currency symbol, or after "under"
	rupeeBudgetRegex = regexp.MustCompile(`₹\s*(\d+)`)
	underBudgetRegex = regexp.MustCompile(`under\s+(\d+)`)
)

// Fallback category classification keywords
var (
	fallbackFoodKeywords    = []string{"snacks", "food", "breakfast", "protein", "vegan", "meal", "drink", "cereal"}
	fallbackFashionKeywords = []string{"wear", "clothes", "kurta", "tee", "shirt", "dress", "jacket", "pants"}
)

// Degraded-extraction confidence pair reported by the rule-based fallback
const (
	fallbackLLMConfidence      = 0.3
	fallbackMatchingConfidence = 0.2
)

// LLM confidence presence weights, capped at 1.0
const (
	confCategoryWeight     = 0.3
	confSubcategoryWeight  = 0.2
	confBudgetWeight       = 0.2
	confPreferencesWeight  = 0.2
	confRequirementsWeight = 0.1
)

// Category override threshold: lexical evidence must be strong before it
// overrides the LLM's category judgment
const categoryOverrideThreshold = 0.5

const extractionSystemPrompt = "You are an expert at extracting detailed shopping preferences from Indian consumer queries. Always return valid JSON with comprehensive details."

// ExtractorConfig holds configuration for the preference extractor
type ExtractorConfig struct {
	LLMTimeout         time.Duration
	EnableDebugLogging bool
}

// PreferenceExtractor turns a free-text query into a PreferenceSet by
// combining taxonomy matching with one structured LLM extraction call. The
// LLM path is single-attempt: any error, timeout, or malformed output fails
// over to the rule-based extractor immediately.
type PreferenceExtractor struct {
	llm      domain.LLMClient
	matcher  *CategoryMatcher
	taxonomy *domain.Taxonomy
	timeout  time.Duration
	debug    bool
}

// NewPreferenceExtractor creates a new preference extractor
func NewPreferenceExtractor(
	llm domain.LLMClient,
	matcher *CategoryMatcher,
	taxonomy *domain.Taxonomy,
	config ExtractorConfig,
) *PreferenceExtractor {
	timeout := config.LLMTimeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}

	return &PreferenceExtractor{
		llm:      llm,
		matcher:  matcher,
		taxonomy: taxonomy,
		timeout:  timeout,
		debug:    config.EnableDebugLogging,
	}
}

// Extract runs the full extraction pipeline: taxonomy scoring, structured
// LLM extraction (with fallback), and combination into one PreferenceSet.
// Never fails; degraded extraction is reflected in the confidence scores.
func (e *PreferenceExtractor) Extract(ctx context.Context, query string) *domain.PreferenceSet {
	categoryScores := e.matcher.Score(query)
	llmPrefs := e.ExtractStructured(ctx, query)
	return e.Combine(llmPrefs, categoryScores, query)
}

// ExtractStructured issues the LLM extraction call and parses the first JSON
// object found in the response. Falls back to rule-based extraction when the
// call errors, times out, no well-formed JSON object is found, or the parsed
// object is missing required fields.
func (e *PreferenceExtractor) ExtractStructured(ctx context.Context, query string) *domain.PreferenceSet {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	content, err := e.llm.Complete(ctx, extractionSystemPrompt, extractionPrompt(query))
	if err != nil {
		if e.debug {
			log.Printf("[EXTRACT] LLM extraction failed, using fallback: %v", err)
		}
		return e.fallbackExtraction(query)
	}

	raw := jsonObjectRegex.FindString(content)
	if raw == "" {
		if e.debug {
			log.Printf("[EXTRACT] %v, using fallback", domain.ErrMalformedCompletion)
		}
		return e.fallbackExtraction(query)
	}

	var prefs domain.PreferenceSet
	if err := json.Unmarshal([]byte(raw), &prefs); err != nil {
		if e.debug {
			log.Printf("[EXTRACT] %v: %v, using fallback", domain.ErrMalformedCompletion, err)
		}
		return e.fallbackExtraction(query)
	}

	// Parsed but missing required fields: not partially trusted
	if err := validatePreferenceShape(&prefs); err != nil {
		if e.debug {
			log.Printf("[EXTRACT] %v, using fallback", err)
		}
		return e.fallbackExtraction(query)
	}

	prefs.OriginalQuery = query
	return &prefs
}

// validatePreferenceShape checks that LLM output carries the required fields
func validatePreferenceShape(prefs *domain.PreferenceSet) error {
	switch prefs.Category {
	case domain.CategoryFood, domain.CategoryFashion, domain.CategoryBoth:
		return nil
	}
	return fmt.Errorf("%w: category %q", domain.ErrInvalidPreferences, prefs.Category)
}

// fallbackExtraction is the rule-based extractor used when the LLM path
// fails: a currency regex for the budget, fixed keyword lists for the
// category, everything else defaulted, with fixed degraded confidences.
func (e *PreferenceExtractor) fallbackExtraction(query string) *domain.PreferenceSet {
	queryLower := strings.ToLower(query)

	var budgetMax float64
	if m := rupeeBudgetRegex.FindStringSubmatch(queryLower); m != nil {
		budgetMax = parseAmount(m[1])
	} else if m := underBudgetRegex.FindStringSubmatch(queryLower); m != nil {
		budgetMax = parseAmount(m[1])
	}

	category := domain.CategoryBoth
	if containsAny(queryLower, fallbackFoodKeywords) {
		category = domain.CategoryFood
	} else if containsAny(queryLower, fallbackFashionKeywords) {
		category = domain.CategoryFashion
	}

	return &domain.PreferenceSet{
		Category:             category,
		DietaryPreferences:   []string{},
		StylePreferences:     []string{},
		BudgetMax:            budgetMax,
		SpecificRequirements: []string{},
		BrandPreferences:     []string{},
		SizePreferences:      map[string]string{},
		ColorPreferences:     []string{},
		Urgency:              "normal",
		Quantity:             1,
		ExtractedKeywords:    []string{},
		ConfidenceScores: domain.ConfidenceScores{
			LLMConfidence:      fallbackLLMConfidence,
			MatchingConfidence: fallbackMatchingConfidence,
		},
		OriginalQuery: query,
	}
}

// Combine merges LLM-derived preferences with taxonomy match evidence.
// The taxonomy category overrides the LLM's only when its best score exceeds
// the override threshold; matched keywords become extracted_keywords in
// category declaration order, score-descending within each category.
func (e *PreferenceExtractor) Combine(
	llmPrefs *domain.PreferenceSet,
	categoryScores map[string]domain.CategoryMatches,
	query string,
) *domain.PreferenceSet {
	prefs := *llmPrefs
	prefs.SemanticMatches = categoryScores

	bestCategory := ""
	bestScore := 0.0
	for _, name := range e.taxonomy.Names() {
		data, ok := categoryScores[name]
		if !ok {
			continue
		}
		if data.MaxScore > bestScore {
			bestScore = data.MaxScore
			bestCategory = name
		}
	}
	if bestCategory != "" && bestScore > categoryOverrideThreshold {
		prefs.Category = bestCategory
	}

	var keywords []string
	for _, name := range e.taxonomy.Names() {
		for _, match := range categoryScores[name].Matches {
			keywords = append(keywords, match.Keyword)
		}
	}
	prefs.ExtractedKeywords = keywords

	prefs.ConfidenceScores = domain.ConfidenceScores{
		LLMConfidence:      llmConfidence(llmPrefs),
		MatchingConfidence: bestScore,
	}
	prefs.OriginalQuery = query

	return &prefs
}

// llmConfidence scores how completely the LLM populated the key fields
func llmConfidence(prefs *domain.PreferenceSet) float64 {
	score := 0.0

	switch prefs.Category {
	case domain.CategoryFood, domain.CategoryFashion, domain.CategoryBoth:
		score += confCategoryWeight
	}
	if prefs.Subcategory != "" {
		score += confSubcategoryWeight
	}
	if prefs.BudgetMax > 0 {
		score += confBudgetWeight
	}
	if len(prefs.DietaryPreferences) > 0 || len(prefs.StylePreferences) > 0 {
		score += confPreferencesWeight
	}
	if len(prefs.SpecificRequirements) > 0 {
		score += confRequirementsWeight
	}

	if score > 1.0 {
		score = 1.0
	}
	return score
}

// extractionPrompt builds the fixed extraction instruction for one query
func extractionPrompt(query string) string {
	return fmt.Sprintf(`Analyze this Indian shopping query and extract structured preferences in JSON format.

Query: %q

Extract:
1. Main category (food/fashion/both)
2. Subcategory (snacks, breakfast, ethnic, casual, etc.)
3. Dietary preferences (vegan, vegetarian, gluten-free, organic, etc.)
4. Style preferences (casual, ethnic, formal, trendy, traditional, etc.)
5. Budget (extract ₹ amounts)
6. Specific requirements (protein-rich, summer wear, cotton, etc.)
7. Occasion (breakfast, party, office, casual outing, etc.)
8. Brand preferences (if mentioned)
9. Size/fit preferences (if mentioned)
10. Color preferences (if mentioned)

Consider Indian context:
- Traditional vs modern preferences
- Seasonal requirements (summer/winter/monsoon)
- Regional preferences
- Festival/occasion wear

Return JSON:
{
    "category": "food" or "fashion" or "both",
    "subcategory": "specific subcategory",
    "dietary_preferences": ["vegan", "organic"],
    "style_preferences": ["casual", "trendy"],
    "budget_min": 0,
    "budget_max": 1000,
    "specific_requirements": ["protein-rich", "cotton"],
    "occasion": "breakfast",
    "brand_preferences": ["specific brands"],
    "size_preferences": {"size": "M", "fit": "regular"},
    "color_preferences": ["blue", "black"],
    "seasonal": "summer",
    "urgency": "normal",
    "quantity": 1
}`, query)
}

// containsAny reports whether s contains any of the given substrings
func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// parseAmount parses a digit string captured by the budget regexes
func parseAmount(digits string) float64 {
	var amount float64
	for _, c := range digits {
		amount = amount*10 + float64(c-'0')
	}
	return amount
}

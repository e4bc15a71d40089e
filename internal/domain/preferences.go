package domain

// ConfidenceScores pairs the two extraction confidence signals, each in [0,1].
type ConfidenceScores struct {
	LLMConfidence      float64 `json:"llm_confidence"`
	MatchingConfidence float64 `json:"matching_confidence"`
}

// KeywordMatch is a single taxonomy keyword that matched the query.
type KeywordMatch struct {
	Keyword     string  `json:"keyword"`
	Score       float64 `json:"score"`
	Subcategory string  `json:"subcategory"`
}

// CategoryMatches holds the match evidence for one taxonomy category:
// the best keyword score and the top matches sorted descending by score.
type CategoryMatches struct {
	MaxScore float64        `json:"score"`
	Matches  []KeywordMatch `json:"matches"`
}

// PreferenceSet is the structured interpretation of a free-text shopping
// query. Created fresh per query and never persisted by the engine; the
// field names mirror the JSON contract of the extraction prompt.
type PreferenceSet struct {
	Category             string                     `json:"category"` // food|fashion|both|""
	Subcategory          string                     `json:"subcategory"`
	DietaryPreferences   []string                   `json:"dietary_preferences"`
	StylePreferences     []string                   `json:"style_preferences"`
	BudgetMin            float64                    `json:"budget_min"`
	BudgetMax            float64                    `json:"budget_max"` // 0 means unconstrained
	SpecificRequirements []string                   `json:"specific_requirements"`
	Occasion             string                     `json:"occasion"`
	BrandPreferences     []string                   `json:"brand_preferences"`
	SizePreferences      map[string]string          `json:"size_preferences"`
	ColorPreferences     []string                   `json:"color_preferences"`
	Seasonal             string                     `json:"seasonal"`
	Urgency              string                     `json:"urgency"`
	Quantity             int                        `json:"quantity"`
	ExtractedKeywords    []string                   `json:"extracted_keywords"`
	SemanticMatches      map[string]CategoryMatches `json:"semantic_matches,omitempty"`
	ConfidenceScores     ConfidenceScores           `json:"confidence_scores"`
	OriginalQuery        string                     `json:"original_query"`
}

// StoredUserPreferences is the browse-time preference profile a user saves
// through the API. Stored for analytics; not fed back into ranking.
type StoredUserPreferences struct {
	UserID             string            `json:"user_id"`
	DietaryPreferences []string          `json:"dietary_preferences"`
	StylePreferences   []string          `json:"style_preferences"`
	BudgetRange        string            `json:"budget_range"`
	PreferredBrands    []string          `json:"preferred_brands"`
	SizeInfo           map[string]string `json:"size_info"`
	InteractionHistory []string          `json:"interaction_history"`
}

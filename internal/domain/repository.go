package domain

import "context"

// CatalogRepository defines the interface for product catalog persistence
type CatalogRepository interface {
	ListProducts(ctx context.Context, filter ProductFilter) ([]Product, error)
}

// UserPreferenceRepository defines the interface for stored user profiles
type UserPreferenceRepository interface {
	GetUserPreferences(ctx context.Context, userID string) (*StoredUserPreferences, error)
	SaveUserPreferences(ctx context.Context, prefs *StoredUserPreferences) error
}

// RecommendationLogger records ranking passes for analytics. Implementations
// must be safe to call fire-and-forget; failures never abort a response.
type RecommendationLogger interface {
	LogRecommendation(ctx context.Context, entry *RecommendationLog) error
}

// LLMClient defines the abstract completion capability the engine depends on:
// given a system and user prompt, return the completion text or fail. The
// engine wraps it with JSON extraction and a single-attempt timeout policy.
type LLMClient interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

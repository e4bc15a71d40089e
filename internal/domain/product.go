package domain

import "time"

// Product categories
const (
	CategoryFood    = "food"
	CategoryFashion = "fashion"
	CategoryBoth    = "both"
)

// Product represents a single catalog item. Immutable once loaded for a
// ranking pass; owned by the catalog store.
type Product struct {
	ID                int64     `json:"id"`
	Name              string    `json:"name"`
	Category          string    `json:"category"` // "food" or "fashion"
	Subcategory       string    `json:"subcategory"`
	Price             float64   `json:"price"`
	Brand             string    `json:"brand"`
	Description       string    `json:"description"`
	Tags              []string  `json:"tags"` // lowercase
	DietaryInfo       []string  `json:"dietaryInfo,omitempty"`
	SeasonalRelevance string    `json:"seasonalRelevance,omitempty"`
	ImageURL          string    `json:"imageUrl,omitempty"`
	Availability      bool      `json:"availability"`
	Rating            float64   `json:"rating"` // 0-5
	CreatedAt         time.Time `json:"createdAt,omitempty"`
}

// ProductFilter narrows a catalog listing. Zero values mean "no constraint".
type ProductFilter struct {
	Category string
	MaxPrice float64
	Tags     []string
}

// ScoredRecommendation is a product plus the match confidence (0-100) and the
// reasoning trail produced for one ranking pass.
type ScoredRecommendation struct {
	Product
	Confidence int    `json:"confidence"`
	Reasoning  string `json:"reasoning"`
}

// RecommendationLog is one analytics row written after a ranking pass.
type RecommendationLog struct {
	ID              string                 `json:"id"`
	Query           string                 `json:"query"`
	Preferences     *PreferenceSet         `json:"preferences"`
	Recommendations []ScoredRecommendation `json:"recommendations"`
	Confidences     []int                  `json:"confidences"`
	CreatedAt       time.Time              `json:"createdAt"`
}

package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/mitra/backend/internal/domain"
)

const responderSystemPrompt = "You are Mitra, a friendly AI shopping assistant specializing in Indian D2C brands. You provide personalized, culturally relevant recommendations with enthusiasm and expertise."

// Recommendations offered to the LLM as context for the reply
const responderContextSize = 5

// ResponderConfig holds configuration for the response generator
type ResponderConfig struct {
	LLMTimeout         time.Duration
	EnableDebugLogging bool
}

// Responder turns a ranked recommendation list into a conversational reply.
// The LLM path is best-effort; a deterministic formatted reply is used when
// the call fails, and an empty recommendation list gets a dedicated
// no-results message.
type Responder struct {
	llm     domain.LLMClient
	timeout time.Duration
	debug   bool
}

// NewResponder creates a new response generator
func NewResponder(llm domain.LLMClient, config ResponderConfig) *Responder {
	timeout := config.LLMTimeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}

	return &Responder{
		llm:     llm,
		timeout: timeout,
		debug:   config.EnableDebugLogging,
	}
}

// Respond generates the user-facing reply for one ranking pass
func (r *Responder) Respond(
	ctx context.Context,
	query string,
	recommendations []domain.ScoredRecommendation,
	prefs *domain.PreferenceSet,
) string {
	if len(recommendations) == 0 {
		return noResultsResponse(query)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	reply, err := r.llm.Complete(ctx, responderSystemPrompt, responsePrompt(query, recommendations, prefs))
	if err != nil {
		if r.debug {
			log.Printf("[RESPOND] LLM reply failed, using fallback: %v", err)
		}
		return fallbackResponse(recommendations)
	}

	return strings.TrimSpace(reply)
}

// responsePrompt builds the reply-generation prompt from the extracted
// preferences and the top recommendations
func responsePrompt(query string, recommendations []domain.ScoredRecommendation, prefs *domain.PreferenceSet) string {
	top := recommendations
	if len(top) > responderContextSize {
		top = top[:responderContextSize]
	}

	budget := "No limit"
	if prefs.BudgetMax > 0 {
		budget = formatAmount(prefs.BudgetMax)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are Mitra, an AI shopping assistant for Indian D2C brands. Create a personalized, helpful response.\n\n")
	fmt.Fprintf(&b, "User Query: %q\n\n", query)
	fmt.Fprintf(&b, "User Preferences Extracted:\n")
	fmt.Fprintf(&b, "- Category: %s\n", orDefault(prefs.Category, "Not specified"))
	fmt.Fprintf(&b, "- Subcategory: %s\n", orDefault(prefs.Subcategory, "Not specified"))
	fmt.Fprintf(&b, "- Budget: ₹%s-%s\n", formatAmount(prefs.BudgetMin), budget)
	fmt.Fprintf(&b, "- Dietary/Style Preferences: %s\n",
		strings.Join(append(append([]string{}, prefs.DietaryPreferences...), prefs.StylePreferences...), ", "))
	fmt.Fprintf(&b, "- Specific Requirements: %s\n", strings.Join(prefs.SpecificRequirements, ", "))
	fmt.Fprintf(&b, "- Occasion: %s\n\n", orDefault(prefs.Occasion, "Not specified"))
	fmt.Fprintf(&b, "Top Recommendations:\n%s\n", formatRecommendations(top))
	fmt.Fprintf(&b, "Create a response that:\n")
	fmt.Fprintf(&b, "1. Acknowledges the user's specific needs\n")
	fmt.Fprintf(&b, "2. Explains why these recommendations are perfect for them\n")
	fmt.Fprintf(&b, "3. Highlights key benefits of top 3 products\n")
	fmt.Fprintf(&b, "4. Provides helpful shopping tips\n")
	fmt.Fprintf(&b, "5. Maintains a friendly, enthusiastic tone\n")
	fmt.Fprintf(&b, "6. Uses Indian context and culturally relevant language\n")
	fmt.Fprintf(&b, "7. Includes emojis and formatting for better readability\n\n")
	fmt.Fprintf(&b, "Keep the response conversational, informative, and actionable.")

	return b.String()
}

// formatRecommendations renders recommendations for the reply prompt
func formatRecommendations(recommendations []domain.ScoredRecommendation) string {
	var b strings.Builder
	for i, rec := range recommendations {
		fmt.Fprintf(&b, "%d. %s - ₹%s (%d%% match)\n", i+1, rec.Name, formatAmount(rec.Price), rec.Confidence)
		fmt.Fprintf(&b, "   Brand: %s\n", rec.Brand)
		fmt.Fprintf(&b, "   Reasoning: %s\n", rec.Reasoning)
		fmt.Fprintf(&b, "   Rating: %s/5\n\n", formatAmount(rec.Rating))
	}
	return b.String()
}

// noResultsResponse is the dedicated message for an empty candidate set
func noResultsResponse(query string) string {
	return fmt.Sprintf(`I understand you're looking for %s, but I couldn't find exact matches in our current collection.

Here are some suggestions:
• Try adjusting your budget range
• Consider similar categories
• Check back later as we regularly add new products

Would you like me to suggest alternatives or help you refine your search? 🤔`, query)
}

// fallbackResponse is the deterministic reply used when the LLM call fails
func fallbackResponse(recommendations []domain.ScoredRecommendation) string {
	top := recommendations
	if len(top) > 3 {
		top = top[:3]
	}

	var b strings.Builder
	b.WriteString("Great! I found some excellent options for you:\n\n")
	for _, rec := range top {
		fmt.Fprintf(&b, "🌟 **%s** - ₹%s\n", rec.Name, formatAmount(rec.Price))
		fmt.Fprintf(&b, "✨ %d%% Match\n", rec.Confidence)
		fmt.Fprintf(&b, "💡 %s\n\n", rec.Reasoning)
	}
	return b.String()
}

// orDefault returns fallback when value is empty
func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

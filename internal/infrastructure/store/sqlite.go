// Package store persists the product catalog, saved user preference
// profiles, and the recommendation analytics log in SQLite, using the
// pure-Go modernc.org/sqlite driver.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mitra/backend/internal/domain"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements the catalog, user preference, and recommendation
// log repositories over a single SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// Open opens (creating if necessary) the database at path, applies the
// schema, and seeds the sample catalog when the products table is empty.
func Open(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// The sqlite driver serializes writes; a single connection avoids
	// SQLITE_BUSY under concurrent request logging
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, err
	}
	if err := s.seedSampleData(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the underlying database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) createTables() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS products (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			category TEXT NOT NULL,
			subcategory TEXT,
			price REAL NOT NULL,
			brand TEXT NOT NULL,
			description TEXT,
			tags TEXT,
			dietary_info TEXT,
			seasonal_relevance TEXT,
			image_url TEXT,
			availability BOOLEAN DEFAULT 1,
			rating REAL DEFAULT 0,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS user_preferences (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id TEXT NOT NULL UNIQUE,
			dietary_preferences TEXT,
			style_preferences TEXT,
			budget_range TEXT,
			preferred_brands TEXT,
			size_info TEXT,
			interaction_history TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS recommendations_log (
			id TEXT PRIMARY KEY,
			user_query TEXT NOT NULL,
			user_preferences TEXT,
			recommended_products TEXT,
			confidence_scores TEXT,
			timestamp TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("creating tables: %w", err)
		}
	}
	return nil
}

// ListProducts retrieves available products matching the filter. Tag
// filtering uses substring matching against the stored tag list; the engine
// never passes tags and relies on its own scoring instead.
func (s *SQLiteStore) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	query := `SELECT id, name, category, subcategory, price, brand, description,
		tags, dietary_info, seasonal_relevance, image_url, availability, rating, created_at
		FROM products WHERE availability = 1`
	var args []any

	if filter.Category != "" {
		query += " AND category = ?"
		args = append(args, filter.Category)
	}
	if filter.MaxPrice > 0 {
		query += " AND price <= ?"
		args = append(args, filter.MaxPrice)
	}
	for _, tag := range filter.Tags {
		query += " AND tags LIKE ?"
		args = append(args, "%"+tag+"%")
	}
	query += " ORDER BY id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreFailure, err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		var tags, dietary, subcategory, description, seasonal, imageURL sql.NullString
		var createdAt sql.NullTime

		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &subcategory, &p.Price, &p.Brand,
			&description, &tags, &dietary, &seasonal, &imageURL, &p.Availability, &p.Rating, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: scanning product: %v", domain.ErrStoreFailure, err)
		}

		p.Subcategory = subcategory.String
		p.Description = description.String
		p.SeasonalRelevance = seasonal.String
		p.ImageURL = imageURL.String
		p.Tags = splitList(tags.String)
		p.DietaryInfo = splitList(dietary.String)
		if createdAt.Valid {
			p.CreatedAt = createdAt.Time
		}
		products = append(products, p)
	}

	return products, rows.Err()
}

// GetUserPreferences returns the stored profile for a user, or
// domain.ErrUserNotFound when none exists
func (s *SQLiteStore) GetUserPreferences(ctx context.Context, userID string) (*domain.StoredUserPreferences, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT user_id, dietary_preferences, style_preferences, budget_range,
			preferred_brands, size_info, interaction_history
		FROM user_preferences WHERE user_id = ?`, userID)

	var prefs domain.StoredUserPreferences
	var dietary, style, brands, sizeInfo, history sql.NullString
	var budgetRange sql.NullString

	err := row.Scan(&prefs.UserID, &dietary, &style, &budgetRange, &brands, &sizeInfo, &history)
	if err == sql.ErrNoRows {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreFailure, err)
	}

	prefs.BudgetRange = budgetRange.String
	unmarshalJSON(dietary.String, &prefs.DietaryPreferences)
	unmarshalJSON(style.String, &prefs.StylePreferences)
	unmarshalJSON(brands.String, &prefs.PreferredBrands)
	unmarshalJSON(sizeInfo.String, &prefs.SizeInfo)
	unmarshalJSON(history.String, &prefs.InteractionHistory)

	return &prefs, nil
}

// SaveUserPreferences inserts or updates a user's stored profile
func (s *SQLiteStore) SaveUserPreferences(ctx context.Context, prefs *domain.StoredUserPreferences) error {
	if prefs == nil || prefs.UserID == "" {
		return domain.ErrInvalidRequest
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO user_preferences (user_id, dietary_preferences, style_preferences,
			budget_range, preferred_brands, size_info, interaction_history)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			dietary_preferences = excluded.dietary_preferences,
			style_preferences = excluded.style_preferences,
			budget_range = excluded.budget_range,
			preferred_brands = excluded.preferred_brands,
			size_info = excluded.size_info,
			interaction_history = excluded.interaction_history,
			updated_at = CURRENT_TIMESTAMP`,
		prefs.UserID,
		marshalJSON(prefs.DietaryPreferences),
		marshalJSON(prefs.StylePreferences),
		prefs.BudgetRange,
		marshalJSON(prefs.PreferredBrands),
		marshalJSON(prefs.SizeInfo),
		marshalJSON(prefs.InteractionHistory),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreFailure, err)
	}
	return nil
}

// LogRecommendation records one ranking pass for analytics
func (s *SQLiteStore) LogRecommendation(ctx context.Context, entry *domain.RecommendationLog) error {
	if entry == nil {
		return domain.ErrInvalidRequest
	}

	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO recommendations_log (id, user_query, user_preferences,
			recommended_products, confidence_scores, timestamp)
		VALUES (?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.Query,
		marshalJSON(entry.Preferences),
		marshalJSON(entry.Recommendations),
		marshalJSON(entry.Confidences),
		createdAt,
	)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreFailure, err)
	}
	return nil
}

// splitList splits a comma-separated stored list
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func marshalJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}

func unmarshalJSON[T any](s string, target *T) {
	if s == "" {
		return
	}
	// Stored by this process; a decode failure just leaves the zero value
	_ = json.Unmarshal([]byte(s), target)
}

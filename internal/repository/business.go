package repository

import (
	"context"

	"bizdocs/internal/model"
)

// BusinessRepository defines data access for registered businesses using SQL queries only.
// No business logic here — strictly persistence operations.
type BusinessRepository interface {
	// Create inserts a new business record and returns the stored row.
	// A unique-constraint violation (duplicate name, account ID, or API key)
	// is surfaced so callers can translate it; use postgres.IsUniqueViolation.
	Create(ctx context.Context, b *model.Business) (*model.Business, error)

	// FindByAPIKey returns the business holding the given API key.
	FindByAPIKey(ctx context.Context, apiKey string) (*model.Business, error)

	// FindByAccountID returns the business owning the given account ID.
	FindByAccountID(ctx context.Context, accountID string) (*model.Business, error)

	// List returns a paginated list of businesses and the total rows count.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.Business], error)
}

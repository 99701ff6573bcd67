package repository

import (
	"context"

	"bizdocs/internal/model"
)

// DocumentRepository defines data access for documents using SQL queries only.
// No business logic here — strictly persistence operations.
type DocumentRepository interface {
	// Create inserts a new document record.
	// The caller provides required fields (e.g., ID, CreatedAt) according to the schema defaults.
	// Returns the stored document (may include values set by the DB).
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)

	// FindByID returns a document by its ID.
	FindByID(ctx context.Context, id string) (*model.Document, error)

	// ListByAccount returns a paginated list of documents for the given account
	// plus the total rows count for that account.
	ListByAccount(ctx context.Context, accountID string, pq PageQuery) (*PageResult[model.Document], error)
}

package postgres

import (
	"context"
	"database/sql"

	"bizdocs/internal/model"
	"bizdocs/internal/repository"
)

// BusinessPostgres is a PostgreSQL implementation of repository.BusinessRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type BusinessPostgres struct {
	db *sql.DB
}

// NewBusinessPostgres creates a new BusinessPostgres repository.
func NewBusinessPostgres(db *sql.DB) *BusinessPostgres {
	return &BusinessPostgres{db: db}
}

var _ repository.BusinessRepository = (*BusinessPostgres)(nil)

// Create inserts a new business row and returns the stored record.
// Unique violations (name, account_id, api_key) propagate to the caller.
func (r *BusinessPostgres) Create(ctx context.Context, b *model.Business) (*model.Business, error) {
	const q = `
		INSERT INTO businesses (id, name, account_id, api_key, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, name, account_id, api_key, created_at
	`
	row := r.db.QueryRowContext(ctx, q,
		b.ID,
		b.Name,
		b.AccountID,
		b.APIKey,
		b.CreatedAt,
	)
	var out model.Business
	if err := row.Scan(
		&out.ID,
		&out.Name,
		&out.AccountID,
		&out.APIKey,
		&out.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &out, nil
}

// FindByAPIKey fetches the business holding the given API key.
func (r *BusinessPostgres) FindByAPIKey(ctx context.Context, apiKey string) (*model.Business, error) {
	const q = `
		SELECT id, name, account_id, api_key, created_at
		FROM businesses
		WHERE api_key = $1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, q, apiKey))
}

// FindByAccountID fetches the business owning the given account ID.
func (r *BusinessPostgres) FindByAccountID(ctx context.Context, accountID string) (*model.Business, error) {
	const q = `
		SELECT id, name, account_id, api_key, created_at
		FROM businesses
		WHERE account_id = $1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, q, accountID))
}

// List returns businesses using LIMIT/OFFSET pagination and a total count.
func (r *BusinessPostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Business], error) {
	const qCount = `SELECT COUNT(*) FROM businesses`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `
		SELECT id, name, account_id, api_key, created_at
		FROM businesses
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, qList, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Business, 0)
	for rows.Next() {
		var b model.Business
		if err := rows.Scan(
			&b.ID,
			&b.Name,
			&b.AccountID,
			&b.APIKey,
			&b.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Business]{
		Items: items,
		Total: total,
	}, nil
}

func (r *BusinessPostgres) scanOne(row *sql.Row) (*model.Business, error) {
	var b model.Business
	if err := row.Scan(
		&b.ID,
		&b.Name,
		&b.AccountID,
		&b.APIKey,
		&b.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &b, nil
}

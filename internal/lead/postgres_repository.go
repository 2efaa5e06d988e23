package lead

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the subset of pgxpool.Pool the repository needs.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores leads in the relational database.
//
// Schema:
//
//	CREATE TABLE leads (
//	    id          UUID PRIMARY KEY,
//	    business_id TEXT NOT NULL,
//	    session_id  TEXT NOT NULL DEFAULT '',
//	    link        TEXT NOT NULL,
//	    transcript  TEXT NOT NULL DEFAULT '',
//	    created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
//	);
//	CREATE INDEX leads_business_id_idx ON leads (business_id, created_at DESC);
type PostgresRepository struct {
	pool Querier
}

// NewPostgresRepository initializes a repo backed by pgx.
func NewPostgresRepository(pool Querier) *PostgresRepository {
	if pool == nil {
		panic("lead: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

// Create inserts a new row.
func (r *PostgresRepository) Create(ctx context.Context, req *CreateLeadRequest) (*Lead, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	id := uuid.New()
	query := `
		INSERT INTO leads (id, business_id, session_id, link, transcript)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`
	var createdAt time.Time
	if err := r.pool.QueryRow(ctx, query,
		id,
		req.BusinessID,
		req.SessionID,
		req.Link,
		req.Transcript,
	).Scan(&createdAt); err != nil {
		return nil, fmt.Errorf("lead: insert failed: %w", err)
	}

	return &Lead{
		ID:         id.String(),
		BusinessID: req.BusinessID,
		SessionID:  req.SessionID,
		Link:       req.Link,
		Transcript: req.Transcript,
		CreatedAt:  createdAt,
	}, nil
}

// ListByBusiness returns leads for a business, newest first.
func (r *PostgresRepository) ListByBusiness(ctx context.Context, businessID string) ([]*Lead, error) {
	query := `
		SELECT id, business_id, session_id, link, transcript, created_at
		FROM leads
		WHERE business_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, businessID)
	if err != nil {
		return nil, fmt.Errorf("lead: select failed: %w", err)
	}
	defer rows.Close()

	var out []*Lead
	for rows.Next() {
		var lead Lead
		if err := rows.Scan(
			&lead.ID,
			&lead.BusinessID,
			&lead.SessionID,
			&lead.Link,
			&lead.Transcript,
			&lead.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("lead: scan failed: %w", err)
		}
		out = append(out, &lead)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("lead: rows failed: %w", err)
	}
	return out, nil
}

package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"tollgate/internal/models"
)

// RevocationStore is the durable ledger backend. It satisfies
// ledger.Ledger and adds the listing used by the admin surface.
type RevocationStore interface {
	Revoke(ctx context.Context, userID string) error
	IsRevoked(ctx context.Context, userID string) (bool, error)
	ListRevocations(ctx context.Context, pagination models.PaginationParams) ([]models.RevocationRecord, int, error)
}

type PostgresRevocationStore struct {
	DB *pgxpool.Pool
}

func NewPostgresRevocationStore(db *pgxpool.Pool) *PostgresRevocationStore {
	return &PostgresRevocationStore{DB: db}
}

// Revoke marks userID revoked. ON CONFLICT DO NOTHING keeps the
// operation idempotent: revoking twice leaves the original revoked_at.
func (s *PostgresRevocationStore) Revoke(ctx context.Context, userID string) error {
	query := `
		INSERT INTO revocations (user_id, revoked_at)
		VALUES ($1, now())
		ON CONFLICT (user_id) DO NOTHING
	`
	if _, err := s.DB.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to revoke user: %w", err)
	}
	return nil
}

func (s *PostgresRevocationStore) IsRevoked(ctx context.Context, userID string) (bool, error) {
	var revoked bool
	query := `SELECT EXISTS(SELECT 1 FROM revocations WHERE user_id = $1)`
	if err := s.DB.QueryRow(ctx, query, userID).Scan(&revoked); err != nil {
		return false, fmt.Errorf("failed to check revocation: %w", err)
	}
	return revoked, nil
}

func (s *PostgresRevocationStore) ListRevocations(ctx context.Context, pagination models.PaginationParams) ([]models.RevocationRecord, int, error) {
	var totalCount int
	if err := s.DB.QueryRow(ctx, `SELECT count(*) FROM revocations`).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count revocations: %w", err)
	}

	limit := pagination.Limit
	if limit <= 0 {
		limit = 10
	}
	page := pagination.Page
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * limit

	query := `
		SELECT user_id, revoked_at
		FROM revocations
		ORDER BY revoked_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := s.DB.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list revocations: %w", err)
	}
	defer rows.Close()

	var records []models.RevocationRecord
	for rows.Next() {
		var r models.RevocationRecord
		if err := rows.Scan(&r.UserID, &r.RevokedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan revocation: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating revocations: %w", err)
	}

	return records, totalCount, nil
}

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"tollgate/internal/models"
)

type EventStore interface {
	CreateEventLog(ctx context.Context, entry *models.EventLog) error
	ListEventLogs(ctx context.Context, action string, pagination models.PaginationParams) ([]models.EventLog, int, error)
}

type PostgresEventStore struct {
	DB *pgxpool.Pool
}

func NewPostgresEventStore(db *pgxpool.Pool) *PostgresEventStore {
	return &PostgresEventStore{DB: db}
}

func (s *PostgresEventStore) CreateEventLog(ctx context.Context, entry *models.EventLog) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO event_logs (id, action, user_id, ip_address, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.DB.Exec(ctx, query,
		entry.ID,
		entry.Action,
		entry.UserID,
		entry.IPAddress,
		entry.Details,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create event log: %w", err)
	}
	return nil
}

func (s *PostgresEventStore) ListEventLogs(ctx context.Context, action string, pagination models.PaginationParams) ([]models.EventLog, int, error) {
	countQuery := `SELECT count(*) FROM event_logs`
	countArgs := []interface{}{}
	if action != "" {
		countQuery += " WHERE action = $1"
		countArgs = append(countArgs, action)
	}

	var totalCount int
	if err := s.DB.QueryRow(ctx, countQuery, countArgs...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count event logs: %w", err)
	}

	query := `
		SELECT id, action, user_id, ip_address, details, created_at
		FROM event_logs
	`
	args := []interface{}{}
	if action != "" {
		query += " WHERE action = $1"
		args = append(args, action)
	}
	query += " ORDER BY created_at DESC"

	limit := pagination.Limit
	if limit <= 0 {
		limit = 10
	}
	page := pagination.Page
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * limit

	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list event logs: %w", err)
	}
	defer rows.Close()

	var entries []models.EventLog
	for rows.Next() {
		var e models.EventLog
		if err := rows.Scan(&e.ID, &e.Action, &e.UserID, &e.IPAddress, &e.Details, &e.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan event log: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating event logs: %w", err)
	}

	return entries, totalCount, nil
}

package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"reviewalyze/internal/domain"
	"reviewalyze/internal/ports"
)

// PostgresRepository persists keyword summaries per run for history queries.
type PostgresRepository struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.SummaryRepository = (*PostgresRepository)(nil)

// NewPostgresRepository wires a sql.DB implementation.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// SaveSummary inserts one row per keyword summary. A nil db or an empty
// summary is a no-op.
func (r *PostgresRepository) SaveSummary(ctx context.Context, appName string, rows []domain.SummaryRow) error {
	if r.db == nil || len(rows) == 0 {
		return nil
	}

	insert := r.builder.Insert("keyword_summaries").Columns(
		"app_name", "keyword_group", "keyword",
		"total_reviews", "avg_sentiment",
		"positive_count", "negative_count", "neutral_count",
		"sentiment_label",
	)
	for _, row := range rows {
		insert = insert.Values(
			appName, row.Group, row.Keyword,
			row.TotalReviews, row.AvgSentiment,
			row.PositiveCount, row.NegativeCount, row.NeutralCount,
			row.Label,
		)
	}

	query, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert summaries: %w", err)
	}

	return nil
}

// RecentSummaries returns the latest stored rows for the given apps, newest
// first. An empty appNames slice means all apps.
func (r *PostgresRepository) RecentSummaries(ctx context.Context, appNames []string, limit int) ([]domain.SummaryRow, error) {
	if r.db == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 100
	}

	query := r.builder.Select(
		"app_name", "keyword_group", "keyword",
		"total_reviews", "avg_sentiment",
		"positive_count", "negative_count", "neutral_count",
		"sentiment_label",
	).From("keyword_summaries").
		OrderBy("created_at DESC").
		Limit(uint64(limit))
	if len(appNames) > 0 {
		query = query.Where("app_name = ANY(?)", pq.Array(appNames))
	}

	sqlText, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, sqlText, args...)
	if err != nil {
		return nil, fmt.Errorf("query summaries: %w", err)
	}
	defer rows.Close()

	var result []domain.SummaryRow
	for rows.Next() {
		var row domain.SummaryRow
		if err := rows.Scan(
			&row.AppName, &row.Group, &row.Keyword,
			&row.TotalReviews, &row.AvgSentiment,
			&row.PositiveCount, &row.NegativeCount, &row.NeutralCount,
			&row.Label,
		); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return result, nil
}

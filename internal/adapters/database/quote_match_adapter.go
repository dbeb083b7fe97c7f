package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/haulmatch/freightquote-backend/internal/domain/entities"
	"github.com/haulmatch/freightquote-backend/internal/domain/repositories"
	"github.com/haulmatch/freightquote-backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/haulmatch/freightquote-backend/pkg/errors"
)

// QuoteMatchAdapter implements quote match persistence in Postgres.
type QuoteMatchAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewQuoteMatchAdapter creates a new quote match adapter
func NewQuoteMatchAdapter(client *postgres.Client) repositories.QuoteMatchRepository {
	return &QuoteMatchAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// UpsertBatch writes the matches of one run inside a transaction. The
// conflict target (source_quote_id, matched_quote_id, match_algorithm_version)
// keeps re-runs of the same version idempotent: the row id and created_at of
// the first run survive, scores and criteria are refreshed.
func (a *QuoteMatchAdapter) UpsertBatch(ctx context.Context, matches []*entities.QuoteMatch) error {
	if len(matches) == 0 {
		return nil
	}

	tx, err := a.client.BeginTx(ctx)
	if err != nil {
		return apperrors.NewInternalError("failed to begin match transaction", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO quote_matches (
			id, source_quote_id, matched_quote_id, similarity_score,
			match_criteria, suggested_price, price_confidence,
			match_algorithm_version, created_at
		) VALUES ($1, $2, $3, $4, $5::jsonb, $6, $7, $8, $9)
		ON CONFLICT (source_quote_id, matched_quote_id, match_algorithm_version)
		DO UPDATE SET
			similarity_score = EXCLUDED.similarity_score,
			match_criteria = EXCLUDED.match_criteria,
			suggested_price = EXCLUDED.suggested_price,
			price_confidence = EXCLUDED.price_confidence
		RETURNING id, created_at
	`

	now := time.Now().UTC()
	for _, m := range matches {
		if m.SourceQuoteID == m.MatchedQuoteID {
			return apperrors.NewValidationError("a quote cannot match itself")
		}

		criteria, err := json.Marshal(m.MatchCriteria)
		if err != nil {
			return apperrors.NewInternalError("failed to encode match criteria", err)
		}

		err = tx.QueryRowContext(ctx, query,
			m.ID,
			m.SourceQuoteID,
			m.MatchedQuoteID,
			m.SimilarityScore,
			criteria,
			m.SuggestedPrice,
			m.PriceConfidence,
			m.MatchAlgorithmVersion,
			now,
		).Scan(&m.ID, &m.CreatedAt)
		if err != nil {
			return apperrors.NewInternalError("failed to upsert quote match", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return apperrors.NewInternalError("failed to commit match transaction", err)
	}

	return nil
}

// GetByID retrieves a match by ID
func (a *QuoteMatchAdapter) GetByID(ctx context.Context, id string) (*entities.QuoteMatch, error) {
	query := `
		SELECT id, source_quote_id, matched_quote_id, similarity_score,
			match_criteria, suggested_price, price_confidence,
			match_algorithm_version, created_at
		FROM quote_matches
		WHERE id = $1
	`

	match, err := scanMatch(a.client.DB().QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("match with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get match", err)
	}

	return match, nil
}

// ListBySource retrieves all matches for a source quote, newest algorithm
// version first, then strongest first.
func (a *QuoteMatchAdapter) ListBySource(ctx context.Context, sourceQuoteID string) ([]*entities.QuoteMatch, error) {
	query := `
		SELECT id, source_quote_id, matched_quote_id, similarity_score,
			match_criteria, suggested_price, price_confidence,
			match_algorithm_version, created_at
		FROM quote_matches
		WHERE source_quote_id = $1
		ORDER BY match_algorithm_version DESC, similarity_score DESC, matched_quote_id ASC
	`
	return a.queryMatches(ctx, query, sourceQuoteID)
}

// ListBySourceAndVersion retrieves the matches of one run, strongest first
func (a *QuoteMatchAdapter) ListBySourceAndVersion(ctx context.Context, sourceQuoteID, algorithmVersion string) ([]*entities.QuoteMatch, error) {
	query := `
		SELECT id, source_quote_id, matched_quote_id, similarity_score,
			match_criteria, suggested_price, price_confidence,
			match_algorithm_version, created_at
		FROM quote_matches
		WHERE source_quote_id = $1 AND match_algorithm_version = $2
		ORDER BY similarity_score DESC, matched_quote_id ASC
	`
	return a.queryMatches(ctx, query, sourceQuoteID, algorithmVersion)
}

func (a *QuoteMatchAdapter) queryMatches(ctx context.Context, query string, args ...interface{}) ([]*entities.QuoteMatch, error) {
	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query matches", err)
	}
	defer rows.Close()

	matches := []*entities.QuoteMatch{}
	for rows.Next() {
		match, err := scanMatch(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan match", err)
		}
		matches = append(matches, match)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate matches", err)
	}

	return matches, nil
}

func scanMatch(row rowScanner) (*entities.QuoteMatch, error) {
	match := &entities.QuoteMatch{}
	var criteria []byte
	err := row.Scan(
		&match.ID,
		&match.SourceQuoteID,
		&match.MatchedQuoteID,
		&match.SimilarityScore,
		&criteria,
		&match.SuggestedPrice,
		&match.PriceConfidence,
		&match.MatchAlgorithmVersion,
		&match.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(criteria) > 0 {
		if err := json.Unmarshal(criteria, &match.MatchCriteria); err != nil {
			return nil, err
		}
	}
	return match, nil
}

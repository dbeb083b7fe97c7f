package database

import (
	"context"

	"github.com/doug-martin/goqu/v9"
	"github.com/haulmatch/freightquote-backend/internal/domain/entities"
	"github.com/haulmatch/freightquote-backend/internal/domain/repositories"
	"github.com/haulmatch/freightquote-backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/haulmatch/freightquote-backend/pkg/errors"
)

// FeedbackAdapter implements match feedback persistence in Postgres.
type FeedbackAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewFeedbackAdapter creates a new feedback adapter.
func NewFeedbackAdapter(client *postgres.Client) repositories.FeedbackRepository {
	return &FeedbackAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Upsert inserts or updates the row keyed by (match_id, user_id) in a single
// statement. The conflict clause is what makes concurrent submissions safe:
// Postgres serializes the two writes on the unique index, the later one
// wins, and no duplicate row can appear. created_at and the row id survive
// from the first submission; everything else is refreshed.
func (a *FeedbackAdapter) Upsert(ctx context.Context, feedback *entities.MatchFeedback) (*entities.MatchFeedback, error) {
	if feedback == nil {
		return nil, apperrors.NewValidationError("feedback is nil")
	}

	query := `
		INSERT INTO match_feedback (
			id, match_id, user_id, rating, reason, notes,
			actual_price_used, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (match_id, user_id)
		DO UPDATE SET
			rating = EXCLUDED.rating,
			reason = EXCLUDED.reason,
			notes = EXCLUDED.notes,
			actual_price_used = EXCLUDED.actual_price_used,
			updated_at = EXCLUDED.updated_at
		RETURNING id, match_id, user_id, rating, reason, notes,
			actual_price_used, created_at, updated_at
	`

	stored := &entities.MatchFeedback{}
	err := a.client.DB().QueryRowContext(ctx, query,
		feedback.ID,
		feedback.MatchID,
		feedback.UserID,
		feedback.Rating,
		feedback.Reason,
		feedback.Notes,
		feedback.ActualPriceUsed,
		feedback.CreatedAt,
		feedback.UpdatedAt,
	).Scan(
		&stored.ID,
		&stored.MatchID,
		&stored.UserID,
		&stored.Rating,
		&stored.Reason,
		&stored.Notes,
		&stored.ActualPriceUsed,
		&stored.CreatedAt,
		&stored.UpdatedAt,
	)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to upsert feedback", err)
	}

	return stored, nil
}

// ListByMatch returns all feedback for a match, most recently updated first.
func (a *FeedbackAdapter) ListByMatch(ctx context.Context, matchID string) ([]*entities.MatchFeedback, error) {
	query, args, err := a.db.From("match_feedback").
		Select("id", "match_id", "user_id", "rating", "reason", "notes",
			"actual_price_used", "created_at", "updated_at").
		Where(goqu.C("match_id").Eq(matchID)).
		Order(goqu.C("updated_at").Desc(), goqu.C("user_id").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build feedback list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query feedback", err)
	}
	defer rows.Close()

	feedback := []*entities.MatchFeedback{}
	for rows.Next() {
		f := &entities.MatchFeedback{}
		err := rows.Scan(
			&f.ID,
			&f.MatchID,
			&f.UserID,
			&f.Rating,
			&f.Reason,
			&f.Notes,
			&f.ActualPriceUsed,
			&f.CreatedAt,
			&f.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan feedback", err)
		}
		feedback = append(feedback, f)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate feedback", err)
	}

	return feedback, nil
}

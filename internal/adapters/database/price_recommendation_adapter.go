package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/haulmatch/freightquote-backend/internal/domain/entities"
	"github.com/haulmatch/freightquote-backend/internal/domain/repositories"
	"github.com/haulmatch/freightquote-backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/haulmatch/freightquote-backend/pkg/errors"
)

// PriceRecommendationAdapter implements recommendation persistence in Postgres.
type PriceRecommendationAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewPriceRecommendationAdapter creates a new price recommendation adapter
func NewPriceRecommendationAdapter(client *postgres.Client) repositories.PriceRecommendationRepository {
	return &PriceRecommendationAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Upsert writes the recommendation for (quote, algorithm version). A re-run
// of the same version replaces its previous output; other versions' rows are
// untouched.
func (a *PriceRecommendationAdapter) Upsert(ctx context.Context, rec *entities.PriceRecommendation) error {
	if rec == nil {
		return apperrors.NewValidationError("recommendation is nil")
	}

	query := `
		INSERT INTO price_recommendations (
			id, quote_id, algorithm_version, recommended_price,
			floor_price, target_price, ceiling_price,
			confidence, confidence_label, reasoning, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (quote_id, algorithm_version)
		DO UPDATE SET
			recommended_price = EXCLUDED.recommended_price,
			floor_price = EXCLUDED.floor_price,
			target_price = EXCLUDED.target_price,
			ceiling_price = EXCLUDED.ceiling_price,
			confidence = EXCLUDED.confidence,
			confidence_label = EXCLUDED.confidence_label,
			reasoning = EXCLUDED.reasoning,
			created_at = EXCLUDED.created_at
	`

	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	_, err := a.client.DB().ExecContext(ctx, query,
		rec.ID,
		rec.QuoteID,
		rec.AlgorithmVersion,
		rec.RecommendedPrice,
		rec.FloorPrice,
		rec.TargetPrice,
		rec.CeilingPrice,
		rec.Confidence,
		string(rec.ConfidenceLabel),
		rec.Reasoning,
		rec.CreatedAt,
	)
	if err != nil {
		return apperrors.NewInternalError("failed to upsert price recommendation", err)
	}

	return nil
}

// GetLatest retrieves the most recent recommendation for a quote across
// algorithm versions.
func (a *PriceRecommendationAdapter) GetLatest(ctx context.Context, quoteID string) (*entities.PriceRecommendation, error) {
	query := `
		SELECT id, quote_id, algorithm_version, recommended_price,
			floor_price, target_price, ceiling_price,
			confidence, confidence_label, reasoning, created_at
		FROM price_recommendations
		WHERE quote_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	rec := &entities.PriceRecommendation{}
	var label string
	err := a.client.DB().QueryRowContext(ctx, query, quoteID).Scan(
		&rec.ID,
		&rec.QuoteID,
		&rec.AlgorithmVersion,
		&rec.RecommendedPrice,
		&rec.FloorPrice,
		&rec.TargetPrice,
		&rec.CeilingPrice,
		&rec.Confidence,
		&label,
		&rec.Reasoning,
		&rec.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("no recommendation available for quote %s", quoteID))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get price recommendation", err)
	}
	rec.ConfidenceLabel = entities.ConfidenceLabel(label)

	return rec, nil
}

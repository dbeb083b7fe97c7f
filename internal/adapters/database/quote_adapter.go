package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/haulmatch/freightquote-backend/internal/domain/entities"
	"github.com/haulmatch/freightquote-backend/internal/domain/repositories"
	"github.com/haulmatch/freightquote-backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/haulmatch/freightquote-backend/pkg/errors"
)

const quoteColumns = `
	id, reference, customer_email, source_message_id,
	origin_city, origin_state, origin_country, origin_latitude, origin_longitude,
	destination_city, destination_state, destination_country, destination_latitude, destination_longitude,
	cargo_description, weight_kg, length_cm, width_cm, height_cm, unit_of_measure,
	piece_count, service_type, hazmat, status, initial_price, final_price,
	created_at, updated_at`

// QuoteAdapter implements the QuoteRepository interface
type QuoteAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewQuoteAdapter creates a new quote adapter
func NewQuoteAdapter(client *postgres.Client) repositories.QuoteRepository {
	return &QuoteAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create creates a new quote
func (a *QuoteAdapter) Create(ctx context.Context, quote *entities.Quote) error {
	record := goqu.Record{
		"id":                    quote.ID,
		"reference":             quote.Reference,
		"customer_email":        quote.CustomerEmail,
		"source_message_id":     quote.SourceMessageID,
		"origin_city":           quote.Origin.City,
		"origin_state":          quote.Origin.State,
		"origin_country":        quote.Origin.Country,
		"origin_latitude":       quote.Origin.Latitude,
		"origin_longitude":      quote.Origin.Longitude,
		"destination_city":      quote.Destination.City,
		"destination_state":     quote.Destination.State,
		"destination_country":   quote.Destination.Country,
		"destination_latitude":  quote.Destination.Latitude,
		"destination_longitude": quote.Destination.Longitude,
		"cargo_description":     quote.CargoDesc,
		"weight_kg":             quote.WeightKg,
		"length_cm":             quote.LengthCm,
		"width_cm":              quote.WidthCm,
		"height_cm":             quote.HeightCm,
		"unit_of_measure":       quote.UnitOfMeasure,
		"piece_count":           quote.PieceCount,
		"service_type":          quote.ServiceType,
		"hazmat":                quote.Hazmat,
		"status":                string(quote.Status),
		"initial_price":         quote.InitialPrice,
		"final_price":           quote.FinalPrice,
		"created_at":            quote.CreatedAt,
		"updated_at":            quote.UpdatedAt,
	}

	query, args, err := a.db.Insert("quotes").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build quote insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create quote", err)
	}

	return nil
}

// GetByID retrieves a quote by ID
func (a *QuoteAdapter) GetByID(ctx context.Context, id string) (*entities.Quote, error) {
	query := `SELECT` + quoteColumns + ` FROM quotes WHERE id = $1`

	quote, err := scanQuote(a.client.DB().QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("quote with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get quote", err)
	}

	return quote, nil
}

// GetByIDs retrieves multiple quotes by their IDs
func (a *QuoteAdapter) GetByIDs(ctx context.Context, ids []string) ([]*entities.Quote, error) {
	if len(ids) == 0 {
		return []*entities.Quote{}, nil
	}

	query, args, err := a.db.From("quotes").
		Select(goqu.L(quoteColumns)).
		Where(goqu.C("id").In(ids)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build quote lookup query", err)
	}

	return a.queryQuotes(ctx, query, args...)
}

// List retrieves quotes with filters
func (a *QuoteAdapter) List(ctx context.Context, filter repositories.QuoteFilter) ([]*entities.Quote, error) {
	ds := a.db.From("quotes").Select(goqu.L(quoteColumns))

	if filter.Status != "" {
		ds = ds.Where(goqu.C("status").Eq(filter.Status))
	}
	if filter.ServiceType != "" {
		ds = ds.Where(goqu.C("service_type").Eq(filter.ServiceType))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	ds = ds.Order(goqu.C("created_at").Desc()).Limit(uint(limit)).Offset(uint(filter.Offset))

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build quote list query", err)
	}

	return a.queryQuotes(ctx, query, args...)
}

// ListCandidates retrieves the candidate pool for a matching run: prior
// quotes excluding the target, newest first.
func (a *QuoteAdapter) ListCandidates(ctx context.Context, excludeID string, filter repositories.CandidateFilter) ([]*entities.Quote, error) {
	ds := a.db.From("quotes").
		Select(goqu.L(quoteColumns)).
		Where(goqu.C("id").Neq(excludeID))

	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		ds = ds.Where(goqu.C("status").In(statuses))
	} else {
		// Candidates are only useful if they ever carried a price.
		ds = ds.Where(goqu.Or(
			goqu.C("initial_price").IsNotNull(),
			goqu.C("final_price").IsNotNull(),
		))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 500
	}
	ds = ds.Order(goqu.C("created_at").Desc()).Limit(uint(limit))

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build candidate query", err)
	}

	return a.queryQuotes(ctx, query, args...)
}

func (a *QuoteAdapter) queryQuotes(ctx context.Context, query string, args ...interface{}) ([]*entities.Quote, error) {
	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query quotes", err)
	}
	defer rows.Close()

	quotes := []*entities.Quote{}
	for rows.Next() {
		quote, err := scanQuote(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan quote", err)
		}
		quotes = append(quotes, quote)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate quotes", err)
	}

	return quotes, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanQuote(row rowScanner) (*entities.Quote, error) {
	quote := &entities.Quote{}
	var status string
	err := row.Scan(
		&quote.ID,
		&quote.Reference,
		&quote.CustomerEmail,
		&quote.SourceMessageID,
		&quote.Origin.City,
		&quote.Origin.State,
		&quote.Origin.Country,
		&quote.Origin.Latitude,
		&quote.Origin.Longitude,
		&quote.Destination.City,
		&quote.Destination.State,
		&quote.Destination.Country,
		&quote.Destination.Latitude,
		&quote.Destination.Longitude,
		&quote.CargoDesc,
		&quote.WeightKg,
		&quote.LengthCm,
		&quote.WidthCm,
		&quote.HeightCm,
		&quote.UnitOfMeasure,
		&quote.PieceCount,
		&quote.ServiceType,
		&quote.Hazmat,
		&status,
		&quote.InitialPrice,
		&quote.FinalPrice,
		&quote.CreatedAt,
		&quote.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	quote.Status = entities.QuoteStatus(status)
	return quote, nil
}

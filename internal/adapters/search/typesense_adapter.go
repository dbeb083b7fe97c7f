package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"
	"github.com/haulmatch/freightquote-backend/internal/domain/entities"
	"github.com/haulmatch/freightquote-backend/internal/domain/repositories"
	tsclient "github.com/haulmatch/freightquote-backend/internal/infrastructure/clients/typesense"
)

const collectionName = "quotes"

// TypesenseAdapter implements the quote search index using Typesense. The
// index serves lane-filtered candidate prefiltering and operational search;
// scoring always re-reads full quotes from Postgres.
type TypesenseAdapter struct {
	client *tsclient.Client
}

// Ensure TypesenseAdapter implements QuoteSearchRepository
var _ repositories.QuoteSearchRepository = (*TypesenseAdapter)(nil)

// NewTypesenseAdapter creates a new Typesense adapter
func NewTypesenseAdapter(client *tsclient.Client) *TypesenseAdapter {
	return &TypesenseAdapter{client: client}
}

// InitSchema ensures the collection exists
func (a *TypesenseAdapter) InitSchema(ctx context.Context) error {
	// Check if collection exists
	_, err := a.client.Client().Collection(collectionName).Retrieve(ctx)
	if err == nil {
		return nil // Collection exists
	}

	schema := &api.CollectionSchema{
		Name: collectionName,
		Fields: []api.Field{
			{Name: "id", Type: "string"},
			{Name: "reference", Type: "string"},
			{Name: "origin_country", Type: "string", Facet: pointer.True()},
			{Name: "destination_country", Type: "string", Facet: pointer.True()},
			{Name: "origin_city", Type: "string"},
			{Name: "destination_city", Type: "string"},
			{Name: "service_type", Type: "string", Facet: pointer.True()},
			{Name: "status", Type: "string", Facet: pointer.True()},
			{Name: "cargo_description", Type: "string"},
			{Name: "created_at", Type: "int64"},
		},
		DefaultSortingField: pointer.String("created_at"),
	}

	_, err = a.client.Client().Collections().Create(ctx, schema)
	if err != nil {
		return fmt.Errorf("failed to create typesense collection: %w", err)
	}

	return nil
}

// Index indexes a quote
func (a *TypesenseAdapter) Index(ctx context.Context, quote *entities.Quote) error {
	document := map[string]interface{}{
		"id":                  quote.ID,
		"reference":           quote.Reference,
		"origin_country":      strings.ToLower(quote.Origin.Country),
		"destination_country": strings.ToLower(quote.Destination.Country),
		"origin_city":         strings.ToLower(quote.Origin.City),
		"destination_city":    strings.ToLower(quote.Destination.City),
		"service_type":        quote.ServiceType,
		"status":              string(quote.Status),
		"cargo_description":   quote.CargoDesc,
		"created_at":          quote.CreatedAt.Unix(),
	}

	_, err := a.client.Client().Collection(collectionName).Documents().Upsert(ctx, document)
	if err != nil {
		return fmt.Errorf("failed to index quote: %w", err)
	}

	return nil
}

// Delete removes a quote from index
func (a *TypesenseAdapter) Delete(ctx context.Context, id string) error {
	_, err := a.client.Client().Collection(collectionName).Document(id).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete quote from index: %w", err)
	}
	return nil
}

// laneFilter builds the filter_by expression for a lane search. Lane
// searches may be one-sided; an empty parameter must not become an
// empty-valued filter clause.
func laneFilter(params repositories.LaneSearchParams) string {
	filters := []string{}
	if params.OriginCountry != "" {
		filters = append(filters, fmt.Sprintf("origin_country:=%s", strings.ToLower(params.OriginCountry)))
	}
	if params.DestinationCountry != "" {
		filters = append(filters, fmt.Sprintf("destination_country:=%s", strings.ToLower(params.DestinationCountry)))
	}
	if params.ServiceType != "" {
		filters = append(filters, fmt.Sprintf("service_type:=%s", params.ServiceType))
	}
	return strings.Join(filters, " && ")
}

// SearchLane returns quote IDs on an origin/destination country lane,
// optionally narrowed to a service type
func (a *TypesenseAdapter) SearchLane(ctx context.Context, params repositories.LaneSearchParams) ([]string, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 100
	}

	searchParams := &api.SearchCollectionParams{
		Q:        pointer.String("*"),
		QueryBy:  pointer.String("reference"),
		FilterBy: pointer.String(laneFilter(params)),
		SortBy:   pointer.String("created_at:desc"),
		PerPage:  pointer.Int(limit),
	}

	result, err := a.client.Client().Collection(collectionName).Documents().Search(ctx, searchParams)
	if err != nil {
		return nil, fmt.Errorf("failed to search quotes: %w", err)
	}

	ids := []string{}
	if result.Hits == nil {
		return ids, nil
	}
	for _, hit := range *result.Hits {
		if hit.Document == nil {
			continue
		}
		doc := *hit.Document
		if id, ok := doc["id"].(string); ok {
			ids = append(ids, id)
		}
	}

	return ids, nil
}

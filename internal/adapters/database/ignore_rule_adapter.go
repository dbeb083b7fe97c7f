package database

import (
	"context"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/haulmatch/freightquote-backend/internal/domain/entities"
	"github.com/haulmatch/freightquote-backend/internal/domain/repositories"
	"github.com/haulmatch/freightquote-backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/haulmatch/freightquote-backend/pkg/errors"
)

// IgnoreRuleAdapter implements ignore rule persistence in Postgres.
type IgnoreRuleAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewIgnoreRuleAdapter creates a new ignore rule adapter
func NewIgnoreRuleAdapter(client *postgres.Client) repositories.IgnoreRuleRepository {
	return &IgnoreRuleAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create creates a new ignore rule
func (a *IgnoreRuleAdapter) Create(ctx context.Context, rule *entities.IgnoreRule) error {
	query, args, err := a.db.Insert("ignore_rules").Rows(goqu.Record{
		"id":         rule.ID,
		"kind":       string(rule.Kind),
		"value":      rule.Value,
		"created_at": rule.CreatedAt,
	}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build ignore rule insert", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create ignore rule", err)
	}

	return nil
}

// Delete deletes an ignore rule
func (a *IgnoreRuleAdapter) Delete(ctx context.Context, id string) error {
	query, args, err := a.db.Delete("ignore_rules").Where(goqu.C("id").Eq(id)).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build ignore rule delete", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to delete ignore rule", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if affected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("ignore rule with id %s not found", id))
	}

	return nil
}

// ListAll retrieves every ignore rule
func (a *IgnoreRuleAdapter) ListAll(ctx context.Context) ([]*entities.IgnoreRule, error) {
	query, args, err := a.db.From("ignore_rules").
		Select("id", "kind", "value", "created_at").
		Order(goqu.C("created_at").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build ignore rule list", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query ignore rules", err)
	}
	defer rows.Close()

	rules := []*entities.IgnoreRule{}
	for rows.Next() {
		rule := &entities.IgnoreRule{}
		var kind string
		if err := rows.Scan(&rule.ID, &kind, &rule.Value, &rule.CreatedAt); err != nil {
			return nil, apperrors.NewInternalError("failed to scan ignore rule", err)
		}
		rule.Kind = entities.IgnoreRuleKind(kind)
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate ignore rules", err)
	}

	return rules, nil
}

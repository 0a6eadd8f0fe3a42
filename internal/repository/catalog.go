package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/ecosort/kiosk-server-go/internal/model"
)

// WasteTypeRepository reads the points catalog (waste_types table).
type WasteTypeRepository interface {
	FindByName(ctx context.Context, name string) (*model.WasteType, error)
	List(ctx context.Context) ([]model.WasteType, error)
	Seed(ctx context.Context, entries []model.WasteType) error
}

type wasteTypeRepo struct {
	db *sqlx.DB
}

func NewWasteTypeRepository(db *sqlx.DB) WasteTypeRepository {
	return &wasteTypeRepo{db: db}
}

func (r *wasteTypeRepo) FindByName(ctx context.Context, name string) (*model.WasteType, error) {
	var wt model.WasteType
	err := r.db.GetContext(ctx, &wt, `
		SELECT name, points, category FROM waste_types
		WHERE name = $1
	`, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &wt, nil
}

func (r *wasteTypeRepo) List(ctx context.Context) ([]model.WasteType, error) {
	var types []model.WasteType
	err := r.db.SelectContext(ctx, &types, `
		SELECT name, points, category FROM waste_types
		ORDER BY points DESC
	`)
	return types, err
}

// Seed upserts the default catalog entries. Run at startup so a fresh
// database serves the same catalog as the built-in fallback.
func (r *wasteTypeRepo) Seed(ctx context.Context, entries []model.WasteType) error {
	for _, wt := range entries {
		_, err := r.db.ExecContext(ctx, `
			INSERT INTO waste_types (name, points, category)
			VALUES ($1, $2, $3)
			ON CONFLICT (name) DO NOTHING
		`, wt.Name, wt.Points, wt.Category)
		if err != nil {
			return err
		}
	}
	return nil
}

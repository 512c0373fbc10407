package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CreateIngredient inserts a new catalog entry. The UNIQUE constraint on
// normalized_name is the authority for deduplication under concurrency: a
// conflicting insert returns *ErrDuplicateIngredient and callers re-fetch the
// existing row instead.
func (db *DB) CreateIngredient(ctx context.Context, name, normalizedName string) (*Ingredient, error) {
	var ing Ingredient
	err := db.pool.QueryRow(ctx,
		`INSERT INTO ingredients (name, normalized_name)
		 VALUES ($1, $2)
		 RETURNING id, name, normalized_name, created_at`,
		name, normalizedName,
	).Scan(&ing.ID, &ing.Name, &ing.NormalizedName, &ing.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, &ErrDuplicateIngredient{NormalizedName: normalizedName}
		}
		return nil, fmt.Errorf("failed to create ingredient: %w", err)
	}
	return &ing, nil
}

// GetIngredientByID retrieves a catalog entry by ID
func (db *DB) GetIngredientByID(ctx context.Context, id uuid.UUID) (*Ingredient, error) {
	var ing Ingredient
	err := db.pool.QueryRow(ctx,
		`SELECT id, name, normalized_name, created_at FROM ingredients WHERE id = $1`,
		id,
	).Scan(&ing.ID, &ing.Name, &ing.NormalizedName, &ing.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, &ErrIngredientNotFound{ID: id}
		}
		return nil, fmt.Errorf("failed to get ingredient: %w", err)
	}
	return &ing, nil
}

// GetIngredientByNormalizedName retrieves a catalog entry by its dedup key.
// Returns nil, nil when no entry exists; this is the resolver's cheap path.
func (db *DB) GetIngredientByNormalizedName(ctx context.Context, normalizedName string) (*Ingredient, error) {
	var ing Ingredient
	err := db.pool.QueryRow(ctx,
		`SELECT id, name, normalized_name, created_at FROM ingredients WHERE normalized_name = $1`,
		normalizedName,
	).Scan(&ing.ID, &ing.Name, &ing.NormalizedName, &ing.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get ingredient by name: %w", err)
	}
	return &ing, nil
}

// ListIngredients retrieves the full catalog in a stable order. Fuzzy matching
// iterates this list, so the ordering doubles as the deterministic tie-break.
func (db *DB) ListIngredients(ctx context.Context) ([]Ingredient, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, name, normalized_name, created_at FROM ingredients
		 ORDER BY created_at ASC, id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}
	defer rows.Close()

	var ingredients []Ingredient
	for rows.Next() {
		var ing Ingredient
		if err := rows.Scan(&ing.ID, &ing.Name, &ing.NormalizedName, &ing.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan ingredient: %w", err)
		}
		ingredients = append(ingredients, ing)
	}
	return ingredients, nil
}

// UpdateIngredientName renames a catalog entry. The normalized form is
// recomputed so the rename participates in deduplication like any insert.
func (db *DB) UpdateIngredientName(ctx context.Context, id uuid.UUID, name string) (*Ingredient, error) {
	normalized := NormalizeIngredientName(name)

	var ing Ingredient
	err := db.pool.QueryRow(ctx,
		`UPDATE ingredients SET name = $2, normalized_name = $3
		 WHERE id = $1
		 RETURNING id, name, normalized_name, created_at`,
		id, name, normalized,
	).Scan(&ing.ID, &ing.Name, &ing.NormalizedName, &ing.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, &ErrIngredientNotFound{ID: id}
		}
		if isUniqueViolation(err) {
			return nil, &ErrDuplicateIngredient{NormalizedName: normalized}
		}
		return nil, fmt.Errorf("failed to update ingredient: %w", err)
	}
	return &ing, nil
}

// DeleteIngredient removes a catalog entry. An ingredient still referenced by
// any recipe cannot be deleted.
func (db *DB) DeleteIngredient(ctx context.Context, id uuid.UUID) error {
	var count int
	err := db.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM recipe_ingredients WHERE ingredient_id = $1`,
		id,
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to count ingredient references: %w", err)
	}
	if count > 0 {
		return &ErrIngredientInUse{ID: id, Count: count}
	}

	tag, err := db.pool.Exec(ctx, `DELETE FROM ingredients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete ingredient: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &ErrIngredientNotFound{ID: id}
	}
	return nil
}

package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// GetNutrition retrieves nutrition data for an ingredient
func (db *DB) GetNutrition(ctx context.Context, ingredientID uuid.UUID) (*Nutrition, error) {
	if _, err := db.GetIngredientByID(ctx, ingredientID); err != nil {
		return nil, err
	}

	var n Nutrition
	err := db.pool.QueryRow(ctx,
		`SELECT ingredient_id, calories_per_100, calories_unit, protein, carbs, fat, fiber
		 FROM ingredient_nutrition WHERE ingredient_id = $1`,
		ingredientID,
	).Scan(&n.IngredientID, &n.CaloriesPer100, &n.CaloriesUnit, &n.Protein, &n.Carbs, &n.Fat, &n.Fiber)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, &ErrNutritionNotFound{IngredientID: ingredientID}
		}
		return nil, fmt.Errorf("failed to get nutrition: %w", err)
	}
	return &n, nil
}

// AddNutrition creates nutrition data for an ingredient that has none yet
func (db *DB) AddNutrition(ctx context.Context, ingredientID uuid.UUID, input *NutritionInput) (*Nutrition, error) {
	if _, err := db.GetIngredientByID(ctx, ingredientID); err != nil {
		return nil, err
	}

	unit := input.CaloriesUnit
	if unit == "" {
		unit = "kcal"
	}

	var n Nutrition
	err := db.pool.QueryRow(ctx,
		`INSERT INTO ingredient_nutrition (ingredient_id, calories_per_100, calories_unit, protein, carbs, fat, fiber)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING ingredient_id, calories_per_100, calories_unit, protein, carbs, fat, fiber`,
		ingredientID, input.CaloriesPer100, unit, input.Protein, input.Carbs, input.Fat, input.Fiber,
	).Scan(&n.IngredientID, &n.CaloriesPer100, &n.CaloriesUnit, &n.Protein, &n.Carbs, &n.Fat, &n.Fiber)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, &ErrNutritionExists{IngredientID: ingredientID}
		}
		return nil, fmt.Errorf("failed to add nutrition: %w", err)
	}
	return &n, nil
}

// UpdateNutrition updates existing nutrition data for an ingredient
func (db *DB) UpdateNutrition(ctx context.Context, ingredientID uuid.UUID, input *NutritionInput) (*Nutrition, error) {
	if _, err := db.GetIngredientByID(ctx, ingredientID); err != nil {
		return nil, err
	}

	var n Nutrition
	err := db.pool.QueryRow(ctx,
		`UPDATE ingredient_nutrition
		 SET calories_per_100 = COALESCE($2, calories_per_100),
		     calories_unit = COALESCE(NULLIF($3, ''), calories_unit),
		     protein = COALESCE($4, protein),
		     carbs = COALESCE($5, carbs),
		     fat = COALESCE($6, fat),
		     fiber = COALESCE($7, fiber)
		 WHERE ingredient_id = $1
		 RETURNING ingredient_id, calories_per_100, calories_unit, protein, carbs, fat, fiber`,
		ingredientID, input.CaloriesPer100, input.CaloriesUnit, input.Protein, input.Carbs, input.Fat, input.Fiber,
	).Scan(&n.IngredientID, &n.CaloriesPer100, &n.CaloriesUnit, &n.Protein, &n.Carbs, &n.Fat, &n.Fiber)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, &ErrNutritionNotFound{IngredientID: ingredientID}
		}
		return nil, fmt.Errorf("failed to update nutrition: %w", err)
	}
	return &n, nil
}

// DeleteNutrition removes nutrition data for an ingredient
func (db *DB) DeleteNutrition(ctx context.Context, ingredientID uuid.UUID) error {
	if _, err := db.GetIngredientByID(ctx, ingredientID); err != nil {
		return err
	}

	tag, err := db.pool.Exec(ctx,
		`DELETE FROM ingredient_nutrition WHERE ingredient_id = $1`, ingredientID)
	if err != nil {
		return fmt.Errorf("failed to delete nutrition: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &ErrNutritionNotFound{IngredientID: ingredientID}
	}
	return nil
}

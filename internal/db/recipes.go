package db

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const recipeColumns = `id, name, description, prep_time_minutes, cook_time_minutes,
	        servings, status, error, created_at, updated_at`

// CreateEmptyRecipe inserts a placeholder recipe in processing status. Its ID
// doubles as the job identifier for the extraction pipeline.
func (db *DB) CreateEmptyRecipe(ctx context.Context) (*Recipe, error) {
	var r Recipe
	err := db.pool.QueryRow(ctx,
		`INSERT INTO recipes (name, status)
		 VALUES ($1, $2)
		 RETURNING `+recipeColumns,
		PlaceholderRecipeName, StatusProcessing,
	).Scan(&r.ID, &r.Name, &r.Description, &r.PrepTime, &r.CookTime,
		&r.Servings, &r.Status, &r.Error, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}
	return &r, nil
}

// CompleteRecipe finalizes a processing recipe in place: the recipe row, its
// ingredient links, and its instruction rows become visible in one transaction
// or not at all. Only a recipe still in processing status may be finalized.
func (db *DB) CompleteRecipe(ctx context.Context, id uuid.UUID, content *RecipeContentInput) (*Recipe, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil && rErr != pgx.ErrTxClosed {
			log.Printf("Rollback error: %v", rErr)
		}
	}()

	tag, err := tx.Exec(ctx,
		`UPDATE recipes
		 SET name = $2, description = $3, prep_time_minutes = $4,
		     cook_time_minutes = $5, servings = $6,
		     status = $7, error = NULL, updated_at = NOW()
		 WHERE id = $1 AND status = $8`,
		id, content.Name, content.Description, content.PrepTime,
		content.CookTime, content.Servings, StatusCompleted, StatusProcessing,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to finalize recipe: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Distinguish a missing row from a terminal one
		var status string
		err := tx.QueryRow(ctx, `SELECT status FROM recipes WHERE id = $1`, id).Scan(&status)
		if err == pgx.ErrNoRows {
			return nil, &ErrRecipeNotFound{ID: id}
		}
		if err != nil {
			return nil, fmt.Errorf("failed to check recipe status: %w", err)
		}
		return nil, &ErrRecipeNotProcessing{ID: id, Status: status}
	}

	if err := insertRecipeChildren(ctx, tx, id, content); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return db.GetRecipe(ctx, id, true)
}

// CreateRecipeWithChildren inserts a fresh completed recipe together with its
// ingredient links and instructions as one atomic unit. Ingredient resolution
// must happen before calling this; the transaction only writes.
func (db *DB) CreateRecipeWithChildren(ctx context.Context, content *RecipeContentInput) (*Recipe, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil && rErr != pgx.ErrTxClosed {
			log.Printf("Rollback error: %v", rErr)
		}
	}()

	var id uuid.UUID
	err = tx.QueryRow(ctx,
		`INSERT INTO recipes (name, description, prep_time_minutes, cook_time_minutes, servings, status)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		content.Name, content.Description, content.PrepTime, content.CookTime,
		content.Servings, StatusCompleted,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}

	if err := insertRecipeChildren(ctx, tx, id, content); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return db.GetRecipe(ctx, id, true)
}

// insertRecipeChildren writes ingredient links and instructions inside tx
func insertRecipeChildren(ctx context.Context, tx pgx.Tx, recipeID uuid.UUID, content *RecipeContentInput) error {
	for _, link := range content.Ingredients {
		_, err := tx.Exec(ctx,
			`INSERT INTO recipe_ingredients (recipe_id, ingredient_id, quantity, unit)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (recipe_id, ingredient_id) DO UPDATE SET quantity = $3, unit = $4`,
			recipeID, link.IngredientID, link.Quantity, link.Unit,
		)
		if err != nil {
			return fmt.Errorf("failed to insert ingredient link: %w", err)
		}
	}

	for _, inst := range content.Instructions {
		_, err := tx.Exec(ctx,
			`INSERT INTO instructions (recipe_id, step, content)
			 VALUES ($1, $2, $3)`,
			recipeID, inst.Step, inst.Content,
		)
		if err != nil {
			return fmt.Errorf("failed to insert instruction: %w", err)
		}
	}

	return nil
}

// MarkRecipeFailed records a pipeline failure on the recipe job record.
// A recipe already in a terminal state is left untouched.
func (db *DB) MarkRecipeFailed(ctx context.Context, id uuid.UUID, message string) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE recipes SET status = $2, error = $3, updated_at = NOW()
		 WHERE id = $1 AND status = $4`,
		id, StatusFailed, message, StatusProcessing,
	)
	if err != nil {
		return fmt.Errorf("failed to mark recipe failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &ErrRecipeNotFound{ID: id}
	}
	return nil
}

// GetRecipe retrieves a recipe by ID, optionally with its ingredient links and
// instructions. Instructions are always ordered by step ascending.
func (db *DB) GetRecipe(ctx context.Context, id uuid.UUID, withRelations bool) (*Recipe, error) {
	var r Recipe
	err := db.pool.QueryRow(ctx,
		`SELECT `+recipeColumns+` FROM recipes WHERE id = $1`,
		id,
	).Scan(&r.ID, &r.Name, &r.Description, &r.PrepTime, &r.CookTime,
		&r.Servings, &r.Status, &r.Error, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, &ErrRecipeNotFound{ID: id}
		}
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}

	if withRelations {
		if err := db.loadRecipeRelations(ctx, &r); err != nil {
			return nil, err
		}
	}

	return &r, nil
}

// ListCompletedRecipes retrieves all completed recipes, newest first
func (db *DB) ListCompletedRecipes(ctx context.Context) ([]Recipe, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+recipeColumns+` FROM recipes
		 WHERE status = $1
		 ORDER BY created_at DESC`,
		StatusCompleted,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	defer rows.Close()

	var recipes []Recipe
	for rows.Next() {
		var r Recipe
		if err := rows.Scan(&r.ID, &r.Name, &r.Description, &r.PrepTime, &r.CookTime,
			&r.Servings, &r.Status, &r.Error, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan recipe: %w", err)
		}
		recipes = append(recipes, r)
	}
	return recipes, nil
}

// RecipeUpdateInput holds the directly editable recipe fields
type RecipeUpdateInput struct {
	Name        *string
	Description *string
	PrepTime    *int
	CookTime    *int
	Servings    *int
}

// UpdateRecipe updates editable fields on a recipe
func (db *DB) UpdateRecipe(ctx context.Context, id uuid.UUID, input *RecipeUpdateInput) (*Recipe, error) {
	tag, err := db.pool.Exec(ctx,
		`UPDATE recipes
		 SET name = COALESCE($2, name),
		     description = COALESCE($3, description),
		     prep_time_minutes = COALESCE($4, prep_time_minutes),
		     cook_time_minutes = COALESCE($5, cook_time_minutes),
		     servings = COALESCE($6, servings),
		     updated_at = NOW()
		 WHERE id = $1`,
		id, input.Name, input.Description, input.PrepTime, input.CookTime, input.Servings,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update recipe: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, &ErrRecipeNotFound{ID: id}
	}
	return db.GetRecipe(ctx, id, true)
}

// DeleteRecipe deletes a recipe and its child rows (via cascade)
func (db *DB) DeleteRecipe(ctx context.Context, id uuid.UUID) error {
	tag, err := db.pool.Exec(ctx, `DELETE FROM recipes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &ErrRecipeNotFound{ID: id}
	}
	return nil
}

// loadRecipeRelations loads ingredient links (with joined catalog rows) and
// ordered instructions
func (db *DB) loadRecipeRelations(ctx context.Context, r *Recipe) error {
	rows, err := db.pool.Query(ctx,
		`SELECT ri.recipe_id, ri.ingredient_id, ri.quantity, ri.unit,
		        i.id, i.name, i.normalized_name, i.created_at
		 FROM recipe_ingredients ri
		 JOIN ingredients i ON i.id = ri.ingredient_id
		 WHERE ri.recipe_id = $1
		 ORDER BY i.normalized_name`,
		r.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to load recipe ingredients: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var link RecipeIngredient
		var ing Ingredient
		if err := rows.Scan(&link.RecipeID, &link.IngredientID, &link.Quantity, &link.Unit,
			&ing.ID, &ing.Name, &ing.NormalizedName, &ing.CreatedAt); err != nil {
			return err
		}
		link.Ingredient = &ing
		r.Ingredients = append(r.Ingredients, link)
	}

	rows, err = db.pool.Query(ctx,
		`SELECT recipe_id, step, content FROM instructions
		 WHERE recipe_id = $1
		 ORDER BY step ASC`,
		r.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to load instructions: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var inst Instruction
		if err := rows.Scan(&inst.RecipeID, &inst.Step, &inst.Content); err != nil {
			return err
		}
		r.Instructions = append(r.Instructions, inst)
	}

	return nil
}

package ingredients

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/recipe-extractor/internal/db"
)

// DefaultMatchThreshold is the highest fuzzy score still treated as the same
// ingredient
const DefaultMatchThreshold = 0.3

// Catalog is the persistence surface the resolver needs. *db.DB satisfies it.
type Catalog interface {
	GetIngredientByNormalizedName(ctx context.Context, normalizedName string) (*db.Ingredient, error)
	GetIngredientByID(ctx context.Context, id uuid.UUID) (*db.Ingredient, error)
	ListIngredients(ctx context.Context) ([]db.Ingredient, error)
	CreateIngredient(ctx context.Context, name, normalizedName string) (*db.Ingredient, error)
}

// Resolver maps raw ingredient names to catalog rows, creating new entries
// only when no existing ingredient is close enough. Resolution is idempotent
// in effect: equivalent names converge to the same row.
type Resolver struct {
	catalog   Catalog
	threshold float64
}

// NewResolver creates a resolver. A non-positive threshold selects the default.
func NewResolver(catalog Catalog, threshold float64) *Resolver {
	if threshold <= 0 {
		threshold = DefaultMatchThreshold
	}
	return &Resolver{catalog: catalog, threshold: threshold}
}

// Resolve returns the catalog ingredient for rawName, creating it if needed.
//
// Lookup order: exact match on the normalized name, then a fuzzy scan of the
// whole catalog. A concurrent create of the same normalized name loses the
// race at the unique constraint and is recovered here by re-fetching the
// winner's row; the conflict never reaches the caller.
func (r *Resolver) Resolve(ctx context.Context, rawName string) (*db.Ingredient, error) {
	normalized := db.NormalizeIngredientName(rawName)
	if normalized == "" {
		return nil, fmt.Errorf("ingredient name is empty")
	}

	// Cheap path: exact match on the dedup key
	existing, err := r.catalog.GetIngredientByNormalizedName(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	match, err := r.bestMatch(ctx, rawName)
	if err != nil {
		return nil, err
	}
	if match != nil {
		// Re-fetch by ID so the caller gets current data
		return r.catalog.GetIngredientByID(ctx, match.ID)
	}

	created, err := r.catalog.CreateIngredient(ctx, strings.TrimSpace(rawName), normalized)
	if err == nil {
		return created, nil
	}

	var dup *db.ErrDuplicateIngredient
	if !errors.As(err, &dup) {
		return nil, err
	}

	// Lost the create race: the constraint says the ingredient exists now
	winner, err := r.catalog.GetIngredientByNormalizedName(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if winner == nil {
		return nil, fmt.Errorf("ingredient %q vanished after duplicate create", normalized)
	}
	return winner, nil
}

// bestMatch scans the catalog for the closest ingredient, comparing rawName
// against both display and normalized names. The first candidate in catalog
// order wins ties. Returns nil when no candidate scores within the threshold.
func (r *Resolver) bestMatch(ctx context.Context, rawName string) (*db.Ingredient, error) {
	catalog, err := r.catalog.ListIngredients(ctx)
	if err != nil {
		return nil, err
	}

	var best *db.Ingredient
	bestScore := 1.0
	for i := range catalog {
		ing := &catalog[i]
		score := Score(rawName, ing.Name)
		if s := Score(rawName, ing.NormalizedName); s < score {
			score = s
		}
		// Strict comparison keeps the earliest candidate on ties
		if score < bestScore {
			bestScore = score
			best = ing
		}
	}

	if best == nil || bestScore > r.threshold {
		return nil, nil
	}
	return best, nil
}

package ingredients

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/recipe-extractor/internal/db"
)

// fakeCatalog is an in-memory Catalog preserving insertion order, the same
// stable order the store returns.
type fakeCatalog struct {
	ingredients []db.Ingredient
	createErr   error
	creates     int

	// raceWinner becomes visible to lookups only after a create attempt,
	// modelling a concurrent insert that commits between the exact lookup and
	// this resolver's create.
	raceWinner *db.Ingredient
}

func (c *fakeCatalog) add(name string) *db.Ingredient {
	ing := db.Ingredient{
		ID:             uuid.New(),
		Name:           name,
		NormalizedName: db.NormalizeIngredientName(name),
	}
	c.ingredients = append(c.ingredients, ing)
	return &c.ingredients[len(c.ingredients)-1]
}

func (c *fakeCatalog) GetIngredientByNormalizedName(ctx context.Context, normalizedName string) (*db.Ingredient, error) {
	for i := range c.ingredients {
		if c.ingredients[i].NormalizedName == normalizedName {
			return &c.ingredients[i], nil
		}
	}
	if c.creates > 0 && c.raceWinner != nil && c.raceWinner.NormalizedName == normalizedName {
		return c.raceWinner, nil
	}
	return nil, nil
}

func (c *fakeCatalog) GetIngredientByID(ctx context.Context, id uuid.UUID) (*db.Ingredient, error) {
	for i := range c.ingredients {
		if c.ingredients[i].ID == id {
			return &c.ingredients[i], nil
		}
	}
	return nil, &db.ErrIngredientNotFound{ID: id}
}

func (c *fakeCatalog) ListIngredients(ctx context.Context) ([]db.Ingredient, error) {
	return c.ingredients, nil
}

func (c *fakeCatalog) CreateIngredient(ctx context.Context, name, normalizedName string) (*db.Ingredient, error) {
	c.creates++
	if c.createErr != nil {
		return nil, c.createErr
	}
	for i := range c.ingredients {
		if c.ingredients[i].NormalizedName == normalizedName {
			return nil, &db.ErrDuplicateIngredient{NormalizedName: normalizedName}
		}
	}
	ing := db.Ingredient{ID: uuid.New(), Name: name, NormalizedName: normalizedName}
	c.ingredients = append(c.ingredients, ing)
	return &c.ingredients[len(c.ingredients)-1], nil
}

func TestResolve_ExactMatchAfterNormalization(t *testing.T) {
	catalog := &fakeCatalog{}
	existing := catalog.add("Tomato")
	r := NewResolver(catalog, 0)

	resolved, err := r.Resolve(context.Background(), "  tomato ")
	require.NoError(t, err)
	assert.Equal(t, existing.ID, resolved.ID)
	assert.Equal(t, 0, catalog.creates)
}

func TestResolve_FuzzyMatchWithinThreshold(t *testing.T) {
	catalog := &fakeCatalog{}
	existing := catalog.add("Tomato")
	catalog.add("Sugar")
	r := NewResolver(catalog, 0)

	// "tomatoes" scores 0.25 against "tomato", inside the default threshold
	resolved, err := r.Resolve(context.Background(), "tomatoes")
	require.NoError(t, err)
	assert.Equal(t, existing.ID, resolved.ID)
	assert.Equal(t, 0, catalog.creates)
}

func TestResolve_NoMatchCreates(t *testing.T) {
	catalog := &fakeCatalog{}
	catalog.add("Tomato")
	r := NewResolver(catalog, 0)

	resolved, err := r.Resolve(context.Background(), "  Brown Sugar ")
	require.NoError(t, err)
	assert.Equal(t, "Brown Sugar", resolved.Name)
	assert.Equal(t, "brown sugar", resolved.NormalizedName)
	assert.Equal(t, 1, catalog.creates)

	// A second resolve of an equivalent name converges on the same row
	again, err := r.Resolve(context.Background(), "brown  sugar")
	require.NoError(t, err)
	assert.Equal(t, resolved.ID, again.ID)
	assert.Equal(t, 1, catalog.creates)
}

func TestResolve_TieKeepsEarliestCandidate(t *testing.T) {
	catalog := &fakeCatalog{}
	first := catalog.add("green bean")
	catalog.add("green beans")
	r := NewResolver(catalog, 0)

	// Equidistant from both candidates; catalog order breaks the tie
	resolved, err := r.Resolve(context.Background(), "green beanz")
	require.NoError(t, err)
	assert.Equal(t, first.ID, resolved.ID)
}

func TestResolve_ThresholdIsStrict(t *testing.T) {
	catalog := &fakeCatalog{}
	catalog.add("flour")
	r := NewResolver(catalog, 0.1)

	// Score 0.25 exceeds a 0.1 threshold, so a new row is created
	resolved, err := r.Resolve(context.Background(), "flours ")
	require.NoError(t, err)
	assert.Equal(t, "flours", resolved.NormalizedName)
	assert.Equal(t, 1, catalog.creates)
}

func TestResolve_DuplicateCreateRaceRecovers(t *testing.T) {
	catalog := &fakeCatalog{}
	r := NewResolver(catalog, 0)

	// Losing the unique-constraint race: the create fails with the duplicate
	// error and the winner's row is visible on re-fetch.
	winner := &db.Ingredient{ID: uuid.New(), Name: "Paprika", NormalizedName: "paprika"}
	catalog.raceWinner = winner
	catalog.createErr = &db.ErrDuplicateIngredient{NormalizedName: "paprika"}

	resolved, err := r.Resolve(context.Background(), "Paprika")
	require.NoError(t, err)
	assert.Equal(t, winner.ID, resolved.ID)
	assert.Equal(t, 1, catalog.creates)
}

func TestResolve_EmptyNameFails(t *testing.T) {
	r := NewResolver(&fakeCatalog{}, 0)

	for _, raw := range []string{"", "   ", "\t\n"} {
		resolved, err := r.Resolve(context.Background(), raw)
		assert.Nil(t, resolved)
		assert.Error(t, err)
	}
}

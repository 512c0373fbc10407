// Package pipeline runs the document-to-recipe extraction jobs. Each upload
// becomes one job: a placeholder recipe row is created synchronously so the
// caller has a job id, then extraction, AI parsing, ingredient resolution, and
// persistence run in a background goroutine that reports progress through the
// event bus.
package pipeline

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/recipe-extractor/internal/db"
	"github.com/jonathan/recipe-extractor/internal/events"
	"github.com/jonathan/recipe-extractor/internal/extraction"
)

// RecipeStore is the persistence surface the pipeline needs.
type RecipeStore interface {
	CreateEmptyRecipe(ctx context.Context) (*db.Recipe, error)
	CompleteRecipe(ctx context.Context, id uuid.UUID, content *db.RecipeContentInput) (*db.Recipe, error)
	CreateRecipeWithChildren(ctx context.Context, content *db.RecipeContentInput) (*db.Recipe, error)
	MarkRecipeFailed(ctx context.Context, id uuid.UUID, message string) error
	DeleteRecipe(ctx context.Context, id uuid.UUID) error
}

// IngredientResolver maps raw ingredient names to catalog entries.
type IngredientResolver interface {
	Resolve(ctx context.Context, rawName string) (*db.Ingredient, error)
}

// Orchestrator coordinates extraction jobs.
type Orchestrator struct {
	bus      *events.Bus
	store    RecipeStore
	resolver IngredientResolver
	gateway  extraction.Gateway
}

// NewOrchestrator creates a job orchestrator.
func NewOrchestrator(bus *events.Bus, store RecipeStore, resolver IngredientResolver, gateway extraction.Gateway) *Orchestrator {
	return &Orchestrator{
		bus:      bus,
		store:    store,
		resolver: resolver,
		gateway:  gateway,
	}
}

// Submit registers a new extraction job and starts processing it in the
// background. The returned id identifies both the job and its placeholder
// recipe row. The event stream for the job is open before Submit returns, so
// a subscriber attaching immediately afterwards cannot miss the stream.
func (o *Orchestrator) Submit(ctx context.Context, document []byte, filename string) (uuid.UUID, error) {
	recipe, err := o.store.CreateEmptyRecipe(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create job record: %w", err)
	}

	o.bus.Open(recipe.ID.String())
	go o.run(recipe.ID, document, filename)

	return recipe.ID, nil
}

// run executes one job from extraction through persistence. It always
// completes the event stream, whatever happens, so observers never hang on a
// dead job.
func (o *Orchestrator) run(jobID uuid.UUID, document []byte, filename string) {
	// Detached from the upload request: the job outlives the HTTP exchange.
	ctx := context.Background()
	job := jobID.String()

	defer o.bus.Complete(job)
	defer func() {
		if r := recover(); r != nil {
			log.Printf("job %s panicked: %v", job, r)
			o.fail(ctx, jobID, fmt.Sprintf("internal error: %v", r))
		}
	}()

	log.Printf("starting extraction job %s (%s)", job, filename)
	o.bus.Publish(job, events.Event{Type: events.TypeStarted, Payload: map[string]any{"filename": filename}})

	o.bus.Publish(job, events.Event{Type: events.TypeExtractingText})
	text, err := o.gateway.ExtractText(ctx, document)
	if err != nil {
		o.fail(ctx, jobID, err.Error())
		return
	}

	o.bus.Publish(job, events.Event{Type: events.TypeProcessingAI})
	parsed, err := o.gateway.ParseRecipes(ctx, text)
	if err != nil {
		o.fail(ctx, jobID, err.Error())
		return
	}

	o.bus.Publish(job, events.Event{Type: events.TypeSavingRecipes, Payload: map[string]any{"count": len(parsed)}})
	saved, err := o.persist(ctx, jobID, parsed)
	if err != nil {
		o.fail(ctx, jobID, err.Error())
		return
	}

	ids := make([]string, len(saved))
	for i, r := range saved {
		ids[i] = r.ID.String()
	}
	payload := map[string]any{"recipe_ids": ids}
	if len(saved) == 1 {
		payload["recipe"] = saved[0]
	}
	o.bus.Publish(job, events.Event{Type: events.TypeFinished, Payload: payload})

	log.Printf("finished extraction job %s: %d recipe(s)", job, len(saved))
}

// persist resolves ingredients for every parsed recipe, then writes each
// recipe as one atomic unit. A single-recipe document finalizes the
// placeholder row in place; a multi-recipe document creates fresh rows and
// removes the placeholder once all of them are durable.
func (o *Orchestrator) persist(ctx context.Context, jobID uuid.UUID, parsed []extraction.ParsedRecipe) ([]*db.Recipe, error) {
	contents := make([]*db.RecipeContentInput, len(parsed))

	// Resolution is read-mostly and idempotent, so it can run in parallel
	// across recipes. It stays outside the write transactions below.
	g, gctx := errgroup.WithContext(ctx)
	for i, recipe := range parsed {
		g.Go(func() error {
			content, err := o.buildContent(gctx, recipe)
			if err != nil {
				return err
			}
			contents[i] = content
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(contents) == 1 {
		recipe, err := o.store.CompleteRecipe(ctx, jobID, contents[0])
		if err != nil {
			return nil, fmt.Errorf("failed to save recipe: %w", err)
		}
		return []*db.Recipe{recipe}, nil
	}

	saved := make([]*db.Recipe, 0, len(contents))
	for _, content := range contents {
		recipe, err := o.store.CreateRecipeWithChildren(ctx, content)
		if err != nil {
			return nil, fmt.Errorf("failed to save recipe %q: %w", content.Name, err)
		}
		saved = append(saved, recipe)
	}

	if err := o.store.DeleteRecipe(ctx, jobID); err != nil {
		log.Printf("job %s: failed to remove placeholder recipe: %v", jobID, err)
	}
	return saved, nil
}

func (o *Orchestrator) buildContent(ctx context.Context, parsed extraction.ParsedRecipe) (*db.RecipeContentInput, error) {
	links := make([]db.IngredientLinkInput, 0, len(parsed.Ingredients))
	for _, ing := range parsed.Ingredients {
		resolved, err := o.resolver.Resolve(ctx, ing.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve ingredient %q: %w", ing.Name, err)
		}
		links = append(links, db.IngredientLinkInput{
			IngredientID: resolved.ID,
			Quantity:     ing.Quantity,
			Unit:         ing.Unit,
		})
	}

	instructions := make([]db.InstructionInput, 0, len(parsed.Instructions))
	for _, ins := range parsed.Instructions {
		instructions = append(instructions, db.InstructionInput{Step: ins.Step, Content: ins.Content})
	}

	return &db.RecipeContentInput{
		Name:         parsed.Name,
		Description:  parsed.Description,
		PrepTime:     parsed.PrepTime,
		CookTime:     parsed.CookTime,
		Servings:     parsed.Servings,
		Ingredients:  links,
		Instructions: instructions,
	}, nil
}

// fail records the failure on the job row and reports it to observers. The
// placeholder stays behind with status failed and the error message so the
// outcome survives the stream.
func (o *Orchestrator) fail(ctx context.Context, jobID uuid.UUID, message string) {
	if err := o.store.MarkRecipeFailed(ctx, jobID, message); err != nil {
		log.Printf("job %s: failed to record failure: %v", jobID, err)
	}
	o.bus.Publish(jobID.String(), events.Event{Type: events.TypeFailed, Payload: map[string]any{"error": message}})
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/recipe-extractor/internal/db"
	"github.com/jonathan/recipe-extractor/internal/extraction"
	"github.com/jonathan/recipe-extractor/internal/ingredients"
	"github.com/jonathan/recipe-extractor/internal/llm"
)

var (
	extractFile string
	extractSave bool
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract recipes from a PDF file",
	Long:  "Extract structured recipes from a local PDF file and print them as JSON. With --save, resolved recipes are also persisted to the database.",
	RunE:  runExtract,
}

func init() {
	extractCmd.Flags().StringVarP(&extractFile, "file", "f", "", "Path to PDF file (required)")
	extractCmd.Flags().BoolVar(&extractSave, "save", false, "Persist extracted recipes to the database")

	extractCmd.MarkFlagRequired("file") //nolint:errcheck

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, _ []string) error {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}

	document, err := os.ReadFile(extractFile)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", extractFile, err)
	}

	ctx := cmd.Context()
	client, err := llm.NewClient(ctx, llm.DefaultConfig(), apiKey)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer client.Close() //nolint:errcheck

	gateway := extraction.NewLLMGateway(client)

	text, err := gateway.ExtractText(ctx, document)
	if err != nil {
		return err
	}

	recipes, err := gateway.ParseRecipes(ctx, text)
	if err != nil {
		return err
	}

	if extractSave {
		if err := saveRecipes(ctx, recipes); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved %d recipe(s)\n", len(recipes))
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(recipes)
}

// saveRecipes persists extracted recipes the same way the server pipeline
// does: ingredients resolved first, each recipe written as one transaction.
func saveRecipes(ctx context.Context, recipes []extraction.ParsedRecipe) error {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required with --save")
	}

	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	if err := database.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}

	resolver := ingredients.NewResolver(database, 0)

	for _, parsed := range recipes {
		links := make([]db.IngredientLinkInput, 0, len(parsed.Ingredients))
		for _, ing := range parsed.Ingredients {
			resolved, err := resolver.Resolve(ctx, ing.Name)
			if err != nil {
				return fmt.Errorf("failed to resolve ingredient %q: %w", ing.Name, err)
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

		if _, err := database.CreateRecipeWithChildren(ctx, &db.RecipeContentInput{
			Name:         parsed.Name,
			Description:  parsed.Description,
			PrepTime:     parsed.PrepTime,
			CookTime:     parsed.CookTime,
			Servings:     parsed.Servings,
			Ingredients:  links,
			Instructions: instructions,
		}); err != nil {
			return fmt.Errorf("failed to save recipe %q: %w", parsed.Name, err)
		}
	}

	return nil
}

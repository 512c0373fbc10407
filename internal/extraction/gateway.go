package extraction

import (
	"context"

	"github.com/jonathan/recipe-extractor/internal/llm"
)

// Gateway is the boundary between the job pipeline and document processing.
type Gateway interface {
	// ExtractText pulls the plain text out of an uploaded document
	ExtractText(ctx context.Context, document []byte) (string, error)
	// ParseRecipes structures extracted text into one or more recipes
	ParseRecipes(ctx context.Context, text string) ([]ParsedRecipe, error)
}

// LLMGateway implements Gateway with a local PDF text extractor and an LLM
// for the structuring step.
type LLMGateway struct {
	client llm.Client
}

// NewLLMGateway creates a gateway backed by the given LLM client.
func NewLLMGateway(client llm.Client) *LLMGateway {
	return &LLMGateway{client: client}
}

// ExtractText extracts plain text from a PDF document.
func (g *LLMGateway) ExtractText(ctx context.Context, document []byte) (string, error) {
	return ExtractText(document)
}

// ParseRecipes sends extracted text to the model and validates the response.
// Structuring is a plain extraction task, so it runs on the lite tier.
func (g *LLMGateway) ParseRecipes(ctx context.Context, text string) ([]ParsedRecipe, error) {
	prompt := BuildRecipePrompt(text)

	output, err := g.client.GenerateJSON(ctx, prompt, llm.TierLite)
	if err != nil {
		return nil, &ParseError{Message: "model call failed", Cause: err}
	}

	return ParseRecipeList(output)
}

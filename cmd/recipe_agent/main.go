// Package main provides the entry point for the Recipe Extractor HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "recipe_agent",
	Short: "Recipe Extractor HTTP API Server",
	Long:  "Recipe Extractor turns uploaded recipe PDFs into structured recipes with a deduplicated ingredient catalog, served via REST API with live job progress.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

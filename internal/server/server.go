// Package server provides the HTTP REST API for the recipe extractor.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonathan/recipe-extractor/internal/db"
	"github.com/jonathan/recipe-extractor/internal/events"
	"github.com/jonathan/recipe-extractor/internal/extraction"
	"github.com/jonathan/recipe-extractor/internal/ingredients"
	"github.com/jonathan/recipe-extractor/internal/llm"
	"github.com/jonathan/recipe-extractor/internal/pipeline"
)

const defaultMaxUploadBytes = 20 << 20 // 20 MiB

// Server represents the HTTP server
type Server struct {
	httpServer     *http.Server
	db             *db.DB
	bus            *events.Bus
	pipeline       *pipeline.Orchestrator
	llmClient      llm.Client
	maxUploadBytes int64
}

// Config holds server configuration
type Config struct {
	Port            int
	DatabaseURL     string
	GeminiAPIKey    string
	FuzzyThreshold  float64
	EventBufferSize int
	CompletedLinger time.Duration
	MaxUploadBytes  int64
}

// New creates a new server instance
func New(cfg Config) (*Server, error) {
	database, err := db.Connect(context.Background(), cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := database.EnsureSchema(context.Background()); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	client, err := llm.NewClient(context.Background(), llm.DefaultConfig(), cfg.GeminiAPIKey)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	bus := events.NewBus(events.Config{
		BufferSize:      cfg.EventBufferSize,
		CompletedLinger: cfg.CompletedLinger,
	})
	resolver := ingredients.NewResolver(database, cfg.FuzzyThreshold)
	gateway := extraction.NewLLMGateway(client)

	s := &Server{
		db:             database,
		bus:            bus,
		pipeline:       pipeline.NewOrchestrator(bus, database, resolver, gateway),
		llmClient:      client,
		maxUploadBytes: cfg.MaxUploadBytes,
	}
	if s.maxUploadBytes <= 0 {
		s.maxUploadBytes = defaultMaxUploadBytes
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withLogging(s.withCORS(s.routes())),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // SSE streams stay open for the life of a job
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// routes builds the request router
func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	// Upload and job feed endpoints
	mux.HandleFunc("POST /upload/pdf", s.handleUploadPDF)
	mux.HandleFunc("GET /upload/status/{job_id}", s.handleUploadStatus)

	// Recipe endpoints
	mux.HandleFunc("GET /recipes", s.handleListRecipes)
	mux.HandleFunc("GET /recipes/{id}", s.handleGetRecipe)
	mux.HandleFunc("PUT /recipes/{id}", s.handleUpdateRecipe)
	mux.HandleFunc("DELETE /recipes/{id}", s.handleDeleteRecipe)

	// Ingredient catalog endpoints
	mux.HandleFunc("GET /ingredients", s.handleListIngredients)
	mux.HandleFunc("POST /ingredients", s.handleCreateIngredient)
	mux.HandleFunc("GET /ingredients/search", s.handleSearchIngredients)
	mux.HandleFunc("GET /ingredients/{id}", s.handleGetIngredient)
	mux.HandleFunc("PUT /ingredients/{id}", s.handleUpdateIngredient)
	mux.HandleFunc("DELETE /ingredients/{id}", s.handleDeleteIngredient)

	// Nutrition endpoints
	mux.HandleFunc("GET /ingredients/{id}/nutrition", s.handleGetNutrition)
	mux.HandleFunc("POST /ingredients/{id}/nutrition", s.handleAddNutrition)
	mux.HandleFunc("PUT /ingredients/{id}/nutrition", s.handleUpdateNutrition)
	mux.HandleFunc("DELETE /ingredients/{id}/nutrition", s.handleDeleteNutrition)

	mux.HandleFunc("GET /health", s.handleHealth)

	return mux
}

// Start begins listening for requests
func (s *Server) Start() error {
	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if s.llmClient != nil {
		if err := s.llmClient.Close(); err != nil {
			log.Printf("Error closing LLM client: %v", err)
		}
	}
	s.db.Close()
	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

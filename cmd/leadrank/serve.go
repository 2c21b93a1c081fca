package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	httpadapter "github.com/arthurmateu/throxy-project/internal/adapters/http"
	"github.com/arthurmateu/throxy-project/internal/adapters/id"
	"github.com/arthurmateu/throxy-project/internal/adapters/postgres"
	"github.com/arthurmateu/throxy-project/internal/application/services"
	"github.com/arthurmateu/throxy-project/internal/application/usecases"
)

// serveCmd starts the HTTP API server
func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start the Leadrank HTTP API server.

The server provides REST endpoints for ranking runs, prompt optimization,
prompt version management and cost reporting.

Required configuration:
  - PostgreSQL database (LEADRANK_POSTGRES_URL)
  - at least one provider API key (LEADRANK_OPENAI_API_KEY,
    LEADRANK_GROQ_API_KEY or LEADRANK_OPENROUTER_API_KEY)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}
}

// runServer initializes and starts the HTTP API server
func runServer(ctx context.Context) error {
	log.Println("Starting Leadrank API server...")
	log.Printf("  HTTP:      http://%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("  Providers: %v", cfg.ConfiguredProviders())
	log.Println()

	pool, err := initDB(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	leadRepo := postgres.NewLeadRepository(pool)
	rankingRepo := postgres.NewRankingRepository(pool)
	promptVersionRepo := postgres.NewPromptVersionRepository(pool)
	callCostRepo := postgres.NewCallCostRepository(pool)

	idGen := id.New()

	sessionStore := services.NewSessionStore()
	rankingProgress := services.NewRankingProgressStore()
	optimizationProgress := services.NewOptimizationProgressStore()
	promptService := services.NewPromptService(promptVersionRepo, idGen)

	rankingService := services.NewRankingService(
		leadRepo,
		rankingRepo,
		callCostRepo,
		promptService,
		llmClient,
		sessionStore,
		rankingProgress,
		idGen,
	)
	optimizerService := services.NewOptimizerService(
		promptService,
		callCostRepo,
		llmClient,
		sessionStore,
		optimizationProgress,
		idGen,
	)

	startRanking := usecases.NewStartRankingUseCase(
		rankingService,
		sessionStore,
		rankingProgress,
		llmClient,
		idGen,
	)
	startOptimization := usecases.NewStartOptimizationUseCase(
		optimizerService,
		sessionStore,
		optimizationProgress,
		llmClient,
		idGen,
	)

	server := httpadapter.NewServer(
		cfg,
		rankingRepo,
		callCostRepo,
		promptService,
		sessionStore,
		pool,
		llmClient,
		startRanking,
		startOptimization,
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigChan:
		log.Printf("Received signal: %v", sig)
		log.Println("Shutting down gracefully...")

		shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 30*time.Second)
		defer shutdownCancel()

		if err := server.Stop(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}

		log.Println("Server stopped")
	}

	return nil
}

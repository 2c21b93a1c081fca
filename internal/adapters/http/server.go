package http

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/arthurmateu/throxy-project/internal/adapters/http/handlers"
	"github.com/arthurmateu/throxy-project/internal/adapters/http/middleware"
	"github.com/arthurmateu/throxy-project/internal/application/services"
	"github.com/arthurmateu/throxy-project/internal/config"
	"github.com/arthurmateu/throxy-project/internal/llm"
	"github.com/arthurmateu/throxy-project/internal/ports"
)

type Server struct {
	config                   *config.Config
	router                   *chi.Mux
	httpServer               *http.Server
	rankingRepo              ports.RankingRepository
	callCostRepo             ports.CallCostRepository
	promptService            *services.PromptService
	sessionStore             *services.SessionStore
	db                       *pgxpool.Pool
	llmClient                *llm.Client
	startRankingUseCase      ports.StartRankingUseCase
	startOptimizationUseCase ports.StartOptimizationUseCase
}

func NewServer(
	cfg *config.Config,
	rankingRepo ports.RankingRepository,
	callCostRepo ports.CallCostRepository,
	promptService *services.PromptService,
	sessionStore *services.SessionStore,
	db *pgxpool.Pool,
	llmClient *llm.Client,
	startRankingUseCase ports.StartRankingUseCase,
	startOptimizationUseCase ports.StartOptimizationUseCase,
) *Server {
	s := &Server{
		config:                   cfg,
		rankingRepo:              rankingRepo,
		callCostRepo:             callCostRepo,
		promptService:            promptService,
		sessionStore:             sessionStore,
		db:                       db,
		llmClient:                llmClient,
		startRankingUseCase:      startRankingUseCase,
		startOptimizationUseCase: startOptimizationUseCase,
	}

	s.setupRouter()
	return s
}

func (s *Server) setupRouter() {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recovery)
	r.Use(middleware.CORS(s.config.Server.CORSOrigins))
	r.Use(middleware.Metrics)

	healthHandler := handlers.NewHealthHandler()
	detailedHealthHandler := handlers.NewHealthHandlerWithDeps(s.db, s.llmClient)
	r.Get("/health", healthHandler.Handle)
	r.Get("/health/detailed", detailedHealthHandler.HandleDetailed)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		rankingsHandler := handlers.NewRankingsHandler(s.startRankingUseCase, s.rankingRepo)
		r.Post("/rankings", rankingsHandler.Start)
		r.Get("/rankings", rankingsHandler.List)
		r.Get("/rankings/progress/{batchId}", rankingsHandler.Progress)

		optimizationsHandler := handlers.NewOptimizationsHandler(s.startOptimizationUseCase)
		r.Post("/optimizations", optimizationsHandler.Start)
		r.Post("/optimizations/session", optimizationsHandler.StartForSession)
		r.Get("/optimizations/progress/{runId}", optimizationsHandler.Progress)

		promptsHandler := handlers.NewPromptsHandler(s.promptService)
		r.Get("/prompts", promptsHandler.List)
		r.Post("/prompts/{version}/activate", promptsHandler.Activate)

		costsHandler := handlers.NewCostsHandler(s.callCostRepo, s.sessionStore)
		r.Get("/costs", costsHandler.Summary)

		sessionsHandler := handlers.NewSessionsHandler(s.sessionStore)
		r.Get("/sessions/{sessionId}", sessionsHandler.Get)
	})

	s.router = r
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Starting HTTP server on %s", addr)
	return s.httpServer.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}

	log.Println("Shutting down HTTP server...")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) Router() *chi.Mux {
	return s.router
}

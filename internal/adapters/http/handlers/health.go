package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arthurmateu/throxy-project/internal/llm"
	"github.com/arthurmateu/throxy-project/internal/ports"
)

// HealthCheckConfig holds configuration for health checks
type HealthCheckConfig struct {
	Timeout time.Duration // Timeout for each individual health check
}

// DefaultHealthCheckConfig returns default health check configuration
func DefaultHealthCheckConfig() HealthCheckConfig {
	return HealthCheckConfig{
		Timeout: 5 * time.Second,
	}
}

type HealthHandler struct {
	config    HealthCheckConfig
	db        *pgxpool.Pool
	llmClient *llm.Client
}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{
		config: DefaultHealthCheckConfig(),
	}
}

func NewHealthHandlerWithDeps(db *pgxpool.Pool, llmClient *llm.Client) *HealthHandler {
	return &HealthHandler{
		config:    DefaultHealthCheckConfig(),
		db:        db,
		llmClient: llmClient,
	}
}

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

type DetailedHealthResponse struct {
	Status   string                   `json:"status"`
	Version  string                   `json:"version"`
	Services map[string]ServiceHealth `json:"services"`
}

type ServiceHealth struct {
	Status    string  `json:"status"`
	LatencyMs *int64  `json:"latency_ms,omitempty"`
	Error     *string `json:"error,omitempty"`
}

// Handle provides a basic health check endpoint
func (h *HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, HealthResponse{Status: "ok", Version: "1.0.0"}, http.StatusOK)
}

// HandleDetailed provides a detailed health check endpoint that checks all dependencies
func (h *HealthHandler) HandleDetailed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	response := DetailedHealthResponse{
		Version:  "1.0.0",
		Services: make(map[string]ServiceHealth),
	}

	if h.db != nil {
		response.Services["database"] = h.checkDatabase(ctx)
	}
	if h.llmClient != nil {
		response.Services["llm"] = h.checkProviders()
	}

	response.Status = calculateOverallStatus(response.Services)

	statusCode := http.StatusOK
	if response.Status == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}

	respondJSON(w, response, statusCode)
}

// checkDatabase checks database connectivity
func (h *HealthHandler) checkDatabase(ctx context.Context) ServiceHealth {
	start := time.Now()
	checkCtx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	err := h.db.Ping(checkCtx)
	latency := time.Since(start).Milliseconds()

	if err != nil {
		errMsg := err.Error()
		return ServiceHealth{
			Status:    "unhealthy",
			LatencyMs: &latency,
			Error:     &errMsg,
		}
	}

	return ServiceHealth{
		Status:    "healthy",
		LatencyMs: &latency,
	}
}

// checkProviders verifies at least one LLM provider has a credential.
// No live call is made: health polling must not spend tokens.
func (h *HealthHandler) checkProviders() ServiceHealth {
	for _, p := range []ports.Provider{ports.ProviderOpenAI, ports.ProviderGroq, ports.ProviderOpenRouter} {
		if h.llmClient.HasCredential(p) {
			return ServiceHealth{Status: "healthy"}
		}
	}
	errMsg := "no LLM provider configured"
	return ServiceHealth{
		Status: "degraded",
		Error:  &errMsg,
	}
}

// calculateOverallStatus determines the overall system status based on individual services
func calculateOverallStatus(services map[string]ServiceHealth) string {
	if len(services) == 0 {
		return "healthy"
	}

	hasDegraded := false
	for name, service := range services {
		if service.Status == "unhealthy" {
			if name == "database" {
				return "unhealthy"
			}
			hasDegraded = true
		}
		if service.Status == "degraded" {
			hasDegraded = true
		}
	}

	if hasDegraded {
		return "degraded"
	}
	return "healthy"
}

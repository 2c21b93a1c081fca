package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/arthurmateu/throxy-project/internal/config"
	"github.com/arthurmateu/throxy-project/internal/llm"
	"github.com/arthurmateu/throxy-project/internal/ports"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "leadrank",
		Short: "Leadrank - AI lead qualification and ranking",
		Long: `Leadrank ranks sales leads with LLM batch scoring and evolves its
ranking prompt with a genetic optimization loop.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// A missing .env file is fine; the environment wins anyway.
			_ = godotenv.Load()

			var err error
			cfg, err = config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			llmClient = llm.New(map[ports.Provider]llm.ProviderConfig{
				ports.ProviderOpenAI: {
					APIKey:  cfg.LLM.OpenAI.APIKey,
					BaseURL: cfg.LLM.OpenAI.BaseURL,
					Model:   cfg.LLM.OpenAI.Model,
				},
				ports.ProviderGroq: {
					APIKey:  cfg.LLM.Groq.APIKey,
					BaseURL: cfg.LLM.Groq.BaseURL,
					Model:   cfg.LLM.Groq.Model,
				},
				ports.ProviderOpenRouter: {
					APIKey:  cfg.LLM.OpenRouter.APIKey,
					BaseURL: cfg.LLM.OpenRouter.BaseURL,
					Model:   cfg.LLM.OpenRouter.Model,
				},
			})

			return nil
		},
	}

	rootCmd.AddCommand(
		serveCmd(),
		importCmd(),
		optimizeCmd(),
		configCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// configCmd shows current configuration
func configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("Current configuration:")
			fmt.Println()

			fmt.Println("Providers:")
			fmt.Printf("  OpenAI:     model=%s key=%s\n", cfg.LLM.OpenAI.Model, maskSecret(cfg.LLM.OpenAI.APIKey))
			fmt.Printf("  Groq:       model=%s key=%s\n", cfg.LLM.Groq.Model, maskSecret(cfg.LLM.Groq.APIKey))
			fmt.Printf("  OpenRouter: model=%s key=%s\n", cfg.LLM.OpenRouter.Model, maskSecret(cfg.LLM.OpenRouter.APIKey))
			fmt.Printf("  Temperature: %.2f\n", cfg.LLM.Temperature)
			fmt.Println()

			fmt.Println("Database:")
			fmt.Printf("  PostgreSQL: %s\n", maskSecret(cfg.Database.PostgresURL))
			fmt.Println()

			fmt.Println("Server:")
			fmt.Printf("  Host: %s\n", cfg.Server.Host)
			fmt.Printf("  Port: %d\n", cfg.Server.Port)
			fmt.Printf("  CORS: %v\n", cfg.Server.CORSOrigins)

			return nil
		},
	}
}

// versionCmd shows version information
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("Leadrank %s\n", version)
			fmt.Printf("  Commit:     %s\n", commit)
			fmt.Printf("  Build Date: %s\n", buildDate)
		},
	}
}

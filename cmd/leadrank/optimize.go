package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arthurmateu/throxy-project/internal/adapters/id"
	"github.com/arthurmateu/throxy-project/internal/adapters/postgres"
	"github.com/arthurmateu/throxy-project/internal/application/services"
	"github.com/arthurmateu/throxy-project/internal/domain/models"
	"github.com/arthurmateu/throxy-project/internal/ports"
)

// optimizeCmd runs a prompt optimization synchronously from the CLI
func optimizeCmd() *cobra.Command {
	var (
		provider    string
		population  int
		generations int
		sampleSize  int
	)

	cmd := &cobra.Command{
		Use:   "optimize <eval.csv>",
		Short: "Optimize the ranking prompt against a labeled evaluation set",
		Long: `Run the genetic prompt optimizer against a labeled evaluation CSV.

The file must have a header row with columns (case-insensitive):
full_name, title, company, linkedin_url, employee_range, expected_rank.
An empty expected_rank marks the lead as expected-irrelevant.

The run executes synchronously and persists the winning prompt as a new,
inactive version. Activate it with the prompts API once reviewed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			p, err := ports.ParseProvider(provider)
			if err != nil {
				return err
			}
			if !llmClient.HasCredential(p) {
				return fmt.Errorf("no API key configured for provider %q", provider)
			}

			evalLeads, err := readEvalCSV(args[0])
			if err != nil {
				return err
			}
			log.Printf("Loaded %d evaluation leads from %s", len(evalLeads), args[0])

			pool, err := initDB(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			idGen := id.New()
			promptService := services.NewPromptService(postgres.NewPromptVersionRepository(pool), idGen)
			progress := services.NewOptimizationProgressStore()
			optimizer := services.NewOptimizerService(
				promptService,
				postgres.NewCallCostRepository(pool),
				llmClient,
				services.NewSessionStore(),
				progress,
				idGen,
			)

			runID := idGen.GenerateRunID()
			optCfg := models.OptimizerConfig{
				PopulationSize: population,
				Generations:    generations,
				SampleSize:     sampleSize,
			}
			if err := optimizer.Run(ctx, runID, p, evalLeads, optCfg, ""); err != nil {
				return fmt.Errorf("optimization failed: %w", err)
			}

			final := progress.Get(runID)
			log.Printf("Optimization complete: best fitness %.4f after %d evaluations",
				final.BestFitness, final.EvaluationsRun)
			if final.CurrentBestPromptPreview != "" {
				log.Printf("Best prompt preview: %s", final.CurrentBestPromptPreview)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&provider, "provider", "openai", "LLM provider (openai, groq, openrouter)")
	cmd.Flags().IntVar(&population, "population", 0, "population size (default 6)")
	cmd.Flags().IntVar(&generations, "generations", 0, "number of generations (default 5)")
	cmd.Flags().IntVar(&sampleSize, "sample-size", 0, "evaluation sample size (default 30)")

	return cmd
}

// readEvalCSV parses a labeled evaluation CSV.
func readEvalCSV(path string) ([]models.EvalLead, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[normalizeHeader(name)] = i
	}

	var evalLeads []models.EvalLead
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}

		field := func(name string) string {
			i, ok := columns[name]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		lead := models.EvalLead{
			FullName:      field("full_name"),
			Title:         field("title"),
			Company:       field("company"),
			LinkedInURL:   field("linkedin_url"),
			EmployeeRange: field("employee_range"),
		}
		if raw := field("expected_rank"); raw != "" {
			rank, err := strconv.Atoi(raw)
			if err != nil || rank < 1 || rank > 10 {
				return nil, fmt.Errorf("invalid expected_rank %q for %s", raw, lead.FullName)
			}
			lead.ExpectedRank = &rank
		}
		evalLeads = append(evalLeads, lead)
	}

	return evalLeads, nil
}

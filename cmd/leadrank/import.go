package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/arthurmateu/throxy-project/internal/adapters/id"
	"github.com/arthurmateu/throxy-project/internal/adapters/postgres"
	"github.com/arthurmateu/throxy-project/internal/domain/models"
)

// importCmd loads leads from a CSV file into the database
func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <leads.csv>",
		Short: "Import leads from a CSV file",
		Long: `Import leads from a CSV file into the database.

The file must have a header row. Recognized columns (case-insensitive):
first_name, last_name, job_title, company_name, employee_range, industry.
Unknown columns are ignored. Rows without a company name are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			pool, err := initDB(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			leads, skipped, err := readLeadsCSV(args[0])
			if err != nil {
				return err
			}
			if len(leads) == 0 {
				return fmt.Errorf("no importable rows in %s", args[0])
			}

			// All rows land in one transaction so a mid-file failure
			// leaves the table untouched.
			leadRepo := postgres.NewLeadRepository(pool)
			txm := postgres.NewTransactionManager(pool)
			err = txm.WithTransaction(ctx, func(ctx context.Context) error {
				return leadRepo.CreateMany(ctx, leads)
			})
			if err != nil {
				return fmt.Errorf("failed to import leads: %w", err)
			}

			log.Printf("Imported %d leads (%d rows skipped)", len(leads), skipped)
			return nil
		},
	}
}

// readLeadsCSV parses a lead CSV with a flexible header.
func readLeadsCSV(path string) ([]*models.Lead, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read CSV header: %w", err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[normalizeHeader(name)] = i
	}

	idGen := id.New()
	now := time.Now()

	var leads []*models.Lead
	skipped := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("failed to read CSV row: %w", err)
		}

		field := func(name string) string {
			i, ok := columns[name]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		company := field("company_name")
		if company == "" {
			company = field("company")
		}
		if company == "" {
			skipped++
			continue
		}

		leads = append(leads, &models.Lead{
			ID:            idGen.GenerateLeadID(),
			FirstName:     field("first_name"),
			LastName:      field("last_name"),
			JobTitle:      field("job_title"),
			CompanyName:   company,
			EmployeeRange: field("employee_range"),
			Industry:      field("industry"),
			CreatedAt:     now,
		})
	}

	return leads, skipped, nil
}

// normalizeHeader folds header variants like "First Name" onto first_name.
func normalizeHeader(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, " ", "_")
	name = strings.ReplaceAll(name, "-", "_")
	return name
}

package commands

import (
	"encoding/json"
	"fmt"
	"os"

	storemodels "github.com/de-tools/invoice-atlas/pkg/models/store"
	"github.com/de-tools/invoice-atlas/pkg/store/duckdb"
	ratestore "github.com/de-tools/invoice-atlas/pkg/store/duckdb/rates"
	"github.com/spf13/cobra"
)

type SeedCmd struct {
	inputPath   string
	ratesDBPath string
}

type seedRecord struct {
	Classification    string  `json:"classification"`
	Location          string  `json:"location"`
	HourlyRate        float64 `json:"hourly_rate"`
	OvertimeThreshold float64 `json:"overtime_threshold"`
	Description       string  `json:"description"`
}

func NewSeedCmd() *cobra.Command {
	sc := &SeedCmd{}
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed MSA rate standards into the rates database",
		RunE:  sc.run,
	}

	cmd.Flags().StringVar(&sc.inputPath, "input", "", "Path to a JSON array of rate standards")
	cmd.Flags().StringVar(&sc.ratesDBPath, "rates-db", "", "Path to the rate standards database")

	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("rates-db")

	return cmd
}

func (sc *SeedCmd) run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	data, err := os.ReadFile(sc.inputPath)
	if err != nil {
		return fmt.Errorf("failed to read seed file: %w", err)
	}
	var seeds []seedRecord
	if err := json.Unmarshal(data, &seeds); err != nil {
		return fmt.Errorf("failed to parse seed file: %w", err)
	}

	db, err := duckdb.NewDB(duckdb.Settings{DbPath: sc.ratesDBPath})
	if err != nil {
		return fmt.Errorf("failed to open rates database: %w", err)
	}
	defer db.Close()

	store, err := ratestore.NewStore(db)
	if err != nil {
		return err
	}

	records := make([]storemodels.RateRecord, 0, len(seeds))
	for _, s := range seeds {
		threshold := s.OvertimeThreshold
		if threshold == 0 {
			threshold = 40.0
		}
		records = append(records, storemodels.RateRecord{
			Classification:    s.Classification,
			Location:          s.Location,
			HourlyRate:        s.HourlyRate,
			OvertimeThreshold: threshold,
			Description:       s.Description,
		})
	}

	if err := store.Seed(ctx, records); err != nil {
		return fmt.Errorf("failed to seed rate standards: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d rate standards into %s\n", len(records), sc.ratesDBPath)
	return nil
}

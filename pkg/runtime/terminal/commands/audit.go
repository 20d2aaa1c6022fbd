package commands

import (
	"encoding/json"
	"fmt"
	"os"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sagemakerruntime"
	"github.com/de-tools/invoice-atlas/pkg/adapters"
	"github.com/de-tools/invoice-atlas/pkg/models/api"
	"github.com/de-tools/invoice-atlas/pkg/models/domain"
	"github.com/de-tools/invoice-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/invoice-atlas/pkg/services/audit"
	"github.com/de-tools/invoice-atlas/pkg/services/audit/anomaly"
	"github.com/de-tools/invoice-atlas/pkg/services/config"
	"github.com/de-tools/invoice-atlas/pkg/services/rates"
	"github.com/de-tools/invoice-atlas/pkg/store/duckdb"
	ratestore "github.com/de-tools/invoice-atlas/pkg/store/duckdb/rates"
	"github.com/spf13/cobra"
)

type AuditCmd struct {
	inputPath     string
	ratesDBPath   string
	settingsPath  string
	modelEndpoint string
	region        string
	format        string
	reporter      *export.Reporter
}

func NewAuditCmd(reporter *export.Reporter) *cobra.Command {
	ac := &AuditCmd{reporter: reporter}
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Audit invoice entries against MSA rate standards",
		RunE:  ac.run,
	}

	cmd.Flags().StringVar(&ac.inputPath, "input", "", "Path to a JSON file with labor and material entries")
	cmd.Flags().StringVar(&ac.ratesDBPath, "rates-db", "", "Path to the rate standards database")
	cmd.Flags().StringVar(&ac.settingsPath, "settings", "", "Path to a YAML settings file (defaults apply when omitted)")
	cmd.Flags().StringVar(&ac.modelEndpoint, "model-endpoint", "", "Anomaly model endpoint name (statistical fallback only when omitted)")
	cmd.Flags().StringVar(&ac.region, "region", "", "AWS region for the anomaly model endpoint")
	cmd.Flags().StringVar(&ac.format, "format", "text", "Output format: text or json")

	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("rates-db")

	return cmd
}

func (ac *AuditCmd) run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	settings, err := config.LoadSettings(ac.settingsPath)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(ac.inputPath)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}
	var req api.AuditRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return fmt.Errorf("failed to parse input file: %w", err)
	}

	db, err := duckdb.NewDB(duckdb.Settings{DbPath: ac.ratesDBPath})
	if err != nil {
		return fmt.Errorf("failed to open rates database: %w", err)
	}
	defer db.Close()

	store, err := ratestore.NewStore(db)
	if err != nil {
		return err
	}
	resolver := rates.NewCachedResolver(store)

	var scorer anomaly.Scorer
	if ac.modelEndpoint != "" {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(ac.region))
		if err != nil {
			return fmt.Errorf("failed to load AWS config: %w", err)
		}
		scorer = anomaly.NewModelScorer(
			sagemakerruntime.NewFromConfig(awsCfg),
			ac.modelEndpoint,
			settings.Anomaly.ModelTimeout,
		)
	}
	detector := anomaly.NewDetector(scorer, settings.Anomaly)

	aggregator := audit.NewAggregator(resolver, detector, settings.Audit)

	labor := make([]domain.LaborEntry, 0, len(req.Labor))
	for _, e := range req.Labor {
		labor = append(labor, adapters.MapLaborEntryApiToDomain(e))
	}
	materials := make([]domain.MaterialEntry, 0, len(req.Materials))
	for _, e := range req.Materials {
		materials = append(materials, adapters.MapMaterialEntryApiToDomain(e))
	}

	report, err := aggregator.Analyze(ctx, labor, materials)
	if err != nil {
		return fmt.Errorf("audit failed: %w", err)
	}

	if ac.format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(adapters.MapReportDomainToApi(report))
	}
	return ac.reporter.Handle(report)
}

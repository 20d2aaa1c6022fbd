package main

import (
	"fmt"
	"net"
	"os"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sagemakerruntime"
	handlers "github.com/de-tools/invoice-atlas/pkg/handlers/audit"
	"github.com/de-tools/invoice-atlas/pkg/server"
	"github.com/de-tools/invoice-atlas/pkg/services/audit"
	"github.com/de-tools/invoice-atlas/pkg/services/audit/anomaly"
	"github.com/de-tools/invoice-atlas/pkg/services/chunking"
	"github.com/de-tools/invoice-atlas/pkg/services/config"
	"github.com/de-tools/invoice-atlas/pkg/services/rates"
	"github.com/de-tools/invoice-atlas/pkg/store/duckdb"
	ratestore "github.com/de-tools/invoice-atlas/pkg/store/duckdb/rates"
	"github.com/de-tools/invoice-atlas/pkg/store/reports"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	cfgPath      string
	profileName  string
	settingsPath string
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the web server for Invoice Atlas",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "invoice-atlas.ini",
		"Path to the vendor profiles file")
	rootCmd.Flags().StringVarP(&profileName, "profile", "p", "default",
		"Vendor profile to serve")
	rootCmd.Flags().StringVarP(&settingsPath, "settings", "s", "",
		"Path to a YAML settings file (defaults apply when omitted)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	registry, err := config.NewRegistry(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load vendor profiles: %w", err)
	}

	profile, err := registry.GetProfile(ctx, profileName)
	if err != nil {
		return fmt.Errorf("failed to resolve profile: %w", err)
	}

	settings, err := config.LoadSettings(settingsPath)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	db, err := duckdb.NewDB(duckdb.Settings{DbPath: profile.RatesDBPath})
	if err != nil {
		return fmt.Errorf("failed to open rates database: %w", err)
	}
	defer db.Close()

	store, err := ratestore.NewStore(db)
	if err != nil {
		return fmt.Errorf("failed to create rate store: %w", err)
	}
	resolver := rates.NewCachedResolver(store)

	var scorer anomaly.Scorer
	var archive handlers.Archiver
	if profile.ModelEndpoint != "" || profile.ReportBucket != "" {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(profile.Region))
		if err != nil {
			return fmt.Errorf("failed to load AWS config: %w", err)
		}
		if profile.ModelEndpoint != "" {
			scorer = anomaly.NewModelScorer(
				sagemakerruntime.NewFromConfig(awsCfg),
				profile.ModelEndpoint,
				settings.Anomaly.ModelTimeout,
			)
		}
		if profile.ReportBucket != "" {
			archive, err = reports.NewArchive(s3.NewFromConfig(awsCfg), profile.ReportBucket)
			if err != nil {
				return fmt.Errorf("failed to create report archive: %w", err)
			}
		}
	}

	detector := anomaly.NewDetector(scorer, settings.Anomaly)
	aggregator := audit.NewAggregator(resolver, detector, settings.Audit)
	chunker := chunking.NewChunker(settings.Chunking)

	logger.Info().Msgf("Serving vendor profile `%s` from `%s`", profile.Name, cfgPath)

	host := os.Getenv("SERVER_HOST")
	port := os.Getenv("SERVER_PORT")

	if host == "" || port == "" {
		logger.Error().Msgf("Missing server configuration from .env file")
		os.Exit(1)
	}

	api := server.NewWebAPI(logger, server.Config{
		Addr: net.JoinHostPort(host, port),
		Dependencies: server.Dependencies{
			Auditor: aggregator,
			Chunker: chunker,
			Rates:   resolver,
			Archive: archive,
		},
	})

	return api.Start()
}

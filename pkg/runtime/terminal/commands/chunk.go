package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/de-tools/invoice-atlas/pkg/adapters"
	"github.com/de-tools/invoice-atlas/pkg/models/api"
	"github.com/de-tools/invoice-atlas/pkg/services/chunking"
	"github.com/de-tools/invoice-atlas/pkg/services/config"
	"github.com/spf13/cobra"
)

type ChunkCmd struct {
	inputPath    string
	settingsPath string
}

func NewChunkCmd() *cobra.Command {
	cc := &ChunkCmd{}
	cmd := &cobra.Command{
		Use:   "chunk",
		Short: "Partition extracted document content into bounded chunks",
		RunE:  cc.run,
	}

	cmd.Flags().StringVar(&cc.inputPath, "input", "", "Path to a JSON file with extracted content")
	cmd.Flags().StringVar(&cc.settingsPath, "settings", "", "Path to a YAML settings file (defaults apply when omitted)")

	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func (cc *ChunkCmd) run(cmd *cobra.Command, args []string) error {
	settings, err := config.LoadSettings(cc.settingsPath)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(cc.inputPath)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}
	var req api.ChunkRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return fmt.Errorf("failed to parse input file: %w", err)
	}

	chunker := chunking.NewChunker(settings.Chunking)
	chunks := chunker.Chunk(adapters.MapChunkRequestApiToDomain(req))

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(adapters.MapChunksDomainToApi(chunks))
}

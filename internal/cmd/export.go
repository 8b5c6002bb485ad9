package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harrison/mvp/internal/deviation"
	"github.com/harrison/mvp/internal/export"
	"github.com/harrison/mvp/internal/filelock"
	"github.com/harrison/mvp/internal/models"
	"github.com/harrison/mvp/internal/parser"
	"github.com/harrison/mvp/internal/transform"
)

// NewExportCommand creates the export subcommand
func NewExportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <choice-file>",
		Short: "Export benchmark and proposed matrices to a spreadsheet",
		Long: `Write an Excel workbook with the tier's space programme, the benchmark
matrix, the proposed matrix after the file's choices, and the deviations
between them. Changed cells in the proposed matrix are highlighted.

Example:
  mvp export lakeside.yaml -o lakeside-matrix.xlsx`,
		Args: cobra.ExactArgs(1),
		RunE: runExport,
	}

	cmd.Flags().StringP("output", "o", "", "Workbook path (required, .xlsx)")
	cmd.Flags().Bool("drop-stale", false, "Ignore choices whose decision is not offered for the project's tier")
	cmd.MarkFlagRequired("output")

	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, nil, nil)
	if err != nil {
		return err
	}
	output, _ := cmd.Flags().GetString("output")
	dropStale, _ := cmd.Flags().GetBool("drop-stale")

	log, closeLog, err := newLogger(cmd.OutOrStdout(), cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	eng, err := newEngine(cfg)
	if err != nil {
		return err
	}

	cs, err := parser.ParseFile(args[0])
	if err != nil {
		return err
	}
	tier, err := resolveTier(cs)
	if err != nil {
		return err
	}
	preset, err := eng.Library().GetPreset(tier)
	if err != nil {
		return err
	}

	choices := cs.Choices
	if dropStale {
		decisions, err := eng.Catalog().DecisionsForTier(tier)
		if err != nil {
			return err
		}
		var stale []models.Choice
		choices, stale = transform.PruneChoices(decisions, choices)
		if len(stale) > 0 {
			log.LogStaleChoices(stale)
		}
	}

	proposed, err := eng.Propose(preset, choices)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	devs := deviation.Detect(preset.Matrix, proposed)

	data, err := export.MatrixWorkbook(preset, proposed, devs)
	if err != nil {
		return fmt.Errorf("failed to build workbook: %w", err)
	}
	if err := filelock.AtomicWrite(output, data); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	log.LogInfo(fmt.Sprintf("Exported %s (tier %s, %d deviation(s)) to %s", args[0], tier, len(devs), output))
	return nil
}

package cmd

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/harrison/mvp/internal/benchmark"
	"github.com/harrison/mvp/internal/catalog"
	"github.com/harrison/mvp/internal/models"
)

// NewTierCommand creates the tier subcommand
func NewTierCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tier <target-area>",
		Short: "Resolve the size tier for a target floor area",
		Long: `Print the benchmark tier a target floor area (square feet) falls into.

Brackets: under 7,500 is 5k; under 12,500 is 10k; under 17,500 is 15k;
anything larger is 20k.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			area, err := strconv.ParseFloat(strings.ReplaceAll(args[0], ",", ""), 64)
			if err != nil {
				return fmt.Errorf("invalid target area %q: %w", args[0], err)
			}
			tier, err := benchmark.ResolveTier(area)
			if err != nil {
				return err
			}
			lib, err := benchmark.Default()
			if err != nil {
				return fmt.Errorf("failed to load benchmark presets: %w", err)
			}
			preset, err := lib.GetPreset(tier)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", tier, preset.Name)
			return nil
		},
	}
}

// NewPresetCommand creates the preset subcommand
func NewPresetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preset <tier>",
		Short: "Show the benchmark preset for a tier",
		Long: `Print the space programme, benchmark adjacency relationships and bridge
requirements of a tier (5k, 10k, 15k or 20k).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")

			lib, err := benchmark.Default()
			if err != nil {
				return fmt.Errorf("failed to load benchmark presets: %w", err)
			}
			preset, err := lib.GetPreset(models.TierID(strings.ToLower(args[0])))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(preset)
			}

			fmt.Fprintf(out, "%s (%s): %d spaces, %.0f SF programmed\n\n",
				preset.Name, preset.ID, len(preset.Spaces), preset.TotalArea())

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CODE\tNAME\tZONE\tLEVEL\tAREA")
			for _, s := range preset.Spaces {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%.0f\n", s.Code, s.Name, s.Zone, s.Level, s.TargetArea)
			}
			tw.Flush()

			fmt.Fprintf(out, "\nRelationships (%d):\n", preset.Matrix.Len())
			tw = tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			for _, e := range preset.Matrix.Entries() {
				fmt.Fprintf(tw, "  %s\t->\t%s\t%s\n", e.From, e.To, e.Relationship)
			}
			tw.Flush()

			fmt.Fprintln(out, "\nBridges:")
			ids := make([]string, 0, len(preset.BridgeRequirements))
			for id := range preset.BridgeRequirements {
				ids = append(ids, id)
			}
			sort.Strings(ids)
			for _, id := range ids {
				req := "optional"
				if preset.BridgeRequirements[id] {
					req = "required"
				}
				fmt.Fprintf(out, "  %s: %s\n", id, req)
			}
			return nil
		},
	}
	cmd.Flags().Bool("json", false, "Print the preset as JSON")
	return cmd
}

// NewDecisionsCommand creates the decisions subcommand
func NewDecisionsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decisions [tier]",
		Short: "List the design decisions offered for a tier",
		Long: `List decisions and their options. With a tier, only decisions offered for
that tier are shown. The default option of each decision is marked with *.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := catalog.Default()
			if err != nil {
				return fmt.Errorf("failed to load decision catalog: %w", err)
			}

			decisions := cat.Decisions()
			if len(args) == 1 {
				decisions, err = cat.DecisionsForTier(models.TierID(strings.ToLower(args[0])))
				if err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			for i, d := range decisions {
				if i > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprintf(out, "%s (from %s)\n  %s\n", d.ID, d.MinTier, d.Title)
				for _, o := range d.Options {
					marker := " "
					if o.IsDefault {
						marker = "*"
					}
					fmt.Fprintf(out, "  %s %-22s %s\n", marker, o.ID, o.Label)
				}
			}
			return nil
		},
	}
	return cmd
}

package cmd

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/harrison/mvp/internal/config"
	"github.com/harrison/mvp/internal/history"
	"github.com/harrison/mvp/internal/models"
	"github.com/harrison/mvp/internal/render"
	"github.com/harrison/mvp/internal/validation/gate"
)

// NewHistoryCommand creates the history command group
func NewHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect recorded validation runs",
		Long: `Query the validation history database.

Runs are recorded by 'mvp validate --record' or when history.enabled is set
in .mvp/config.yaml. Run ids may be abbreviated to any unique prefix.`,
	}

	cmd.AddCommand(newHistoryListCommand())
	cmd.AddCommand(newHistoryShowCommand())
	cmd.AddCommand(newHistoryAuditCommand())
	cmd.AddCommand(newHistoryStatsCommand())
	cmd.AddCommand(newHistoryPruneCommand())

	return cmd
}

// withHistory loads config, opens the store and runs fn against it.
func withHistory(cmd *cobra.Command, fn func(ctx context.Context, cfg *config.Config, store *history.Store) error) error {
	cfg, err := loadConfig(cmd, nil, nil)
	if err != nil {
		return err
	}
	store, err := openHistory(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return fn(ctx, cfg, store)
}

func newHistoryListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			project, _ := cmd.Flags().GetString("project")
			tier, _ := cmd.Flags().GetString("tier")
			gateFlag, _ := cmd.Flags().GetString("gate")
			limit, _ := cmd.Flags().GetInt("limit")

			filter := history.ListFilter{Project: project, Tier: models.TierID(tier), Limit: limit}
			if gateFlag != "" {
				g, err := gate.ParseStatus(gateFlag)
				if err != nil {
					return err
				}
				filter.Gate = g
			}

			return withHistory(cmd, func(ctx context.Context, cfg *config.Config, store *history.Store) error {
				runs, err := store.List(ctx, filter)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(runs) == 0 {
					fmt.Fprintln(out, "No recorded runs.")
					return nil
				}
				tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tCOMPUTED\tPROJECT\tTIER\tSCORE\tGATE")
				for _, r := range runs {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\n",
						shortID(r.ID), r.ComputedAt.Local().Format("2006-01-02 15:04"),
						r.Project, r.Tier, r.OverallScore, r.GateStatus)
				}
				return tw.Flush()
			})
		},
	}
	cmd.Flags().String("project", "", "Only runs for this project")
	cmd.Flags().String("tier", "", "Only runs for this tier")
	cmd.Flags().String("gate", "", "Only runs with this gate: pass, warning, fail")
	cmd.Flags().Int("limit", 20, "Maximum number of runs (0 = all)")
	return cmd
}

func newHistoryShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")

			return withHistory(cmd, func(ctx context.Context, cfg *config.Config, store *history.Store) error {
				result, err := store.Get(ctx, args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if format == render.FormatText {
					log, closeLog, err := newLogger(out, cfg)
					if err != nil {
						return err
					}
					defer closeLog()
					log.LogValidation(result)
					return nil
				}
				data, err := render.Render(result, format)
				if err != nil {
					return err
				}
				_, err = out.Write(data)
				return err
			})
		},
	}
	cmd.Flags().String("format", render.FormatText, "Output format: text, json, markdown, html")
	return cmd
}

func newHistoryAuditCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "audit [run-id...]",
		Short: "Re-check recorded runs for internal consistency",
		Long: `Re-derive each run's module pass flags, overall score and gate from its
stored module scores, bridge statuses and red flags, and report every field
that disagrees. Without ids every recorded run is audited.

Exits with an error when any run has findings.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistory(cmd, func(ctx context.Context, cfg *config.Config, store *history.Store) error {
				ids := args
				if len(ids) == 0 {
					runs, err := store.List(ctx, history.ListFilter{})
					if err != nil {
						return err
					}
					for _, r := range runs {
						ids = append(ids, r.ID)
					}
				}

				out := cmd.OutOrStdout()
				inconsistent := 0
				for _, id := range ids {
					result, err := store.Get(ctx, id)
					if err != nil {
						return err
					}
					findings := gate.Audit(result, cfg.Scoring.WarningThreshold)
					if len(findings) == 0 {
						continue
					}
					inconsistent++
					fmt.Fprintf(out, "%s (%s):\n", shortID(result.ID), result.Project)
					for _, f := range findings {
						fmt.Fprintf(out, "  %s\n", f)
					}
				}

				if inconsistent > 0 {
					return fmt.Errorf("%d of %d run(s) are inconsistent", inconsistent, len(ids))
				}
				fmt.Fprintf(out, "%d run(s) audited, all consistent\n", len(ids))
				return nil
			})
		},
	}
}

func newHistoryStatsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show how often each decision option was chosen",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tier, _ := cmd.Flags().GetString("tier")

			return withHistory(cmd, func(ctx context.Context, cfg *config.Config, store *history.Store) error {
				counts, err := store.OptionCounts(ctx, models.TierID(tier))
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(counts) == 0 {
					fmt.Fprintln(out, "No recorded choices.")
					return nil
				}
				tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "DECISION\tOPTION\tRUNS")
				for _, c := range counts {
					fmt.Fprintf(tw, "%s\t%s\t%d\n", c.DecisionID, c.OptionID, c.Runs)
				}
				return tw.Flush()
			})
		},
	}
	cmd.Flags().String("tier", "", "Only runs for this tier")
	return cmd
}

func newHistoryPruneCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete runs older than --keep-days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			keepDays, _ := cmd.Flags().GetInt("keep-days")
			if keepDays <= 0 {
				return fmt.Errorf("--keep-days must be positive")
			}

			return withHistory(cmd, func(ctx context.Context, cfg *config.Config, store *history.Store) error {
				n, err := store.Prune(ctx, keepDays, time.Now())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d run(s) older than %d days\n", n, keepDays)
				return nil
			})
		},
	}
	cmd.Flags().Int("keep-days", 90, "Keep runs computed within this many days")
	return cmd
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/harrison/mvp/internal/display"
	"github.com/harrison/mvp/internal/engine"
	"github.com/harrison/mvp/internal/filelock"
	"github.com/harrison/mvp/internal/fileutil"
	"github.com/harrison/mvp/internal/logger"
	"github.com/harrison/mvp/internal/models"
	"github.com/harrison/mvp/internal/parser"
	"github.com/harrison/mvp/internal/render"
	"github.com/harrison/mvp/internal/transform"
	"github.com/harrison/mvp/internal/validation/gate"
)

// GateError is returned by validate when a run's gate reaches --fail-on.
type GateError struct {
	Gate   models.GateStatus
	FailOn models.GateStatus
	File   string
}

func (e *GateError) Error() string {
	return fmt.Sprintf("%s: gate %s reaches --fail-on %s", e.File, e.Gate, e.FailOn)
}

// NewValidateCommand creates and returns the validate subcommand
func NewValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <choice-file-or-directory>...",
		Short: "Validate one or more choice files",
		Long: `Apply each choice file's decisions to its tier benchmark and report the
module scores, bridge status, red flags and overall gate.

Choice files are YAML (.yaml, .yml) or Markdown worksheets (.md, .markdown).
Directories are scanned for choice files.

Examples:
  mvp validate lakeside.yaml
  mvp validate projects/ --recursive --format markdown
  mvp validate lakeside.md --format html --output lakeside.html
  mvp validate projects/ --fail-on warning   # non-zero exit for CI

Exit code: 1 when a choice file is invalid, 2 when --fail-on is reached, otherwise 0`,
		Args: cobra.MinimumNArgs(1),
		RunE: runValidate,
	}

	cmd.Flags().String("format", "", "Report format: text, json, markdown, html (default from config)")
	cmd.Flags().StringP("output", "o", "", "Write the report to a file instead of stdout (single choice file only)")
	cmd.Flags().Bool("record", false, "Record the run in the history database")
	cmd.Flags().Bool("drop-stale", false, "Ignore choices whose decision is not offered for the project's tier")
	cmd.Flags().String("fail-on", "", "Return an error when a gate is at least this bad: warning or fail")
	cmd.Flags().BoolP("recursive", "r", false, "Scan directories recursively")

	return cmd
}

func runValidate(cmd *cobra.Command, args []string) error {
	var formatPtr *string
	if cmd.Flags().Changed("format") {
		v, _ := cmd.Flags().GetString("format")
		formatPtr = &v
	}
	var recordPtr *bool
	if cmd.Flags().Changed("record") {
		v, _ := cmd.Flags().GetBool("record")
		recordPtr = &v
	}
	cfg, err := loadConfig(cmd, formatPtr, recordPtr)
	if err != nil {
		return err
	}

	output, _ := cmd.Flags().GetString("output")
	dropStale, _ := cmd.Flags().GetBool("drop-stale")
	recursive, _ := cmd.Flags().GetBool("recursive")
	failOnFlag, _ := cmd.Flags().GetString("fail-on")

	var failOn models.GateStatus
	if failOnFlag != "" {
		failOn, err = gate.ParseStatus(failOnFlag)
		if err != nil {
			return fmt.Errorf("invalid --fail-on: %w", err)
		}
		if failOn == models.GatePass {
			return fmt.Errorf("invalid --fail-on: use warning or fail")
		}
	}

	files, err := fileutil.ExpandChoicePaths(args, recursive)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no choice files found (supported: .md, .markdown, .yaml, .yml)")
	}
	if output != "" && len(files) > 1 {
		return fmt.Errorf("--output needs exactly one choice file, got %d", len(files))
	}
	if output != "" && cfg.Format == render.FormatText {
		return fmt.Errorf("--output needs --format json, markdown or html")
	}

	eng, err := newEngine(cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	// Machine-readable reports own stdout; logs move to stderr.
	logOut := out
	if cfg.Format != render.FormatText && output == "" {
		logOut = cmd.ErrOrStderr()
	}
	log, closeLog, err := newLogger(logOut, cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	v := &validator{
		engine:      eng,
		log:         log,
		dropStale:   dropStale,
		interactive: isTerminal(out),
		out:         out,
	}

	if cfg.History.Enabled {
		store, err := openHistory(cfg)
		if err != nil {
			return err
		}
		defer store.Close()
		v.record = store.Record
		defer func() {
			if n, err := store.Prune(context.Background(), cfg.History.KeepDays, time.Now()); err != nil {
				log.LogWarn(fmt.Sprintf("history prune failed: %v", err))
			} else if n > 0 {
				log.LogDebug(fmt.Sprintf("pruned %d run(s) older than %d days", n, cfg.History.KeepDays))
			}
		}()
	}

	var progress *display.ProgressIndicator
	if v.interactive && len(files) > 1 {
		progress = display.NewProgressIndicator(out, len(files), true)
		progress.Start()
	}

	var gateErr *GateError
	for _, file := range files {
		if progress != nil {
			progress.Step(file)
		}

		result, err := v.validateFile(cmd.Context(), file)
		if err != nil {
			return err
		}

		if cfg.Format != render.FormatText {
			data, err := render.Render(result, cfg.Format)
			if err != nil {
				return err
			}
			if output != "" {
				if err := filelock.AtomicWrite(output, data); err != nil {
					return fmt.Errorf("failed to write report: %w", err)
				}
				log.LogInfo(fmt.Sprintf("Report written to %s", output))
			} else {
				out.Write(data)
			}
		}

		if progress != nil {
			progress.Record(result.GateStatus)
		}
		if failOn != "" && gateErr == nil && gate.Ordinal(result.GateStatus) >= gate.Ordinal(failOn) {
			gateErr = &GateError{Gate: result.GateStatus, FailOn: failOn, File: file}
		}
	}

	if progress != nil {
		progress.Complete()
	}

	if gateErr != nil {
		return gateErr
	}
	return nil
}

// validator runs one choice file through the engine and reports it.
type validator struct {
	engine      *engine.Engine
	log         logger.Logger
	dropStale   bool
	interactive bool
	out         io.Writer
	record      func(ctx context.Context, result *models.ValidationResult, choiceFile string) error
}

func (v *validator) validateFile(ctx context.Context, path string) (*models.ValidationResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	cs, err := parser.ParseFile(path)
	if err != nil {
		return nil, err
	}
	tier, err := resolveTier(cs)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	v.log.LogDebug(fmt.Sprintf("%s: project %q, tier %s, %d choice(s)", path, cs.Project, tier, len(cs.Choices)))

	choices := cs.Choices
	if v.dropStale {
		decisions, err := v.engine.Catalog().DecisionsForTier(tier)
		if err != nil {
			return nil, err
		}
		var stale []models.Choice
		choices, stale = transform.PruneChoices(decisions, choices)
		if len(stale) > 0 {
			v.log.LogStaleChoices(stale)
			if v.interactive {
				display.WarnStaleChoices(stale).Display(v.out)
			}
		}
	}

	result, err := v.engine.RunTier(tier, choices,
		engine.WithProject(cs.Project),
		engine.WithChecklist(cs.Checklist),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	v.log.LogValidation(result)
	if missing := result.MissingBridges(); len(missing) > 0 && v.interactive {
		display.WarnMissingBridges(missing).Display(v.out)
	}

	if v.record != nil {
		if err := v.record(ctx, result, cs.FilePath); err != nil {
			return nil, fmt.Errorf("failed to record run: %w", err)
		}
		v.log.LogDebug(fmt.Sprintf("recorded run %s", result.ID))
	}
	return result, nil
}

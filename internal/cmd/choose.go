package cmd

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harrison/mvp/internal/catalog"
	"github.com/harrison/mvp/internal/filelock"
	"github.com/harrison/mvp/internal/models"
	"github.com/harrison/mvp/internal/parser"
)

// NewChooseCommand creates the choose subcommand
func NewChooseCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "choose <choice-file> <decision> <option>",
		Short: "Record a decision option in a YAML choice file",
		Long: `Select an option for a decision and write it to a YAML choice file.

The decision must be offered for the file's tier and the option must belong
to the decision. An earlier selection for the same decision is replaced.
When the file does not exist it is created; pass --area or --tier to set
the project size.

The file is locked while it is updated so concurrent edits are not lost.

Examples:
  mvp choose lakeside.yaml kitchen-dining-connection open-plan
  mvp choose new.yaml garage-entry via-mudroom --project "Ridge House" --area 9800`,
		Args: cobra.ExactArgs(3),
		RunE: runChoose,
	}

	cmd.Flags().String("project", "", "Project name for a new choice file")
	cmd.Flags().Float64("area", 0, "Target floor area for a new choice file")
	cmd.Flags().String("tier", "", "Tier for a new choice file (overrides --area)")

	return cmd
}

func runChoose(cmd *cobra.Command, args []string) error {
	path, decisionID, optionID := args[0], args[1], args[2]
	if parser.DetectFormat(path) != parser.FormatYAML {
		return fmt.Errorf("%s: choose only edits YAML choice files (.yaml, .yml)", path)
	}

	project, _ := cmd.Flags().GetString("project")
	area, _ := cmd.Flags().GetFloat64("area")
	tierFlag, _ := cmd.Flags().GetString("tier")

	cat, err := catalog.Default()
	if err != nil {
		return fmt.Errorf("failed to load decision catalog: %w", err)
	}

	var previous string
	var tier models.TierID
	err = filelock.Update(path, func(current []byte) ([]byte, error) {
		cs := &models.ChoiceSet{}
		var err error
		if len(bytes.TrimSpace(current)) > 0 {
			cs, err = parser.NewYAMLParser().Parse(bytes.NewReader(current))
			if err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
		} else {
			cs.Project = project
			cs.TargetArea = area
			cs.Tier = models.TierID(tierFlag)
		}

		if err := cs.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		tier, err = resolveTier(cs)
		if err != nil {
			return nil, err
		}

		decisions, err := cat.DecisionsForTier(tier)
		if err != nil {
			return nil, err
		}
		var decision *models.Decision
		for i := range decisions {
			if decisions[i].ID == decisionID {
				decision = &decisions[i]
				break
			}
		}
		if decision == nil {
			return nil, &models.UnknownDecisionError{DecisionID: decisionID, Tier: tier}
		}
		if _, ok := decision.Option(optionID); !ok {
			return nil, &models.UnknownOptionError{DecisionID: decisionID, OptionID: optionID}
		}

		previous, _ = cs.Selected(decisionID)
		cs.Select(decisionID, optionID)
		return parser.EncodeYAML(cs)
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch previous {
	case "":
		fmt.Fprintf(out, "%s: %s = %s (tier %s)\n", path, decisionID, optionID, tier)
	case optionID:
		fmt.Fprintf(out, "%s: %s already %s\n", path, decisionID, optionID)
	default:
		fmt.Fprintf(out, "%s: %s = %s (was %s)\n", path, decisionID, optionID, previous)
	}
	return nil
}

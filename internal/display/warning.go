package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/harrison/mvp/internal/models"
)

// Warning represents a user-facing warning message
type Warning struct {
	Title      string   // Main warning title
	Message    string   // Detailed explanation (optional)
	Items      []string // Affected choices, bridges or files (optional)
	ItemLabel  string   // Singular noun for Items, defaults to "item"
	Suggestion string   // Action to take (optional)
}

// Display shows a formatted warning in yellow
func (w Warning) Display(out io.Writer) {
	var b strings.Builder

	b.WriteString("\x1b[33m")
	b.WriteString("⚠️  Warning: ")
	b.WriteString(w.Title)
	b.WriteString("\n")

	if w.Message != "" {
		b.WriteString("    ")
		b.WriteString(w.Message)
		b.WriteString("\n")
	}

	if len(w.Items) > 0 {
		label := w.ItemLabel
		if label == "" {
			label = "item"
		}
		if len(w.Items) == 1 {
			fmt.Fprintf(&b, "    Affected %s:\n", label)
		} else {
			fmt.Fprintf(&b, "    Affected %ss:\n", label)
		}
		for i, item := range w.Items {
			fmt.Fprintf(&b, "      %d. %s\n", i+1, item)
		}
	}

	if w.Suggestion != "" {
		b.WriteString("    Suggestion:\n")
		b.WriteString("    ")
		b.WriteString(w.Suggestion)
		b.WriteString("\n")
	}

	b.WriteString("\x1b[0m")

	fmt.Fprint(out, b.String())
}

// WarnStaleChoices creates a warning for choices whose decision is not
// offered for the project's tier
func WarnStaleChoices(choices []models.Choice) Warning {
	items := make([]string, 0, len(choices))
	for _, c := range choices {
		items = append(items, c.DecisionID+" = "+c.SelectedOptionID)
	}
	return Warning{
		Title:      "Choices Not Offered For This Tier",
		Message:    "These decisions belong to a different size tier and were ignored.",
		Items:      items,
		ItemLabel:  "choice",
		Suggestion: "Remove them from the choice file or change the project's target area.",
	}
}

// WarnMissingBridges creates a warning for required bridges the proposed
// design does not provide
func WarnMissingBridges(bridges []models.BridgeStatus) Warning {
	items := make([]string, 0, len(bridges))
	for _, b := range bridges {
		items = append(items, fmt.Sprintf("%s (%s)", b.Name, b.BridgeID))
	}
	return Warning{
		Title:     "Required Bridges Missing",
		Items:     items,
		ItemLabel: "bridge",
	}
}

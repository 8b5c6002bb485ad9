// Package render produces report output from a ValidationResult.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/harrison/mvp/internal/models"
)

// Format names accepted by Render.
const (
	FormatText     = "text"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
)

// Render dispatches to the renderer for format. Text output is produced by
// the console logger and is not handled here.
func Render(result *models.ValidationResult, format string) ([]byte, error) {
	switch format {
	case FormatJSON:
		return RenderJSON(result)
	case FormatMarkdown:
		if result == nil {
			return nil, fmt.Errorf("render: nil result")
		}
		return []byte(RenderMarkdown(result)), nil
	case FormatHTML:
		return RenderHTML(result)
	default:
		return nil, fmt.Errorf("render: unsupported format %q", format)
	}
}

// RenderJSON produces a pretty-printed JSON representation of the result.
func RenderJSON(result *models.ValidationResult) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("render: nil result")
	}
	b, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("render: json marshal: %w", err)
	}
	return append(b, '\n'), nil
}

// RenderMarkdown produces a GitHub-flavoured Markdown report.
func RenderMarkdown(result *models.ValidationResult) string {
	if result == nil {
		return ""
	}
	var sb strings.Builder

	sb.WriteString("## Adjacency Validation Report\n\n")
	if result.Project != "" {
		fmt.Fprintf(&sb, "**Project:** %s  \n", mdEscape(result.Project))
	}
	fmt.Fprintf(&sb, "**Tier:** %s  \n", result.Tier)
	fmt.Fprintf(&sb, "**Gate:** %s  \n", strings.ToUpper(string(result.GateStatus)))
	fmt.Fprintf(&sb, "**Overall score:** %d/100  \n", result.OverallScore)
	fmt.Fprintf(&sb, "**Computed at:** %s  \n", result.ComputedAt.UTC().Format(time.RFC3339))
	if result.ID != "" {
		fmt.Fprintf(&sb, "**Run:** `%s`\n", result.ID)
	}
	sb.WriteString("\n")

	if len(result.ModuleScores) > 0 {
		sb.WriteString("### Modules\n\n")
		sb.WriteString("| Module | Score | Threshold | Deviations | Checklist | Result |\n")
		sb.WriteString("|---|---|---|---|---|---|\n")
		for _, m := range result.ModuleScores {
			status := "pass"
			if !m.Passed {
				status = "**fail**"
			}
			checklist := "-"
			if m.ChecklistItems > 0 {
				checklist = fmt.Sprintf("%d/%d", m.ChecklistCompleted, m.ChecklistItems)
			}
			fmt.Fprintf(&sb, "| %s | %d | %d | %d | %s | %s |\n",
				mdEscape(moduleLabel(m)), m.Score, m.Threshold, m.DeviationCount, checklist, status)
		}
		sb.WriteString("\n")
	}

	if len(result.BridgeStatuses) > 0 {
		sb.WriteString("### Bridges\n\n")
		sb.WriteString("| Bridge | Required | Present |\n")
		sb.WriteString("|---|---|---|\n")
		for _, b := range result.BridgeStatuses {
			name := b.BridgeID
			if b.Name != "" {
				name = b.Name
			}
			if b.Missing() {
				name = "**" + name + "** (missing)"
			}
			fmt.Fprintf(&sb, "| %s | %s | %s |\n", mdEscape(name), yesNo(b.Required), yesNo(b.Present))
		}
		sb.WriteString("\n")
	}

	if flags := result.TriggeredRedFlags(); len(flags) > 0 {
		sb.WriteString("### Red flags\n\n")
		for _, f := range flags {
			name := f.RuleID
			if f.Name != "" {
				name = f.Name
			}
			fmt.Fprintf(&sb, "- **%s** (`%s`)\n", mdEscape(name), f.RuleID)
		}
		sb.WriteString("\n")
	}

	if len(result.Deviations) > 0 {
		sb.WriteString("### Deviations from benchmark\n\n")
		sb.WriteString("| From | To | Benchmark | Proposed |\n")
		sb.WriteString("|---|---|---|---|\n")
		for _, d := range result.Deviations {
			fmt.Fprintf(&sb, "| %s | %s | %s | %s |\n", d.From, d.To, d.Desired, d.Proposed)
		}
		sb.WriteString("\n")
	}

	if len(result.Choices) > 0 {
		sb.WriteString("### Choices\n\n")
		for _, c := range result.Choices {
			fmt.Fprintf(&sb, "- `%s`: `%s`\n", c.DecisionID, c.SelectedOptionID)
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// RenderHTML converts the Markdown report to a standalone HTML page.
func RenderHTML(result *models.ValidationResult) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("render: nil result")
	}

	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	var body bytes.Buffer
	if err := md.Convert([]byte(RenderMarkdown(result)), &body); err != nil {
		return nil, fmt.Errorf("render: markdown to html: %w", err)
	}

	title := "Adjacency Validation"
	if result.Project != "" {
		title += ": " + result.Project
	}

	var out bytes.Buffer
	out.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&out, "<title>%s</title>\n", html.EscapeString(title))
	out.WriteString("<style>body{font-family:sans-serif;max-width:60em;margin:2em auto}" +
		"table{border-collapse:collapse}td,th{border:1px solid #ccc;padding:.25em .6em}</style>\n")
	out.WriteString("</head>\n")
	fmt.Fprintf(&out, "<body class=\"gate-%s\">\n", html.EscapeString(string(result.GateStatus)))
	out.Write(body.Bytes())
	out.WriteString("</body>\n</html>\n")
	return out.Bytes(), nil
}

func moduleLabel(m models.ModuleScore) string {
	if m.Name == "" {
		return m.ModuleID
	}
	return m.Name
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// mdEscape replaces characters that would break Markdown table cells.
func mdEscape(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", "")
	return s
}

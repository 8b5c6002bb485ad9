package parser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/harrison/mvp/internal/models"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		filename string
		want     Format
	}{
		{"lakeside.md", FormatMarkdown},
		{"lakeside.markdown", FormatMarkdown},
		{"LAKESIDE.MD", FormatMarkdown},
		{"lakeside.yaml", FormatYAML},
		{"lakeside.yml", FormatYAML},
		{"lakeside.json", FormatUnknown},
		{"lakeside", FormatUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			if got := DetectFormat(tt.filename); got != tt.want {
				t.Errorf("DetectFormat(%q) = %v, want %v", tt.filename, got, tt.want)
			}
		})
	}
}

func TestNewParser_Unknown(t *testing.T) {
	if _, err := NewParser(FormatUnknown); err == nil {
		t.Error("Expected error for unknown format")
	}
}

func TestParseYAML(t *testing.T) {
	doc := `project: Lakeside Residence
target_area: 9800
choices:
  - decision: kitchen-dining-connection
    option: open-plan
  - decision: home-office
    option: front-of-house
checklist:
  kitchen: 4
`
	cs, err := NewYAMLParser().Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if cs.Project != "Lakeside Residence" {
		t.Errorf("Project = %q", cs.Project)
	}
	if cs.TargetArea != 9800 {
		t.Errorf("TargetArea = %v", cs.TargetArea)
	}
	if len(cs.Choices) != 2 || cs.Choices[1].SelectedOptionID != "front-of-house" {
		t.Errorf("Unexpected choices: %+v", cs.Choices)
	}
	if cs.Checklist["kitchen"] != 4 {
		t.Errorf("Checklist = %v", cs.Checklist)
	}
}

func TestParseYAML_UnknownField(t *testing.T) {
	_, err := NewYAMLParser().Parse(strings.NewReader("project: x\nchoise: []\n"))
	if err == nil {
		t.Fatal("Expected error for unknown field")
	}
}

func TestParseYAML_Empty(t *testing.T) {
	cs, err := NewYAMLParser().Parse(strings.NewReader("\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(cs.Choices) != 0 {
		t.Errorf("Expected no choices, got %v", cs.Choices)
	}
}

func TestEncodeYAML_RoundTrip(t *testing.T) {
	cs := &models.ChoiceSet{
		Project:    "Hillcrest",
		Tier:       models.Tier15K,
		TargetArea: 14000,
		Choices:    []models.Choice{{DecisionID: "garage-entry", SelectedOptionID: "direct-to-foyer"}},
	}
	data, err := EncodeYAML(cs)
	if err != nil {
		t.Fatalf("EncodeYAML failed: %v", err)
	}
	if !strings.Contains(string(data), "decision: garage-entry") {
		t.Errorf("Encoded document missing choice:\n%s", data)
	}

	back, err := NewYAMLParser().Parse(strings.NewReader(string(data)))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if back.Tier != models.Tier15K || len(back.Choices) != 1 {
		t.Errorf("Round trip lost data: %+v", back)
	}
}

func TestParseMarkdown(t *testing.T) {
	doc := `---
project: Lakeside Residence
target_area: 9800
---
# Lakeside decisions

## Decision: kitchen-dining-connection
The clients cook together most evenings.
Selected: ` + "`open-plan`" + `

## Decision: garage-entry
Still discussing with the builder.

## Decision: home-office

- Selected: **front-of-house**

### Notes
Meetings twice a week.

## Checklist
- kitchen: 4
- primary-suite: 2
`
	cs, err := NewMarkdownParser().Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if cs.Project != "Lakeside Residence" || cs.TargetArea != 9800 {
		t.Errorf("Frontmatter not applied: %+v", cs)
	}

	want := []models.Choice{
		{DecisionID: "kitchen-dining-connection", SelectedOptionID: "open-plan"},
		{DecisionID: "home-office", SelectedOptionID: "front-of-house"},
	}
	if len(cs.Choices) != len(want) {
		t.Fatalf("Expected %d choices, got %+v", len(want), cs.Choices)
	}
	for i := range want {
		if cs.Choices[i] != want[i] {
			t.Errorf("choice %d = %+v, want %+v", i, cs.Choices[i], want[i])
		}
	}

	if cs.Checklist["kitchen"] != 4 || cs.Checklist["primary-suite"] != 2 {
		t.Errorf("Checklist = %v", cs.Checklist)
	}
}

func TestParseMarkdown_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "two selections",
			doc:  "## Decision: garage-entry\nSelected: a\n\nSelected: b\n",
			want: "more than one Selected",
		},
		{
			name: "bad checklist count",
			doc:  "## Checklist\n- kitchen: lots\n",
			want: "not a number",
		},
		{
			name: "malformed checklist entry",
			doc:  "## Checklist\n- kitchen is done\n",
			want: "module: completed",
		},
		{
			name: "unknown frontmatter key",
			doc:  "---\nprojet: x\n---\n",
			want: "frontmatter",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMarkdownParser().Parse(strings.NewReader(tt.doc))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "lakeside.yaml")
	if err := os.WriteFile(yamlPath, []byte("project: Lakeside\ntier: 10k\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cs, err := ParseFile(yamlPath)
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	if !filepath.IsAbs(cs.FilePath) {
		t.Errorf("FilePath should be absolute, got %q", cs.FilePath)
	}

	mdPath := filepath.Join(dir, "ridge.md")
	if err := os.WriteFile(mdPath, []byte("---\ntarget_area: 5000\n---\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ParseFile(mdPath); err != nil {
		t.Errorf("ParseFile(markdown) failed: %v", err)
	}

	missingTier := filepath.Join(dir, "empty.yaml")
	if err := os.WriteFile(missingTier, []byte("project: Empty\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ParseFile(missingTier); err == nil {
		t.Error("Expected validation error for a file without tier or area")
	}

	if _, err := ParseFile(filepath.Join(dir, "notes.txt")); err == nil {
		t.Error("Expected error for unsupported extension")
	}
}

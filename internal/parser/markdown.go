package parser

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v3"

	"github.com/harrison/mvp/internal/models"
)

// MarkdownParser reads choice worksheets:
//
//	---
//	project: Lakeside
//	target_area: 9800
//	---
//	## Decision: kitchen-dining-connection
//	Selected: open-plan
//
//	## Checklist
//	- kitchen: 4
//
// A decision section without a Selected line is left undecided.
type MarkdownParser struct {
	markdown goldmark.Markdown
}

var (
	decisionHeading = regexp.MustCompile(`(?i)^decision:\s*(\S+)\s*$`)
	selectedLine    = regexp.MustCompile(`(?i)^selected:\s*(.*)$`)
	checklistLine   = regexp.MustCompile(`^([A-Za-z0-9_-]+)\s*:\s*(\S+)\s*$`)
)

// NewMarkdownParser creates a worksheet parser.
func NewMarkdownParser() *MarkdownParser {
	return &MarkdownParser{
		markdown: goldmark.New(),
	}
}

type section int

const (
	sectionNone section = iota
	sectionDecision
	sectionChecklist
)

// Parse reads a worksheet.
func (p *MarkdownParser) Parse(r io.Reader) (*models.ChoiceSet, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read content: %w", err)
	}

	cs := &models.ChoiceSet{}
	body, frontmatter := extractFrontmatter(content)
	if frontmatter != nil {
		dec := yaml.NewDecoder(bytes.NewReader(frontmatter))
		dec.KnownFields(true)
		if err := dec.Decode(cs); err != nil && err != io.EOF {
			return nil, fmt.Errorf("failed to parse frontmatter: %w", err)
		}
	}

	doc := p.markdown.Parser().Parse(text.NewReader(body))
	if err := collectSections(doc, body, cs); err != nil {
		return nil, err
	}
	return cs, nil
}

// collectSections walks level 2 headings and reads the block text under them.
func collectSections(doc ast.Node, source []byte, cs *models.ChoiceSet) error {
	current := sectionNone
	var decisionID string
	var selected bool

	return ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading:
			if node.Level != 2 {
				return ast.WalkSkipChildren, nil
			}
			title := strings.TrimSpace(extractText(node, source))
			switch {
			case decisionHeading.MatchString(title):
				current = sectionDecision
				decisionID = decisionHeading.FindStringSubmatch(title)[1]
				selected = false
			case strings.EqualFold(title, "checklist"):
				current = sectionChecklist
			default:
				current = sectionNone
			}
			return ast.WalkSkipChildren, nil

		case *ast.Paragraph, *ast.TextBlock:
			for _, line := range strings.Split(extractText(node, source), "\n") {
				line = strings.TrimSpace(line)
				if line == "" {
					continue
				}
				switch current {
				case sectionDecision:
					m := selectedLine.FindStringSubmatch(line)
					if m == nil {
						continue
					}
					option := strings.Trim(strings.TrimSpace(m[1]), "`*_")
					if option == "" {
						continue
					}
					if selected {
						return ast.WalkStop, fmt.Errorf("decision %s: more than one Selected line", decisionID)
					}
					selected = true
					cs.Choices = append(cs.Choices, models.Choice{DecisionID: decisionID, SelectedOptionID: option})
				case sectionChecklist:
					m := checklistLine.FindStringSubmatch(line)
					if m == nil {
						return ast.WalkStop, fmt.Errorf("checklist entry %q: want \"module: completed\"", line)
					}
					count, err := strconv.Atoi(m[2])
					if err != nil {
						return ast.WalkStop, fmt.Errorf("checklist %s: completed count %q is not a number", m[1], m[2])
					}
					if cs.Checklist == nil {
						cs.Checklist = make(map[string]int)
					}
					cs.Checklist[m[1]] = count
				}
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
}

// extractText returns the plain text beneath n. Soft and hard line breaks
// become newlines.
func extractText(n ast.Node, source []byte) string {
	var buf bytes.Buffer
	var walk func(ast.Node)
	walk = func(node ast.Node) {
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			if t, ok := c.(*ast.Text); ok {
				buf.Write(t.Segment.Value(source))
				if t.SoftLineBreak() || t.HardLineBreak() {
					buf.WriteByte('\n')
				}
				continue
			}
			walk(c)
		}
	}
	walk(n)
	return buf.String()
}

// extractFrontmatter splits YAML frontmatter delimited by --- lines from the
// body. Content without frontmatter is returned unchanged with nil frontmatter.
func extractFrontmatter(content []byte) ([]byte, []byte) {
	lines := bytes.Split(content, []byte("\n"))
	if len(lines) < 2 || !bytes.Equal(bytes.TrimSpace(lines[0]), []byte("---")) {
		return content, nil
	}
	for i := 1; i < len(lines); i++ {
		if bytes.Equal(bytes.TrimSpace(lines[i]), []byte("---")) {
			frontmatter := bytes.Join(lines[1:i], []byte("\n"))
			body := bytes.Join(lines[i+1:], []byte("\n"))
			return body, frontmatter
		}
	}
	return content, nil
}

// Package parser reads choice files. Two formats are supported: a plain YAML
// document and a Markdown worksheet with YAML frontmatter and one section per
// decision.
package parser

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/harrison/mvp/internal/models"
)

// Format represents the format of a choice file
type Format int

const (
	// FormatUnknown represents an unknown or unsupported file format
	FormatUnknown Format = iota
	// FormatMarkdown represents a Markdown (.md, .markdown) worksheet
	FormatMarkdown
	// FormatYAML represents a YAML (.yaml, .yml) choice file
	FormatYAML
)

// String returns the string representation of the Format
func (f Format) String() string {
	switch f {
	case FormatMarkdown:
		return "markdown"
	case FormatYAML:
		return "yaml"
	default:
		return "unknown"
	}
}

// Parser is the interface that all choice file parsers implement
type Parser interface {
	Parse(r io.Reader) (*models.ChoiceSet, error)
}

// DetectFormat detects the choice file format from its extension
//   - .md, .markdown -> FormatMarkdown
//   - .yaml, .yml -> FormatYAML
//   - all others -> FormatUnknown
func DetectFormat(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".md", ".markdown":
		return FormatMarkdown
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatUnknown
	}
}

// NewParser creates a parser for format.
func NewParser(format Format) (Parser, error) {
	switch format {
	case FormatMarkdown:
		return NewMarkdownParser(), nil
	case FormatYAML:
		return NewYAMLParser(), nil
	default:
		return nil, fmt.Errorf("unsupported format: %v", format)
	}
}

// ParseFile detects the format of path, parses and validates it, and records
// the absolute path on the returned set.
func ParseFile(path string) (*models.ChoiceSet, error) {
	format := DetectFormat(path)
	if format == FormatUnknown {
		return nil, fmt.Errorf("unknown file format: %s (supported: .md, .markdown, .yaml, .yml)", path)
	}

	p, err := NewParser(format)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	cs, err := p.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := cs.Validate(); err != nil {
		return nil, fmt.Errorf("invalid choice file %s: %w", path, err)
	}

	if abs, err := filepath.Abs(path); err == nil {
		cs.FilePath = abs
	} else {
		cs.FilePath = path
	}
	return cs, nil
}

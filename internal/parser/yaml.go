package parser

import (
	"bytes"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/harrison/mvp/internal/models"
)

// YAMLParser reads YAML choice files.
type YAMLParser struct{}

// NewYAMLParser creates a YAML choice file parser.
func NewYAMLParser() *YAMLParser {
	return &YAMLParser{}
}

// Parse decodes a YAML choice document. Unknown keys are rejected so typos
// such as `choise:` surface instead of silently dropping decisions.
func (p *YAMLParser) Parse(r io.Reader) (*models.ChoiceSet, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read content: %w", err)
	}
	cs := &models.ChoiceSet{}
	if len(bytes.TrimSpace(content)) == 0 {
		return cs, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(content))
	dec.KnownFields(true)
	if err := dec.Decode(cs); err != nil {
		return nil, fmt.Errorf("failed to decode YAML: %w", err)
	}
	return cs, nil
}

// EncodeYAML renders cs as a YAML choice document.
func EncodeYAML(cs *models.ChoiceSet) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cs); err != nil {
		return nil, fmt.Errorf("failed to encode choice set: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode choice set: %w", err)
	}
	return buf.Bytes(), nil
}

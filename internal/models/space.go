package models

import (
	"fmt"
	"strings"
)

// Relationship is the desired spatial relationship between two spaces.
// The zero value is not a valid relationship.
type Relationship uint8

// Relationship values, ordered from closest to most distant.
const (
	Adjacent Relationship = iota + 1
	Near
	Buffered
	Separate
)

// Relationships lists every valid relationship in order of increasing distance.
var Relationships = []Relationship{Adjacent, Near, Buffered, Separate}

// String returns the lowercase name used in YAML and JSON documents.
func (r Relationship) String() string {
	switch r {
	case Adjacent:
		return "adjacent"
	case Near:
		return "near"
	case Buffered:
		return "buffered"
	case Separate:
		return "separate"
	default:
		return fmt.Sprintf("relationship(%d)", uint8(r))
	}
}

// Valid reports whether r is one of the four defined relationships.
func (r Relationship) Valid() bool {
	return r >= Adjacent && r <= Separate
}

// ParseRelationship converts a name such as "Adjacent" or "near" into a Relationship.
func ParseRelationship(s string) (Relationship, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "adjacent":
		return Adjacent, nil
	case "near":
		return Near, nil
	case "buffered":
		return Buffered, nil
	case "separate":
		return Separate, nil
	}
	return 0, fmt.Errorf("unknown relationship %q (want adjacent, near, buffered or separate)", s)
}

// MarshalText implements encoding.TextMarshaler.
func (r Relationship) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid %s", r)
	}
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Relationship) UnmarshalText(text []byte) error {
	parsed, err := ParseRelationship(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Space is a room or area of the residence.
type Space struct {
	Code       string  `yaml:"code" json:"code"`
	Name       string  `yaml:"name" json:"name"`
	Zone       string  `yaml:"zone" json:"zone"`
	Level      int     `yaml:"level" json:"level"`
	TargetArea float64 `yaml:"target_area" json:"target_area"`
}

// Key identifies a directed relationship entry in a matrix.
type Key struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// String renders the key as "FROM->TO" for display only.
func (k Key) String() string {
	return k.From + "->" + k.To
}

// Less orders keys by From, then To.
func (k Key) Less(other Key) bool {
	if k.From != other.From {
		return k.From < other.From
	}
	return k.To < other.To
}

// AdjacencyRelationship is a single directed entry of an adjacency matrix.
type AdjacencyRelationship struct {
	From         string       `yaml:"from" json:"from"`
	To           string       `yaml:"to" json:"to"`
	Relationship Relationship `yaml:"relationship" json:"relationship"`
}

// Key returns the matrix key for the entry.
func (a AdjacencyRelationship) Key() Key {
	return Key{From: a.From, To: a.To}
}

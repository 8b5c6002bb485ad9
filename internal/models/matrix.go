package models

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Matrix is a directed adjacency matrix keyed by (from, to) space pairs.
// A Matrix is a value type over a private map; use Clone before mutating
// a matrix that is shared with other callers.
type Matrix struct {
	entries map[Key]Relationship
}

// NewMatrix builds a matrix from relationship entries. It rejects self
// relationships, invalid relationship values and duplicate keys.
func NewMatrix(rels ...AdjacencyRelationship) (Matrix, error) {
	m := Matrix{entries: make(map[Key]Relationship, len(rels))}
	for _, r := range rels {
		if r.From == "" || r.To == "" {
			return Matrix{}, fmt.Errorf("matrix entry %s: space codes are required", r.Key())
		}
		if r.From == r.To {
			return Matrix{}, fmt.Errorf("matrix entry %s: a space cannot relate to itself", r.Key())
		}
		if !r.Relationship.Valid() {
			return Matrix{}, fmt.Errorf("matrix entry %s: invalid relationship %s", r.Key(), r.Relationship)
		}
		if _, dup := m.entries[r.Key()]; dup {
			return Matrix{}, fmt.Errorf("matrix entry %s: duplicate key", r.Key())
		}
		m.entries[r.Key()] = r.Relationship
	}
	return m, nil
}

// MustMatrix is NewMatrix for static data and tests; it panics on error.
func MustMatrix(rels ...AdjacencyRelationship) Matrix {
	m, err := NewMatrix(rels...)
	if err != nil {
		panic(err)
	}
	return m
}

// Get returns the relationship stored for key.
func (m Matrix) Get(key Key) (Relationship, bool) {
	r, ok := m.entries[key]
	return r, ok
}

// Lookup is Get with separate from/to codes.
func (m Matrix) Lookup(from, to string) (Relationship, bool) {
	return m.Get(Key{From: from, To: to})
}

// Set overwrites or inserts the entry for key.
func (m *Matrix) Set(key Key, r Relationship) {
	if m.entries == nil {
		m.entries = make(map[Key]Relationship)
	}
	m.entries[key] = r
}

// Delete removes the entry for key if present.
func (m *Matrix) Delete(key Key) {
	delete(m.entries, key)
}

// Len returns the number of entries.
func (m Matrix) Len() int {
	return len(m.entries)
}

// Keys returns all keys sorted by (from, to).
func (m Matrix) Keys() []Key {
	keys := make([]Key, 0, len(m.entries))
	for k := range m.entries {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
	return keys
}

// Entries returns all entries sorted by (from, to).
func (m Matrix) Entries() []AdjacencyRelationship {
	keys := m.Keys()
	out := make([]AdjacencyRelationship, 0, len(keys))
	for _, k := range keys {
		out = append(out, AdjacencyRelationship{From: k.From, To: k.To, Relationship: m.entries[k]})
	}
	return out
}

// Clone returns a deep copy.
func (m Matrix) Clone() Matrix {
	c := Matrix{entries: make(map[Key]Relationship, len(m.entries))}
	for k, v := range m.entries {
		c.entries[k] = v
	}
	return c
}

// Equal reports whether both matrices hold exactly the same entries.
func (m Matrix) Equal(other Matrix) bool {
	if len(m.entries) != len(other.entries) {
		return false
	}
	for k, v := range m.entries {
		if ov, ok := other.entries[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

// SpaceCodes returns the sorted set of space codes referenced by any entry.
func (m Matrix) SpaceCodes() []string {
	seen := make(map[string]bool)
	for k := range m.entries {
		seen[k.From] = true
		seen[k.To] = true
	}
	codes := make([]string, 0, len(seen))
	for c := range seen {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return codes
}

// MarshalJSON encodes the matrix as a sorted list of entries.
func (m Matrix) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Entries())
}

// UnmarshalJSON decodes a list of entries produced by MarshalJSON.
func (m *Matrix) UnmarshalJSON(data []byte) error {
	var rels []AdjacencyRelationship
	if err := json.Unmarshal(data, &rels); err != nil {
		return err
	}
	parsed, err := NewMatrix(rels...)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

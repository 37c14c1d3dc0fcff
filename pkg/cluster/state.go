package cluster

import (
	"encoding/json"
	"sort"
)

// State records per-cluster expand/collapse flags. A missing entry means
// expanded. Entries for clusters that no longer exist are kept and ignored.
//
// State is not safe for concurrent use.
type State struct {
	entries map[string]bool
}

// NewState returns an empty, all-expanded state.
func NewState() *State {
	return &State{entries: make(map[string]bool)}
}

// ParseState decodes a flat JSON object of cluster id to boolean.
func ParseState(data []byte) (*State, error) {
	s := NewState()
	if err := json.Unmarshal(data, s); err != nil {
		return nil, err
	}
	return s, nil
}

// IsExpanded reports whether a cluster is shown. A nil State expands
// everything.
func (s *State) IsExpanded(id string) bool {
	if s == nil {
		return true
	}
	v, ok := s.entries[id]
	return !ok || v
}

// Get returns the explicit flag for id and whether one is set.
func (s *State) Get(id string) (expanded, ok bool) {
	expanded, ok = s.entries[id]
	return expanded, ok
}

// Set records an explicit flag for id.
func (s *State) Set(id string, expanded bool) {
	s.init()
	s.entries[id] = expanded
}

// Expand marks id expanded.
func (s *State) Expand(id string) { s.Set(id, true) }

// Collapse marks id collapsed.
func (s *State) Collapse(id string) { s.Set(id, false) }

// Toggle flips a cluster and returns its new expanded flag.
func (s *State) Toggle(id string) bool {
	next := !s.IsExpanded(id)
	s.Set(id, next)
	return next
}

// ExpandAll marks every given cluster expanded.
func (s *State) ExpandAll(clusters []Cluster) {
	s.init()
	for _, c := range clusters {
		s.entries[c.ID] = true
	}
}

// CollapseAll marks every given cluster collapsed.
func (s *State) CollapseAll(clusters []Cluster) {
	s.init()
	for _, c := range clusters {
		s.entries[c.ID] = false
	}
}

func (s *State) init() {
	if s.entries == nil {
		s.entries = make(map[string]bool)
	}
}

// Clone returns an independent copy. Cloning nil yields nil.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	c := NewState()
	for id, v := range s.entries {
		c.entries[id] = v
	}
	return c
}

// Len returns the number of explicit entries.
func (s *State) Len() int { return len(s.entries) }

// IDs returns the ids with explicit entries in sorted order.
func (s *State) IDs() []string {
	ids := make([]string, 0, len(s.entries))
	for id := range s.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// MarshalJSON encodes the state as a flat object.
func (s *State) MarshalJSON() ([]byte, error) {
	if s == nil || s.entries == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(s.entries)
}

// UnmarshalJSON replaces the state with a decoded flat object.
func (s *State) UnmarshalJSON(data []byte) error {
	entries := make(map[string]bool)
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	s.entries = entries
	return nil
}

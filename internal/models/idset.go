package models

import "encoding/json"

// IDSet is an insertion-ordered set of identifiers. The zero value is an
// empty set. Add returns a new set, so values can be shared between
// published store versions.
type IDSet struct {
	ids []string
}

// NewIDSet builds a set from ids, dropping duplicates and keeping the first
// occurrence's position.
func NewIDSet(ids ...string) IDSet {
	var s IDSet
	for _, id := range ids {
		if !s.Contains(id) {
			s.ids = append(s.ids, id)
		}
	}
	return s
}

// Contains reports whether id is in the set.
func (s IDSet) Contains(id string) bool {
	for _, v := range s.ids {
		if v == id {
			return true
		}
	}
	return false
}

// Add returns the union of s and {id}. Adding a present id returns s.
func (s IDSet) Add(id string) IDSet {
	if s.Contains(id) {
		return s
	}
	next := make([]string, len(s.ids), len(s.ids)+1)
	copy(next, s.ids)
	return IDSet{ids: append(next, id)}
}

// Union returns the set of ids in s or o, s's members first.
func (s IDSet) Union(o IDSet) IDSet {
	out := s
	for _, id := range o.ids {
		out = out.Add(id)
	}
	return out
}

// Len returns the number of ids.
func (s IDSet) Len() int { return len(s.ids) }

// IDs returns the members in insertion order.
func (s IDSet) IDs() []string {
	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}

// MarshalJSON encodes the set as a JSON array.
func (s IDSet) MarshalJSON() ([]byte, error) {
	if s.ids == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.ids)
}

// UnmarshalJSON decodes a JSON array, collapsing duplicates.
func (s *IDSet) UnmarshalJSON(data []byte) error {
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	*s = NewIDSet(ids...)
	return nil
}

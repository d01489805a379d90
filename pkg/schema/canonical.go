package schema

import "encoding/json"

// Canonical renders the schema as JSON with object keys sorted
// lexicographically at every level, for use as a cache key ingredient. No
// floating-point normalization is performed; callers must be
// self-consistent (spec requirement — this package always round-trips
// through Go's encoding/json, whose map-key ordering is already
// lexicographic, so two calls on logically identical schemas always agree).
func Canonical(s *Schema) ([]byte, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}

	// Re-decoding into a generic value and re-encoding forces map keys
	// (encoding/json always emits map[string]any keys in sorted order) at
	// every nesting level, independent of struct field declaration order.
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, err
	}
	return json.Marshal(generic)
}

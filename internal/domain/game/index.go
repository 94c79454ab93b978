package game

import (
	"encoding/json"
	"fmt"
)

// Index is the list of every saved game in save order.
type Index []Summary

// ParseIndex decodes a stored index. An empty string is an empty index.
func ParseIndex(raw string) (Index, error) {
	if raw == "" {
		return Index{}, nil
	}
	var ix Index
	if err := json.Unmarshal([]byte(raw), &ix); err != nil {
		return nil, fmt.Errorf("failed to decode game index: %w", err)
	}
	if ix == nil {
		ix = Index{}
	}
	return ix, nil
}

// Upsert returns a new index without any entry for s.ID and with s appended.
func (ix Index) Upsert(s Summary) Index {
	out := make(Index, 0, len(ix)+1)
	for _, e := range ix {
		if e.ID != s.ID {
			out = append(out, e)
		}
	}
	return append(out, s)
}

// Encode serializes the index for the store.
func (ix Index) Encode() (string, error) {
	if ix == nil {
		ix = Index{}
	}
	data, err := json.Marshal(ix)
	if err != nil {
		return "", fmt.Errorf("failed to encode game index: %w", err)
	}
	return string(data), nil
}

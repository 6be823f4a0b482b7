package billing

import (
	"encoding/json"
	"fmt"
)

// Group is one key and the records that share it, in source order.
type Group[T any] struct {
	Key     string `json:"key"`
	Records []T    `json:"records"`
}

// Grouped is an insertion-ordered mapping from key to records.
// Keys are compared by their string form, so 7 and "7" are the same key.
type Grouped[T any] struct {
	keys   []string
	index  map[string]int
	groups [][]T
}

// KeyString is the string form used to compare group keys.
func KeyString(key any) string {
	return fmt.Sprint(key)
}

// GroupBy buckets records by key, keeping first-seen key order and the
// original order inside each bucket.
func GroupBy[T any, K any](records []T, key func(T) K) *Grouped[T] {
	g := &Grouped[T]{index: make(map[string]int)}
	for _, rec := range records {
		g.add(KeyString(key(rec)), rec)
	}
	return g
}

func (g *Grouped[T]) add(k string, rec T) {
	i, ok := g.index[k]
	if !ok {
		i = len(g.keys)
		g.index[k] = i
		g.keys = append(g.keys, k)
		g.groups = append(g.groups, nil)
	}
	g.groups[i] = append(g.groups[i], rec)
}

// Len returns the number of distinct keys.
func (g *Grouped[T]) Len() int {
	if g == nil {
		return 0
	}
	return len(g.keys)
}

// Keys returns the keys in first-seen order.
func (g *Grouped[T]) Keys() []string {
	if g == nil {
		return nil
	}
	out := make([]string, len(g.keys))
	copy(out, g.keys)
	return out
}

// Get returns the records for key.
func (g *Grouped[T]) Get(key any) ([]T, bool) {
	if g == nil {
		return nil, false
	}
	i, ok := g.index[KeyString(key)]
	if !ok {
		return nil, false
	}
	return g.groups[i], true
}

// Groups returns every group in key order.
func (g *Grouped[T]) Groups() []Group[T] {
	if g == nil {
		return []Group[T]{}
	}
	out := make([]Group[T], len(g.keys))
	for i, k := range g.keys {
		out[i] = Group[T]{Key: k, Records: g.groups[i]}
	}
	return out
}

// MarshalJSON renders the groups as an ordered array.
func (g *Grouped[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(g.Groups())
}

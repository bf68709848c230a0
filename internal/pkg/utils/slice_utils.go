package utils

import (
	"sort"
	"strings"
)

// Batch splits items into consecutive batches of at most batchSize.
func Batch[T any](items []T, batchSize int) [][]T {
	if batchSize <= 0 {
		batchSize = len(items) // treat everything as one batch
	}
	if len(items) == 0 {
		return [][]T{}
	}

	var batches [][]T
	for i := 0; i < len(items); i += batchSize {
		end := i + batchSize
		if end > len(items) {
			end = len(items)
		}
		batches = append(batches, items[i:end])
	}
	return batches
}

// SortedKeysFold returns the keys of m ordered by their lowercase form.
func SortedKeysFold[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return strings.ToLower(keys[i]) < strings.ToLower(keys[j])
	})
	return keys
}

// LookupFold finds a map entry by key: exact lowercase, then the key as given,
// then a case-insensitive scan.
func LookupFold[V any](m map[string]V, key string) (V, string, bool) {
	if v, ok := m[strings.ToLower(key)]; ok {
		return v, strings.ToLower(key), true
	}
	if v, ok := m[key]; ok {
		return v, key, true
	}
	for k, v := range m {
		if strings.EqualFold(k, key) {
			return v, k, true
		}
	}
	var zero V
	return zero, "", false
}

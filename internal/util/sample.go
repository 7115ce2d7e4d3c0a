package util

import "math/rand/v2"

// Sample returns up to k elements drawn uniformly without replacement from
// items, in random order. items is not modified.
func Sample[T any](items []T, k int) []T {
	return SampleWith(rand.IntN, items, k)
}

// SampleWith is Sample with an injectable source; intn(n) must return a value
// in [0, n).
func SampleWith[T any](intn func(n int) int, items []T, k int) []T {
	n := len(items)
	if k > n {
		k = n
	}
	if k <= 0 {
		return []T{}
	}
	// Partial Fisher-Yates over a copy of the indexes.
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	out := make([]T, k)
	for i := 0; i < k; i++ {
		j := i + intn(n-i)
		idx[i], idx[j] = idx[j], idx[i]
		out[i] = items[idx[i]]
	}
	return out
}

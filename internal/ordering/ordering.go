// Package ordering implements the dense zero-based sequence operations used to
// place cards within lists and lists within boards.
//
// Every function returns a fresh slice; inputs are never modified. The index
// of an element in a returned slice is its new position.
package ordering

import (
	"errors"
	"fmt"
)

// ErrIndexOutOfRange is returned when a source index does not address an element.
var ErrIndexOutOfRange = errors.New("ordering: index out of range")

// Clamp bounds idx to [0, n].
func Clamp(idx, n int) int {
	if idx < 0 {
		return 0
	}
	if idx > n {
		return n
	}
	return idx
}

// Remove returns seq without the element at idx, together with that element.
func Remove[T any](seq []T, idx int) ([]T, T, error) {
	var zero T
	if idx < 0 || idx >= len(seq) {
		return nil, zero, fmt.Errorf("%w: %d not in [0,%d)", ErrIndexOutOfRange, idx, len(seq))
	}

	out := make([]T, 0, len(seq)-1)
	out = append(out, seq[:idx]...)
	out = append(out, seq[idx+1:]...)
	return out, seq[idx], nil
}

// Insert returns seq with item placed at idx. idx is clamped to [0, len(seq)].
func Insert[T any](seq []T, idx int, item T) []T {
	idx = Clamp(idx, len(seq))

	out := make([]T, 0, len(seq)+1)
	out = append(out, seq[:idx]...)
	out = append(out, item)
	out = append(out, seq[idx:]...)
	return out
}

// Move relocates the element at from so it ends up at index to. The
// destination is evaluated against the sequence after removal and clamped.
func Move[T any](seq []T, from, to int) ([]T, error) {
	rest, item, err := Remove(seq, from)
	if err != nil {
		return nil, err
	}
	return Insert(rest, to, item), nil
}

// Transfer removes src[from] and inserts it into dst at index to, clamped to
// [0, len(dst)].
func Transfer[T any](src, dst []T, from, to int) (newSrc, newDst []T, moved T, err error) {
	newSrc, moved, err = Remove(src, from)
	if err != nil {
		return nil, nil, moved, err
	}
	return newSrc, Insert(dst, to, moved), moved, nil
}

// Dense reports whether positions is a permutation of 0..len(positions)-1.
func Dense(positions []int) bool {
	seen := make([]bool, len(positions))
	for _, p := range positions {
		if p < 0 || p >= len(positions) || seen[p] {
			return false
		}
		seen[p] = true
	}
	return true
}

// Reindex returns, for every key whose position differs from its index in
// order, the position it must be rewritten to.
func Reindex(order []string, current map[string]int) map[string]int {
	changes := make(map[string]int)
	for i, key := range order {
		if pos, ok := current[key]; !ok || pos != i {
			changes[key] = i
		}
	}
	return changes
}

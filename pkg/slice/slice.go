// Copyright (c) 2026 StoryVoter. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package slice adds the generic helpers the standard [slices] package lacks:
projecting, filtering and folding.

They are used where services collect ids out of loaded rows before a batch
lookup, and where option counters are summed.
*/
package slice

// Map projects every element through transform. A nil input stays nil.
func Map[T, U any](input []T, transform func(T) U) []U {
	if input == nil {
		return nil
	}

	out := make([]U, 0, len(input))
	for _, item := range input {
		out = append(out, transform(item))
	}
	return out
}

// FilterMap keeps the projections for which transform reports ok.
func FilterMap[T, U any](input []T, transform func(T) (U, bool)) []U {
	var out []U
	for _, item := range input {
		if projected, ok := transform(item); ok {
			out = append(out, projected)
		}
	}
	return out
}

// Reduce folds input left to right starting from initial.
func Reduce[T, U any](input []T, initial U, fold func(U, T) U) U {
	acc := initial
	for _, item := range input {
		acc = fold(acc, item)
	}
	return acc
}

package internal

import (
	"iter"
)

// IterSeq2Concat concatenates multiple dual-return iterators into a single iterator sequence.
func IterSeq2Concat[T1 any, T2 any](seqs ...iter.Seq2[T1, T2]) iter.Seq2[T1, T2] {
	return func(yield func(T1, T2) bool) {
		for _, seq := range seqs {
			for val1, val2 := range seq {
				if !yield(val1, val2) {
					return // Stop if the consumer stops
				}
			}
		}
	}
}

// IterSeq2Apply transforms every pair of a dual-return iterator sequence.
func IterSeq2Apply[K1 any, V1 any, K2 any, V2 any](seq iter.Seq2[K1, V1], apply func(K1, V1) (K2, V2)) iter.Seq2[K2, V2] {
	return func(yield func(K2, V2) bool) {
		for val1, val2 := range seq {
			if !yield(apply(val1, val2)) {
				return // Stop if the consumer stops
			}
		}
	}
}

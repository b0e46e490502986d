// Package internal holds small iterator helpers shared by the other packages.
package internal

import (
	"iter"
)

// Concat2 chains dual-return iterators into one sequence, in argument order.
func Concat2[K any, V any](seqs ...iter.Seq2[K, V]) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, seq := range seqs {
			for k, v := range seq {
				if !yield(k, v) {
					return
				}
			}
		}
	}
}

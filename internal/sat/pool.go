package sat

import (
	"math/bits"
	"sync"
)

// Number of slice pools.
const nbPools = 4

// The minimum capacity for slices in the last pool.
const lastCapa = 1 << nbPools

// The literal slices backing the clauses are recycled through size-classed
// pools so that the constant churn of learning and forgetting clauses does
// not translate into allocator pressure. Pool i hands out slices with a
// capacity of 2^(i+1); requests larger than what the last pool holds fall
// back to a plain allocation.
var litPools [nbPools]sync.Pool

func init() {
	for i := 0; i < nbPools; i++ {
		capa := 1 << (i + 1)
		litPools[i].New = func() any {
			s := make([]Literal, 0, capa)
			return &s
		}
	}
}

// poolID returns the pool responsible for slices of the given capacity.
func poolID(capa int) int {
	id := bits.Len(uint(capa)) - 2
	if id < 0 {
		return 0
	}
	if id >= nbPools {
		return nbPools - 1
	}
	return id
}

// allocLiterals returns an empty literal slice for the requested capacity.
// The slice may be smaller than requested: callers grow it with append.
func allocLiterals(capa int) []Literal {
	ref := litPools[poolID(capa)].Get().(*[]Literal)
	s := (*ref)[:0]
	if capa >= lastCapa && cap(s) < capa {
		s = make([]Literal, 0, capa)
	}
	return s
}

// freeLiterals hands the slice back to its pool so that it can be reused by
// another clause.
func freeLiterals(s []Literal) {
	if cap(s) == 0 {
		return
	}
	s = s[:0]
	litPools[poolID(cap(s))].Put(&s)
}

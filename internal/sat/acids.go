package sat

import "fmt"

// BranchingHeuristic maintains the order in which the solver picks the next
// variable to branch on. Variables leave the order when popped by the
// decision procedure and come back when their assignment is undone.
type BranchingHeuristic interface {
	bump(v Variable)
	decay()
	pushBack(v Variable)
	popTop() Variable
	isEmpty() bool
}

// varHeap is a binary max-heap of variables keyed by score. The heap array is
// 1-based so that parent(i) = i/2 and children(i) = 2i, 2i+1; index 0 holds a
// guard variable that never takes part in the ordering. Positions strictly
// greater than size denote variables that are currently off the heap. Ties
// are broken by the heap order itself, which is stable under swim and sink.
type varHeap struct {
	heap     []Variable
	score    []float64 // indexed by variable
	position []int     // indexed by variable
	size     int
	capa     int
}

// newVarHeap returns a heap filled with variables 1..capa, all with a zero
// score.
func newVarHeap(capa int) *varHeap {
	h := &varHeap{
		heap:     make([]Variable, capa+1),
		score:    make([]float64, capa+1),
		position: make([]int, capa+1),
		size:     capa,
		capa:     capa,
	}
	h.heap[0] = Variable(capa + 1) // guard
	for v := 1; v <= capa; v++ {
		h.heap[v] = Variable(v)
		h.position[v] = v
	}
	return h
}

func (h *varHeap) check(v Variable) {
	if v < 1 || int(v) > h.capa {
		panic(fmt.Sprintf("variable %d out of range [1..%d]", v, h.capa))
	}
}

func (h *varHeap) isEmpty() bool {
	return h.size == 0
}

// pushBack places the given variable back on the heap. It has no effect if
// the variable is already there.
//
// Panics if the variable does not fit in the range [1..capa].
func (h *varHeap) pushBack(v Variable) {
	h.check(v)
	pos := h.position[v]
	if pos <= h.size {
		return // already on the heap
	}
	other := h.heap[h.size+1]
	h.size++
	h.heap[pos] = other
	h.heap[h.size] = v
	h.position[other] = pos
	h.position[v] = h.size
	h.swim(v)
}

// popTop removes the variable with the highest score from the heap and
// returns it.
//
// Panics when called on an empty heap.
func (h *varHeap) popTop() Variable {
	if h.isEmpty() {
		panic("pop on an empty heap")
	}
	v := h.heap[1]
	h.heap[1] = h.heap[h.size]
	h.heap[h.size] = v
	h.position[h.heap[1]] = 1
	h.position[v] = h.size
	h.size--
	h.sink(h.heap[1])
	return v
}

// maxChildOf returns the position of the highest-scored child of pos, or 0
// when pos has no children.
func (h *varHeap) maxChildOf(pos int) int {
	l := 2 * pos
	if l > h.size {
		return 0
	}
	if l == h.size || h.score[h.heap[l]] >= h.score[h.heap[l+1]] {
		return l
	}
	return l + 1
}

// sink moves the given variable down the heap until the heap invariant is
// restored.
func (h *varHeap) sink(v Variable) {
	pos := h.position[v]
	scr := h.score[v]
	kidPos := h.maxChildOf(pos)
	for kidPos != 0 && h.score[h.heap[kidPos]] > scr {
		kid := h.heap[kidPos]
		h.heap[pos] = kid
		h.position[kid] = pos
		pos = kidPos
		kidPos = h.maxChildOf(pos)
	}
	h.heap[pos] = v
	h.position[v] = pos
}

// swim moves the given variable up the heap until the heap invariant is
// restored.
func (h *varHeap) swim(v Variable) {
	pos := h.position[v]
	scr := h.score[v]
	parPos := pos / 2
	for parPos > 0 && h.score[h.heap[parPos]] < scr {
		par := h.heap[parPos]
		h.heap[pos] = par
		h.position[par] = pos
		pos = parPos
		parPos /= 2
	}
	h.heap[pos] = v
	h.position[v] = pos
}

// ACIDS implements the average conflict-index decision score branching
// heuristic. Bumping a variable blends half of its previous score with half
// of the current conflict counter, so that variables involved in recent
// conflicts quickly take over the top of the heap while older activity still
// weighs in.
type ACIDS struct {
	heap          *varHeap
	conflictIndex uint64
}

// NewACIDS returns an ACIDS heuristic over variables 1..capa.
func NewACIDS(capa int) *ACIDS {
	return &ACIDS{
		heap:          newVarHeap(capa),
		conflictIndex: 1,
	}
}

// bump updates the variable's score.
//
// Panics if the variable does not fit in the range [1..capa].
func (a *ACIDS) bump(v Variable) {
	a.heap.check(v)
	a.heap.score[v] = a.heap.score[v]/2 + float64(a.conflictIndex)/2
	if a.heap.position[v] <= a.heap.size {
		a.heap.swim(v)
	}
}

// decay advances the conflict index.
func (a *ACIDS) decay() {
	a.conflictIndex++
}

func (a *ACIDS) isEmpty() bool {
	return a.heap.isEmpty()
}

func (a *ACIDS) pushBack(v Variable) {
	a.heap.pushBack(v)
}

func (a *ACIDS) popTop() Variable {
	return a.heap.popTop()
}

package sat

import "github.com/rhartert/yagh"

// VariableOrdering is an exponential VSIDS branching heuristic. It is the
// alternate implementation to ACIDS: scores grow by a geometrically
// increasing increment and the whole table is rescaled when the increment
// exceeds 1e100, which conserves the relative importance of the variables.
type VariableOrdering struct {
	// Binary heap to access the next variable with the highest score. The
	// heap breaks ties using the index of its elements, which corresponds
	// to the order in which variables are numbered.
	order *yagh.IntMap[float64]

	scores     []float64 // indexed by variable, in [0, 1e100)
	scoreInc   float64   // in (0, 1e100)
	scoreDecay float64   // in (0, 1]

	onHeap int
}

// NewVariableOrdering returns a VSIDS ordering over variables 1..capa.
func NewVariableOrdering(capa int) *VariableOrdering {
	vo := &VariableOrdering{
		order:      yagh.New[float64](0),
		scores:     make([]float64, capa+1),
		scoreInc:   1,
		scoreDecay: 0.95,
	}
	for v := 0; v < capa; v++ {
		vo.order.GrowBy(1)
		vo.order.Put(v, 0)
	}
	vo.onHeap = capa
	return vo
}

// bump increases the score of the given variable. This might trigger a
// rescaling of all scores if the new score exceeds the 1e100 threshold.
func (vo *VariableOrdering) bump(v Variable) {
	newScore := vo.scores[v] + vo.scoreInc
	vo.scores[v] = newScore
	if vo.order.Contains(int(v) - 1) {
		vo.order.Put(int(v)-1, -newScore)
	}
	if newScore > 1e100 {
		vo.rescale()
	}
}

// decay gives more weight to future bumps by growing the increment.
func (vo *VariableOrdering) decay() {
	vo.scoreInc /= vo.scoreDecay
	if vo.scoreInc > 1e100 {
		vo.rescale()
	}
}

func (vo *VariableOrdering) rescale() {
	vo.scoreInc *= 1e-100
	for v := 1; v < len(vo.scores); v++ {
		vo.scores[v] *= 1e-100
		if vo.order.Contains(v - 1) {
			vo.order.Put(v-1, -vo.scores[v])
		}
	}
}

// pushBack adds the variable back to the set of branching candidates. It has
// no effect if the variable is already a candidate.
func (vo *VariableOrdering) pushBack(v Variable) {
	if vo.order.Contains(int(v) - 1) {
		return
	}
	vo.order.Put(int(v)-1, -vo.scores[v])
	vo.onHeap++
}

// popTop removes the variable with the highest score and returns it.
//
// Panics when called on an empty heap.
func (vo *VariableOrdering) popTop() Variable {
	e, ok := vo.order.Pop()
	if !ok {
		panic("pop on an empty heap")
	}
	vo.onHeap--
	return Variable(e.Elem + 1)
}

func (vo *VariableOrdering) isEmpty() bool {
	return vo.onHeap == 0
}

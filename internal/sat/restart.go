package sat

// Size of the sliding window of recent LBD values fed to the Glucose
// strategy.
const lbdWindowSize = 100

// RestartStrategy decides when the solver abandons the current search tree
// and restarts from the root. The strategy is consulted after every conflict
// with the number of conflicts seen since the last restart, the long-run
// average LBD of the learned clauses, and the sliding window of the most
// recent LBD values.
type RestartStrategy interface {
	shouldRestart(nbConflictsSinceRestart int, avgGlobalLBD float64, window []uint32) bool
	setNextLimit()
}

// Luby restarts after unit·2^shift conflicts, where shift follows the Luby
// sequence generated with D. Knuth's reluctant doubling algorithm in O(1)
// time and space.
type Luby struct {
	// The tuple from the reluctant doubling algorithm.
	u, v int64

	// The length of a unit run.
	unit int
	// Conflict limit = unit·2^shift.
	shift int
}

// NewLuby returns a Luby strategy with the given unit run.
func NewLuby(unit int) *Luby {
	return &Luby{u: 1, v: 1, unit: unit}
}

func (l *Luby) shouldRestart(nbConflicts int, _ float64, _ []uint32) bool {
	return nbConflicts > l.unit<<l.shift
}

func (l *Luby) setNextLimit() {
	l.shift = l.luby()
}

// luby advances the reluctant doubling tuple and returns the next value of
// the sequence 1, 1, 2, 1, 1, 2, 4, ...
func (l *Luby) luby() int {
	res := l.v
	if l.u&-l.u == l.v {
		l.u++
		l.v = 1
	} else {
		l.v *= 2
	}
	return int(res)
}

// InOut implements picoSAT's inner/outer restart scheme: the inner limit
// grows geometrically (×11/10) until it reaches the outer limit, at which
// point it is reset to 100 and the outer limit grows instead.
type InOut struct {
	inner int
	outer int

	// Conflict count that triggers the next restart.
	limit int
}

// NewInOut returns an in/out strategy starting with both limits at 100.
func NewInOut() *InOut {
	return &InOut{inner: 100, outer: 100, limit: 100}
}

func (s *InOut) shouldRestart(nbConflicts int, _ float64, _ []uint32) bool {
	return nbConflicts == s.limit
}

func (s *InOut) setNextLimit() {
	if s.inner >= s.outer {
		s.inner = 100
		s.outer = s.outer * 11 / 10
	} else {
		s.inner = s.inner * 11 / 10
	}
	s.limit = s.inner
}

// Glucose restarts when the mean LBD over the recent window drifts above the
// long-run average, indicating that the clauses currently being learned are
// of lower quality than usual.
type Glucose struct {
	k float64
	x int
}

// NewGlucose returns a Glucose strategy with k = 0.7 over a window of 100
// LBD values.
func NewGlucose() *Glucose {
	return &Glucose{k: 0.7, x: lbdWindowSize}
}

func (g *Glucose) shouldRestart(_ int, avgGlobalLBD float64, window []uint32) bool {
	if len(window) < g.x {
		return false
	}
	sum := 0.0
	for _, v := range window {
		sum += float64(v)
	}
	return sum/float64(len(window))*g.k > avgGlobalLBD
}

// setNextLimit is a no-op: the strategy is purely reactive.
func (g *Glucose) setNextLimit() {}

package sat

import (
	"io"
	"math"

	"github.com/bits-and-blooms/bitset"
)

// ClauseID identifies a clause in the solver's clause store. Identifiers are
// stable except across removals: deleting a clause renames the last clause of
// the store into the freed slot.
type ClauseID = int

const (
	// noClause marks the absence of a clause: the reason of a decision, or
	// the result of a conflict-free propagation.
	noClause ClauseID = -1

	// clauseElided is the reason of literals that were forced at the root
	// level without an explicit clause record (unit clauses). It is also
	// returned when a problem clause was not added to the database because
	// it is a tautology or is already satisfied.
	clauseElided ClauseID = math.MaxInt
)

// Options configures the solver's heuristics and inprocessing techniques.
type Options struct {
	// Restart selects the restart strategy. Nil defaults to the in/out
	// scheme.
	Restart RestartStrategy

	// Branching builds the branching heuristic for the given number of
	// variables. Nil defaults to ACIDS.
	Branching func(nbVars int) BranchingHeuristic

	// LCM enables learned clause minimization by trial propagation at
	// every restart boundary.
	LCM bool

	// Preprocess runs the trial-propagation pass over the problem clauses
	// once before the search starts.
	Preprocess bool

	// Subsumption enables backward subsumption when learned clauses are
	// added, and the forward subsumption pass during preprocessing.
	Subsumption bool

	// RootElimination removes the clauses satisfied by root-level
	// assignments as these assignments are made. Experimental: its
	// interaction with clause minimization is not settled.
	RootElimination bool

	// Proof receives the DRAT certificate: one `a` line per clause added
	// and one `d` line per clause deleted. Nil disables proof logging.
	Proof io.Writer
}

// Solver encapsulates the state of a CDCL SAT solver: the clause database,
// the trail of assignments, the watch lists driving unit propagation, and the
// search heuristics. A solver is created for a fixed number of variables,
// loaded with problem clauses, and then asked to Solve.
type Solver struct {
	// Search statistics.
	NbConflicts int
	NbRestarts  int
	Removed     int

	// The current assignment of boolean values to variables (index v-1).
	valuation []Bool

	// All the clauses that make the problem, problem and learned alike.
	clauses []*Clause

	// Whether the problem was detected to be unsat. Once set, the flag is
	// sticky: the solver will always answer the same result.
	isUnsat bool

	// Branching heuristic and the saved phase of each variable.
	branching   BranchingHeuristic
	phaseSaving *bitset.BitSet

	// The number of clauses that can be learned before the solver starts
	// cleaning up the database.
	maxLearned int

	restartStrat RestartStrategy

	// Sliding window of the most recent LBD values and the incrementally
	// maintained average over all learned clauses.
	lbdWindow    []uint32
	avgGlobalLBD float64

	// The decision level at which each variable was assigned (index v-1).
	level []int

	// The heuristic quality score of each clause: the number of distinct
	// decision levels among its literals. See "Predicting Learnt Clauses
	// Quality in Modern SAT Solvers" (Audemard, Simon -- 2009).
	lbd []uint32

	// Whether the LBD of a clause improved since the last round of
	// database reduction. Recently improved clauses are protected from
	// deletion for one round.
	lbdRecentlyUpdated *bitset.BitSet

	// Watch lists: for each literal, the clauses to revisit when that
	// literal is falsified. A clause watches a literal it owns, never its
	// negation.
	watchers [][]ClauseID

	// The trail of decisions and propagations made so far. The queue
	// stores the falsified literals: assigning l appends ¬l.
	propQueue []Literal

	// The index up to which all assignments are forced, i.e. directly
	// follow from the problem definition.
	forced int

	// The index up to which all assignments have been propagated.
	propagated int

	// The current decision level.
	nbDecisions int

	nbConflictsSinceRestart    int
	nbLearned                  int
	nbLearnedSinceMinimization int
	nbMinimizations            int

	// The reason associated with each variable's assignment (index v-1):
	// noClause for decisions, clauseElided for root units, or a clause id.
	reason []ClauseID

	// The analysis flags associated with each literal.
	flags []Flags

	// Scratch space for the LBD computation.
	levelBlocks *resetSet

	lcm             bool
	preprocess      bool
	subsumeEnable   bool
	rootElimination bool
	proof           io.Writer
}

// New returns a solver over variables 1..nbVars configured with the given
// options.
func New(nbVars int, opts Options) *Solver {
	s := &Solver{
		valuation:          make([]Bool, nbVars),
		phaseSaving:        bitset.New(uint(nbVars + 1)),
		maxLearned:         1000,
		restartStrat:       opts.Restart,
		lbdWindow:          make([]uint32, 0, lbdWindowSize),
		level:              make([]int, nbVars),
		lbdRecentlyUpdated: bitset.New(uint(nbVars + 1)),
		watchers:           make([][]ClauseID, 2*nbVars),
		propQueue:          make([]Literal, 0, nbVars),
		reason:             make([]ClauseID, nbVars),
		flags:              make([]Flags, 2*nbVars),
		levelBlocks:        newResetSet(nbVars + 1),
		lcm:                opts.LCM,
		preprocess:         opts.Preprocess,
		subsumeEnable:      opts.Subsumption,
		rootElimination:    opts.RootElimination,
		proof:              opts.Proof,
	}
	if s.restartStrat == nil {
		s.restartStrat = NewInOut()
	}
	if opts.Branching != nil {
		s.branching = opts.Branching(nbVars)
	} else {
		s.branching = NewACIDS(nbVars)
	}
	for i := range s.reason {
		s.reason[i] = noClause
	}
	return s
}

// NewDefaultSolver returns a solver configured with the default options. This
// is equivalent to calling New with a zero Options value.
func NewDefaultSolver(nbVars int) *Solver {
	return New(nbVars, Options{})
}

// NbVars returns the number of variables in the problem.
func (s *Solver) NbVars() int {
	return len(s.valuation)
}

// Value returns the truth value of the given literal in the current
// assignment.
func (s *Solver) Value(l Literal) Bool {
	return s.value(l)
}

func (s *Solver) value(l Literal) Bool {
	v := s.valuation[l.Var()-1]
	if l < 0 {
		return v.Not()
	}
	return v
}

func (s *Solver) setValue(l Literal, value Bool) {
	if l < 0 {
		value = value.Not()
	}
	s.valuation[l.Var()-1] = value
}

func (s *Solver) isUndef(l Literal) bool { return s.value(l) == Undef }
func (s *Solver) isTrue(l Literal) bool  { return s.value(l) == True }
func (s *Solver) isFalse(l Literal) bool { return s.value(l) == False }

// root returns the position in the trail where the search starts. All
// literals before it are at level 0 and follow from the problem statement.
func (s *Solver) root() int {
	return s.forced
}

func (s *Solver) isDecision(l Literal) bool {
	return s.reason[l.Var()-1] == noClause
}

// Solve determines the satisfiability of the problem through CDCL search. It
// returns true when there exists an assignment satisfying the problem, false
// when there is none. On a positive answer the satisfying assignment can be
// read back with Value.
func (s *Solver) Solve() bool {
	if s.preprocess {
		s.Preprocess()
	}
	for {
		if s.isUnsat {
			return false
		}
		if conflict := s.propagate(); conflict != noClause {
			s.NbConflicts++
			s.nbConflictsSinceRestart++

			if !s.resolveConflict(conflict) {
				s.isUnsat = true
				return false
			}
			if s.shouldRestart() {
				s.restart()
			}
			if s.shouldReduceDB() {
				s.reduceDB()
			}
		} else {
			l, ok := s.decide()
			if !ok {
				return true
			}
			s.assign(l, noClause)
		}
	}
}

// decide returns the next literal to branch on, using the branching heuristic
// and the saved phase of the selected variable. It returns false when all
// variables are assigned, i.e. when a model has been found.
func (s *Solver) decide() (Literal, bool) {
	for !s.branching.isEmpty() {
		v := s.branching.popTop()
		positive := PositiveLiteral(v)
		if !s.isUndef(positive) {
			continue
		}
		if s.phaseSaving.Test(uint(v)) {
			return positive, true
		}
		return positive.Opposite(), true
	}
	return 0, false
}

// assign assigns the given literal to true and enqueues its negation on the
// propagation queue. Assigning an already-true literal is a no-op; assigning
// a false literal fails and returns false to signal the conflict.
func (s *Solver) assign(l Literal, reason ClauseID) bool {
	switch s.value(l) {
	case True:
		return true
	case False:
		return false
	}

	s.setValue(l, True)
	s.reason[l.Var()-1] = reason
	s.propQueue = append(s.propQueue, l.Opposite())

	if reason == noClause {
		s.nbDecisions++
	}

	// The level can only be recorded once nbDecisions has been updated.
	s.level[l.Var()-1] = s.nbDecisions

	if reason != noClause {
		if reason != clauseElided {
			s.clauseBump(reason)
		}
		// At the root level the assignment follows from the problem
		// definition.
		if s.nbDecisions == 0 {
			s.flags[l.index()].set(IsForced)
			s.forced++
			if s.rootElimination {
				s.removeClausesWith(l, reason)
			}
		}
	}
	return true
}

// undo reverts all state changes made for the given trail literal.
func (s *Solver) undo(l Literal, savePhase bool) {
	if s.isDecision(l) {
		s.nbDecisions--
	}

	s.flags[l.index()].reset()

	v := l.Var()
	if savePhase {
		s.phaseSaving.SetTo(uint(v), s.valuation[v-1] == True)
	}
	s.setValue(l, Undef)
	s.reason[v-1] = noClause

	s.branching.pushBack(v)
}

// rollback rolls the search back up to the given trail position, saving the
// phase of the undone variables.
func (s *Solver) rollback(until int) {
	s.rollbackWith(until, true)
}

// rollbackMini is the rollback used by trial propagation: it does not touch
// the saved phases.
func (s *Solver) rollbackMini(until int) {
	s.rollbackWith(until, false)
}

func (s *Solver) rollbackWith(until int, savePhase bool) {
	for i := len(s.propQueue) - 1; i >= until; i-- {
		s.undo(s.propQueue[i], savePhase)
	}

	// Clear the analysis residue on the literals that stay assigned but
	// whose flags were tampered with during conflict analysis.
	for i := s.forced; i < until; i++ {
		s.flags[s.propQueue[i].index()].reset()
	}

	s.propagated = until
	s.propQueue = s.propQueue[:until]
}

// shouldRestart asks the restart strategy whether a complete restart of the
// search should be triggered.
func (s *Solver) shouldRestart() bool {
	return s.restartStrat.shouldRestart(s.nbConflictsSinceRestart, s.avgGlobalLBD, s.lbdWindow)
}

// restart rolls the search back to the root to explore a different path
// towards the solution.
func (s *Solver) restart() {
	s.rollback(s.root())
	if s.lcm {
		s.clauseMinimization()
	}
	s.restartStrat.setNextLimit()
	s.NbRestarts++
	s.nbConflictsSinceRestart = 0
	s.lbdWindow = s.lbdWindow[:0]
}

package sat

import "fmt"

// resolveConflict analyzes the conflict to derive a new clause, adds it to
// the database, and rolls the assignment stack back to the point where the
// learned clause becomes asserting. It returns false when the conflict cannot
// be resolved, which proves the problem unsat.
//
// The learned clause is minimized with the recursive minimization technique
// of "Minimizing Learned Clauses" (Sörensson, Biere -- 2009).
func (s *Solver) resolveConflict(conflict ClauseID) bool {
	uip := s.findFirstUIP(conflict)
	learned := s.buildConflictClause(uip)
	backjump := s.findBackjumpPoint(uip)

	s.rollback(backjump)

	cID, ok := s.addLearnedClause(learned)
	if !ok {
		return false
	}
	if cID == clauseElided {
		return true
	}
	asserting := s.clauses[cID].literals[0]
	return s.assign(asserting, cID)
}

// findFirstUIP finds the position in the trail of the first unique
// implication point implying the conflict. Concretely, this is a backwards
// traversal of the implication graph rooted at the conflicting clause, where
// each step is an inverse resolution.
func (s *Solver) findFirstUIP(conflict ClauseID) int {
	// Mark (and bump) all the literals of the conflicting clause.
	for _, l := range s.clauses[conflict].literals {
		s.markAndBump(l)
	}

	cursor := len(s.propQueue)
	for {
		cursor--

		// All the literals below `forced` follow from the constraints:
		// there is nothing left to analyze.
		if cursor < s.forced {
			break
		}

		// The first UIP found is bound to be the first one.
		if s.isUIP(cursor) {
			break
		}

		l := s.propQueue[cursor]
		if !s.flags[l.index()].isSet(IsMarked) {
			continue
		}

		// The literal is no decision: if it were, isUIP would have been
		// true.
		switch r := s.reason[l.Var()-1]; r {
		case noClause:
			panic(fmt.Sprintf("%v is a decision (it has no reason), but is not a UIP", l))
		case clauseElided:
			// Root fact: there is no clause to expand.
		default:
			for _, q := range s.clauses[r].literals[1:] {
				s.markAndBump(q)
			}
		}
	}

	s.branching.decay()
	return cursor
}

// isUIP returns true iff the given trail position is a unique implication
// point: either it is a decision, or it is marked and no position strictly
// between it and the next decision on its left is marked.
func (s *Solver) isUIP(position int) bool {
	l := s.propQueue[position]

	if s.isDecision(l) {
		return true
	}
	if !s.flags[l.index()].isSet(IsMarked) {
		return false
	}

	for i := position - 1; i >= s.forced; i-- {
		ll := s.propQueue[i]
		if s.flags[ll.index()].isSet(IsMarked) {
			return false
		}
		if s.isDecision(ll) {
			return true
		}
	}
	return false
}

// buildConflictClause walks the marked literals from the first UIP back to
// the forced prefix and returns the minimized learned clause: a marked
// literal is retained iff it is not implied by the other marked literals.
func (s *Solver) buildConflictClause(uip int) []Literal {
	learned := []Literal{}

	for cursor := uip; cursor >= s.forced; cursor-- {
		l := s.propQueue[cursor]
		if s.flags[l.index()].isSet(IsMarked) && !s.isImplied(l) {
			learned = append(learned, l)
			s.flags[l.index()].set(IsInConflictClause)
		}
	}
	return learned
}

// isImplied returns true iff the given literal is implied by the marked
// literals: its reason clause exists and every literal of that reason beyond
// position 0 is either marked or recursively implied. Answers are cached in
// the literal flags so each literal is analyzed at most once.
func (s *Solver) isImplied(l Literal) bool {
	if f := s.flags[l.index()]; f.oneOf(IsImplied, IsNotImplied) {
		return f.isSet(IsImplied)
	}

	switch r := s.reason[l.Var()-1]; r {
	case noClause:
		// A decision cannot be implied.
		return false
	case clauseElided:
		// There is no reason clause to explain the literal.
		return false
	default:
		for _, q := range s.clauses[r].literals[1:] {
			if !s.flags[q.index()].isSet(IsMarked) && !s.isImplied(q) {
				s.flags[l.index()].set(IsNotImplied)
				return false
			}
		}
		s.flags[l.index()].set(IsImplied)
		return true
	}
}

// findBackjumpPoint returns the trail position until which the solver should
// backtrack: the position of the earliest decision that leaves exactly one
// literal of the learned clause assigned at a higher level.
func (s *Solver) findBackjumpPoint(uip int) int {
	countUsed := 0
	backjump := uip

	for cursor := uip; cursor >= s.forced; cursor-- {
		l := s.propQueue[cursor]
		if s.flags[l.index()].isSet(IsInConflictClause) {
			countUsed++
		}
		if countUsed == 1 && s.isDecision(l) {
			backjump = cursor
		}
	}
	return backjump
}

// restrictedAnalysis is the conflict analysis used during trial-propagation
// minimization: it collects the marked literals of the trail suffix starting
// at propStart and keeps those belonging to base ∪ {extra}.
func (s *Solver) restrictedAnalysis(conflict ClauseID, base []Literal, extra Literal, propStart int) []Literal {
	for _, l := range s.clauses[conflict].literals {
		s.mark(l)
	}

	marked := []Literal{}
	for cursor := len(s.propQueue) - 1; cursor >= propStart; cursor-- {
		l := s.propQueue[cursor]
		if !s.flags[l.index()].isSet(IsMarked) {
			continue
		}
		marked = append(marked, l)

		if r := s.reason[l.Var()-1]; r != noClause && r != clauseElided {
			for _, q := range s.clauses[r].literals[1:] {
				s.mark(q)
			}
		}
	}

	kept := []Literal{}
	for _, l := range marked {
		if l == extra || containsLiteral(base, l) {
			kept = append(kept, l)
		}
	}
	return kept
}

func containsLiteral(lits []Literal, l Literal) bool {
	for _, ll := range lits {
		if ll == l {
			return true
		}
	}
	return false
}

// markAndBump marks the literal and bumps its variable in the branching
// heuristic, unless the literal is already marked.
func (s *Solver) markAndBump(l Literal) {
	f := &s.flags[l.index()]
	if !f.isSet(IsMarked) {
		f.set(IsMarked)
		s.branching.bump(l.Var())
	}
}

// mark is the bump-free variant used by the restricted analysis.
func (s *Solver) mark(l Literal) {
	s.flags[l.index()].set(IsMarked)
}

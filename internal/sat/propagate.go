package sat

// propagate processes the enqueued literals until a fixed point is reached.
// It returns the conflicting clause if a conflict is detected, noClause
// otherwise.
func (s *Solver) propagate() ClauseID {
	for s.propagated < len(s.propQueue) {
		l := s.propQueue[s.propagated]
		if conflict := s.propagateLiteral(l); conflict != noClause {
			return conflict
		}
		s.propagated++
	}
	return noClause
}

// propagateLiteral notifies all the watchers of l that l has been falsified.
//
// The watch list is iterated backwards with swap-remove so that watchers
// appended during the iteration (clauses re-installing their watch, or
// moving a watch to this literal) are never revisited in the same pass.
func (s *Solver) propagateLiteral(l Literal) ClauseID {
	idx := l.index()
	for i := len(s.watchers[idx]) - 1; i >= 0; i-- {
		w := s.watchers[idx][i]
		last := len(s.watchers[idx]) - 1
		s.watchers[idx][i] = s.watchers[idx][last]
		s.watchers[idx] = s.watchers[idx][:last]

		if newLit, ok := s.findNewLiteral(w, l); ok {
			// A watchable literal was found: start watching it.
			s.watchers[newLit.index()] = append(s.watchers[newLit.index()], w)
		} else {
			// No replacement: keep watching l and assert the
			// remaining literal, otherwise the clause is unsat.
			s.watchers[idx] = append(s.watchers[idx], w)
			if !s.assign(newLit, w) {
				return w
			}
		}
	}
	return noClause
}

// findNewLiteral tries to find a new literal that can be watched by the given
// clause after `watched` has been falsified.
//
// When a replacement is found, it is swapped into position 1 (invariant A)
// and returned with ok = true; the returned literal is then the one to start
// watching. When the clause is already satisfied through its other watched
// literal, `watched` itself is returned with ok = true so that the watch gets
// re-installed unchanged. When no replacement exists, ok is false and the
// returned literal is the last one that can still satisfy the clause: if it
// is true or unassigned the clause is unit, otherwise it is conflicting.
func (s *Solver) findNewLiteral(cID ClauseID, watched Literal) (Literal, bool) {
	c := s.clauses[cID]

	// Make sure the other watched literal sits at position 0. This way,
	// whenever the clause becomes unit, invariant B holds.
	if watched == c.literals[0] {
		c.swap(0, 1)
	}

	other := c.literals[0]
	if s.isTrue(other) {
		return watched, true
	}

	for i := 2; i < len(c.literals); i++ {
		if lit := c.literals[i]; !s.isFalse(lit) {
			c.swap(1, i) // enforce invariant A
			return lit, true
		}
	}

	// All literals beyond the first are false: the clause is unit (under
	// the current assignment) or conflicting.
	return other, false
}

// activateClause finds two literals to be watched by the clause and starts
// watching them. When the clause is detected to be unit under the current
// assignment, its remaining literal is asserted; when no watchable literal is
// left at all, the solver is marked unsat for ever.
//
// Clauses of size 0 and 1 are assumed to be out of the way: only clauses with
// at least two literals ever get (de)activated.
func (s *Solver) activateClause(cID ClauseID) {
	c := s.clauses[cID]

	cnt := 0
	wl1, pl1 := c.literals[0], 0
	wl2, pl2 := c.literals[1], 1

	for p, l := range c.literals {
		if s.isFalse(l) {
			continue
		}
		if cnt == 0 {
			// Avoid the case where both watches designate the same
			// literal.
			if l == wl2 {
				wl2, pl2 = wl1, pl1
			}
			wl1, pl1 = l, p
			cnt++
		} else if cnt == 1 {
			wl2, pl2 = l, p
			cnt++
		} else {
			break
		}
	}

	if cnt == 0 {
		// No literal can possibly be watched.
		s.isUnsat = true
		return
	}
	if cnt == 1 {
		// The clause is unit under the current assignment: wl1 is known
		// to be watchable, so assert it.
		if !s.assign(wl1, cID) {
			s.isUnsat = true
		}
	}

	c.swap(0, pl1)
	c.swap(1, pl2)
	s.watchers[wl1.index()] = append(s.watchers[wl1.index()], cID)
	s.watchers[wl2.index()] = append(s.watchers[wl2.index()], cID)
}

// deactivateClause removes all the watches of the given clause.
func (s *Solver) deactivateClause(cID ClauseID) {
	for i := 0; i < 2; i++ {
		idx := s.clauses[cID].literals[i].index()
		for j := len(s.watchers[idx]) - 1; j >= 0; j-- {
			if s.watchers[idx][j] == cID {
				last := len(s.watchers[idx]) - 1
				s.watchers[idx][j] = s.watchers[idx][last]
				s.watchers[idx] = s.watchers[idx][:last]
				break
			}
		}
	}
}

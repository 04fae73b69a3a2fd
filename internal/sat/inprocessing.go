package sat

// subsumes tells whether c1 subsumes c2, i.e. whether every literal of c1
// appears in c2. A clause subsumes itself.
func subsumes(c1, c2 *Clause) bool {
	if c1.Len() > c2.Len() {
		return false
	}
	for _, l := range c1.literals {
		if !c2.contains(l) {
			return false
		}
	}
	return true
}

// subsumesWithoutLit tells whether c1 \ {skip} subsumes c2.
func subsumesWithoutLit(c1, c2 *Clause, skip Literal) bool {
	if c1.Len() > c2.Len()+1 {
		return false
	}
	for _, l := range c1.literals {
		if l != skip && !c2.contains(l) {
			return false
		}
	}
	return true
}

// selfSubsume applies one step of self-subsuming resolution between the two
// clauses: when there is exactly one literal l of c1 whose negation appears
// in c2 and c1 \ {l} subsumes c2, the resolvent of c1 and c2 on l subsumes
// c2, so ¬l can be removed from c2 (and, when both clauses have the same
// size, l can be removed from c1 as well). It returns true when c2 was
// strengthened.
//
// The caller must make sure both clauses are deactivated: literals may move
// across the watched positions.
func selfSubsume(c1, c2 *Clause) bool {
	if c1.Len() > c2.Len() {
		return false
	}
	for i, l := range c1.literals {
		if c2.contains(l.Opposite()) && subsumesWithoutLit(c1, c2, l) {
			if c1.Len() == c2.Len() {
				c1.swapRemove(i)
			}
			c2.removeLit(l.Opposite())
			return true
		}
	}
	return false
}

// ForwardSubsumption removes every learned clause that is subsumed by
// another clause of the database. It may only run at a quiescent root state.
func (s *Solver) ForwardSubsumption() {
	for id := len(s.clauses) - 1; id >= 0; id-- {
		if id >= len(s.clauses) || !s.clauses[id].learned {
			continue
		}
		for other := len(s.clauses) - 1; other >= 0; other-- {
			if other == id {
				continue
			}
			if subsumes(s.clauses[other], s.clauses[id]) {
				s.removeClause(id)
				break
			}
		}
	}
}

// backwardSubsumption removes the learned clauses subsumed by the freshly
// added clause cID. Because removals rename the last clause of the store, the
// new clause itself may move; its final id is returned.
func (s *Solver) backwardSubsumption(cID ClauseID) ClauseID {
	c := s.clauses[cID]
	for id := 0; id < len(s.clauses); {
		if id == cID || !s.clauses[id].learned || !subsumes(c, s.clauses[id]) {
			id++
			continue
		}
		lastID := len(s.clauses) - 1
		s.removeClause(id)
		if cID == lastID {
			// The new clause was the displaced last clause.
			cID = id
			id++
		}
		// Otherwise re-examine whatever clause was swapped into id.
	}
	return cID
}

// removeClausesWith removes all the clauses containing the given literal,
// except the clause identified by exceptID. This is the root-level
// elimination: once a literal is forced, every clause containing it is
// satisfied for ever.
func (s *Solver) removeClausesWith(l Literal, exceptID ClauseID) {
	for id := len(s.clauses) - 1; id >= 0; id-- {
		if id == exceptID || !s.clauses[id].contains(l) {
			continue
		}
		s.removeClause(id)
		s.Removed++
		if exceptID == len(s.clauses) {
			// The excepted clause was the displaced last clause.
			exceptID = id
		}
	}
}

// Preprocess runs the trial-propagation minimization over all the problem
// clauses before the search starts, and a forward subsumption pass when
// subsumption is enabled.
func (s *Solver) Preprocess() {
	s.minimizeRange(0)
	if s.isUnsat {
		return
	}
	if s.subsumeEnable {
		s.ForwardSubsumption()
	}
}

// clauseMinimization minimizes the clauses learned since the previous
// minimization. It runs at restart boundaries, once the trail has been rolled
// back to the root.
func (s *Solver) clauseMinimization() {
	start := len(s.clauses) - s.nbLearnedSinceMinimization
	if start < 0 {
		start = 0
	}
	s.minimizeRange(start)
	s.nbLearnedSinceMinimization = 0
	s.nbMinimizations++
}

// minimizeRange applies the trial-propagation procedure to every candidate
// clause with id in [start, len). For each candidate C (at most 30 literals
// and, for a learned clause, an LBD of at most 6), C is deactivated and
// its literals are examined in order against the assignment obtained by
// propagating the negation of the literals examined so far:
//
//   - a literal found true means C is entailed: C is dropped entirely when it
//     is the first literal, otherwise C shrinks to the prefix ending at it;
//   - a literal found false is removed from C;
//   - an unassigned literal is trial-assigned both ways: a conflict on the
//     negative side yields a replacement clause through restricted analysis,
//     a conflict on the positive side removes the literal, and no conflict
//     at all retains the literal.
//
// The surviving literals replace C in place; an empty result proves the
// problem unsat and a single surviving literal is promoted to a learned unit.
func (s *Solver) minimizeRange(start int) {
	// Clauses are scheduled for removal by pointer rather than by id:
	// additions made along the way can trigger backward subsumption, and
	// the renames it causes would invalidate stored ids.
	removeAgenda := []*Clause{}

	end := len(s.clauses)
	for cID := start; cID < end && cID < len(s.clauses); cID++ {
		if s.isUnsat {
			return
		}
		c := s.clauses[cID]
		if c.Len() > 30 {
			continue
		}
		if c.learned && s.lbd[cID] > 6 {
			continue
		}

		if s.propagate() != noClause {
			// A promoted unit contradicted the problem.
			s.isUnsat = true
			return
		}

		rollbackPoint := len(s.propQueue)
		s.deactivateClause(cID)

		kept := []Literal{}
		removeLit := []int{}
		handled := false

		size := c.Len()
		for i := 0; i < size; i++ {
			l := c.literals[i]
			if s.propagate() != noClause {
				s.isUnsat = true
				return
			}

			value := s.value(l)
			if value == True {
				// The clause is entailed by the current state.
				if i == 0 {
					handled = true
					removeAgenda = append(removeAgenda, c)
					break
				}
				kept = append(kept, l)
				for j := c.Len() - 1; j > i; j-- {
					c.swapRemove(j)
				}
				break
			}
			if value == False {
				removeLit = append(removeLit, i)
				continue
			}

			trialPoint := len(s.propQueue)

			// First try the opposite of the literal.
			s.assign(l.Opposite(), noClause)
			if conflict := s.propagate(); conflict != noClause {
				replacement := s.restrictedAnalysis(conflict, kept, l, rollbackPoint)
				s.rollbackMini(rollbackPoint)

				s.addLearnedClause(replacement)
				removeAgenda = append(removeAgenda, c)
				handled = true
				break
			}

			// Then the literal itself.
			s.rollbackMini(trialPoint)
			s.assign(l, noClause)
			conflict := s.propagate()
			s.rollbackMini(trialPoint)
			if conflict == noClause {
				kept = append(kept, l)
				s.assign(l.Opposite(), noClause)
			} else {
				removeLit = append(removeLit, i)
			}
		}

		if handled {
			continue
		}

		s.rollbackMini(rollbackPoint)
		if len(kept) == 0 {
			s.isUnsat = true
			return
		}
		if len(kept) == 1 {
			s.addLearnedClause(kept)
			removeAgenda = append(removeAgenda, c)
			continue
		}
		for j := len(removeLit) - 1; j >= 0; j-- {
			c.swapRemove(removeLit[j])
		}
		// The clause may have been renamed by removals triggered along
		// the way: resolve its current id before re-installing it.
		if id, ok := s.clauseID(c); ok {
			s.activateClause(id)
		}
	}

	for i := len(removeAgenda) - 1; i >= 0; i-- {
		if id, ok := s.clauseID(removeAgenda[i]); ok {
			s.removeClause(id)
		}
	}
}

// clauseID resolves the current id of the given clause, which may have been
// renamed (or removed altogether) since it was last seen.
func (s *Solver) clauseID(c *Clause) (ClauseID, bool) {
	for id, cc := range s.clauses {
		if cc == c {
			return id, true
		}
	}
	return noClause, false
}

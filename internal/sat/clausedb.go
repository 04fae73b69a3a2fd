package sat

import (
	"fmt"
	"math"
	"sort"
)

// AddProblemClause adds a problem clause given as signed DIMACS integers.
// Problem clauses may only be added before the search starts.
func (s *Solver) AddProblemClause(raw []int) error {
	if s.nbDecisions != 0 {
		return fmt.Errorf("can only add clauses at the root level")
	}
	s.addProblemClause(raw)
	return nil
}

// addProblemClause does the cleanup work before handing the clause to
// addClause: literals are deduplicated, tautologies are elided, and literals
// already falsified at the root are dropped (resp. the clause is elided when
// one of its literals is already forced true).
func (s *Solver) addProblemClause(raw []int) (ClauseID, bool) {
	c := make([]int, len(raw))
	copy(c, raw)
	sort.Slice(c, func(i, j int) bool {
		ai, aj := abs(c[i]), abs(c[j])
		if ai != aj {
			return ai < aj
		}
		return c[i] < c[j]
	})

	j := 0
	for i := 0; i < len(c); i++ {
		if i > 0 && c[i] == c[i-1] {
			continue // duplicate literal
		}
		if i > 0 && c[i] == -c[i-1] {
			return clauseElided, true // tautology
		}
		c[j] = c[i]
		j++
	}
	c = c[:j]

	lits := make([]Literal, 0, len(c))
	for _, val := range c {
		l := Literal(val)
		if s.flags[l.Opposite().index()].isSet(IsForced) {
			continue // already falsified at the root
		}
		lits = append(lits, l)
	}
	for _, l := range lits {
		if s.flags[l.index()].isSet(IsForced) {
			return clauseElided, true // already satisfied at the root
		}
	}

	return s.addClause(newClause(lits, false))
}

// addLearnedClause adds a learned clause to the database. There is no need to
// check for tautologies here: conflict resolution cannot produce them.
//
// For stored clauses, the LBD bookkeeping (initial score, sliding window,
// global average) is updated and the clause is protected from the next
// database reduction. When backward subsumption is enabled, learned clauses
// subsumed by the new clause are removed.
func (s *Solver) addLearnedClause(lits []Literal) (ClauseID, bool) {
	cID, ok := s.addClause(newClause(lits, true))
	if !ok || cID == clauseElided {
		return cID, ok
	}

	s.nbLearned++
	s.nbLearnedSinceMinimization++

	lbd := s.literalBlockDistance(cID)
	s.lbd[cID] = lbd
	s.avgGlobalLBD += (float64(lbd) - s.avgGlobalLBD) / float64(s.nbLearned)

	s.lbdWindow = append(s.lbdWindow, lbd)
	if len(s.lbdWindow) > lbdWindowSize {
		i := s.nbConflictsSinceRestart % (lbdWindowSize + 1)
		last := len(s.lbdWindow) - 1
		s.lbdWindow[i] = s.lbdWindow[last]
		s.lbdWindow = s.lbdWindow[:last]
	}
	s.lbdRecentlyUpdated.Set(uint(cID))

	if s.subsumeEnable {
		cID = s.backwardSubsumption(cID)
	}
	return cID, true
}

// addClause is where the bulk of the work to add a clause to the database
// happens. An empty clause makes the problem unsat; a unit clause is not
// stored but asserted with an elided reason; anything else is appended to the
// store and starts watching its first two literals.
//
// It returns the id of the added clause (or clauseElided when the clause was
// represented implicitly) and false when the addition makes the whole problem
// unsat.
func (s *Solver) addClause(c *Clause) (ClauseID, bool) {
	s.logProofAdded(c)

	if c.Len() == 0 {
		s.isUnsat = true
		return noClause, false
	}
	if c.Len() == 1 {
		if !s.assign(c.literals[0], clauseElided) {
			s.isUnsat = true
			return clauseElided, false
		}
		return clauseElided, true
	}

	cID := len(s.clauses)
	wl1, wl2 := c.literals[0], c.literals[1]

	s.clauses = append(s.clauses, c)
	s.lbd = append(s.lbd, math.MaxUint32)
	s.watchers[wl1.index()] = append(s.watchers[wl1.index()], cID)
	s.watchers[wl2.index()] = append(s.watchers[wl2.index()], cID)

	return cID, true
}

// removeClause removes a clause from the database. To keep the state
// consistent, the clause disappears from both watch lists and from the reason
// slots, and all the references to the last clause of the store, which is
// renamed to fill the freed slot, are renumbered.
func (s *Solver) removeClause(cID ClauseID) {
	s.logProofDeleted(s.clauses[cID])

	s.deactivateClause(cID)
	s.unlockClause(cID)

	last := len(s.clauses) - 1
	if last != cID {
		s.renameClause(last, cID)
	}

	removed := s.clauses[cID]
	if removed.learned {
		s.nbLearned--
		if s.nbLearnedSinceMinimization > 0 {
			s.nbLearnedSinceMinimization--
		}
	}

	s.clauses[cID] = s.clauses[last]
	s.clauses = s.clauses[:last]
	s.lbd[cID] = s.lbd[last]
	s.lbd = s.lbd[:last]

	freeLiterals(removed.literals)
	removed.literals = nil
}

// removeAll removes every clause of the agenda, patching the agenda's own
// references when a removal renames a clause that is still scheduled.
func (s *Solver) removeAll(agenda []ClauseID) {
	for i := 0; i < len(agenda); i++ {
		id := agenda[i]
		last := len(s.clauses) - 1
		s.removeClause(id)

		if id != last {
			for j := i + 1; j < len(agenda); j++ {
				if agenda[j] == last {
					agenda[j] = id
				}
			}
		}
	}
}

// renameClause renames the clause identified by `from` into `into`: its watch
// list entries, its reason slot if it is locked, and its protection bit all
// follow. Removals are O(1) but move a clause to another location in the
// store; the rest of the solver must be made aware of the location change.
func (s *Solver) renameClause(from, into ClauseID) {
	// Note: looking only at the two watched positions is correct as long
	// as clauses that have become unit cannot be removed.
	for i := 0; i < 2; i++ {
		idx := s.clauses[from].literals[i].index()
		for j, w := range s.watchers[idx] {
			if w == from {
				s.watchers[idx][j] = into
				break
			}
		}
	}

	v := s.clauses[from].literals[0].Var()
	if s.reason[v-1] == from {
		s.reason[v-1] = into
	}

	s.lbdRecentlyUpdated.SetTo(uint(into), s.lbdRecentlyUpdated.Test(uint(from)))
}

// isLocked returns true iff the clause is the reason of some unit propagation
// in the current assignment.
func (s *Solver) isLocked(cID ClauseID) bool {
	c := s.clauses[cID]
	if c.Len() < 2 {
		return true
	}
	l := c.literals[0]
	if s.isUndef(l) {
		return false
	}
	return s.reason[l.Var()-1] == cID
}

// unlockClause clears the reason slot pointing at the given clause, if any.
// This is only safe right before the clause is removed.
func (s *Solver) unlockClause(cID ClauseID) {
	v := s.clauses[cID].literals[0].Var()
	if s.reason[v-1] == cID {
		s.reason[v-1] = noClause
	}
}

// shouldReduceDB tells whether it is time to forget some of the less useful
// learned clauses.
func (s *Solver) shouldReduceDB() bool {
	return s.nbLearned > s.maxLearned
}

// reduceDB reduces the size of the database by removing half of the worst
// learned clauses, ranked by LBD. Binary clauses, glue clauses, locked
// clauses, and clauses whose LBD recently improved are never removed.
func (s *Solver) reduceDB() {
	agenda := []ClauseID{}
	for id := range s.clauses {
		if s.canForget(id) {
			agenda = append(agenda, id)
		}
	}

	sort.SliceStable(agenda, func(i, j int) bool {
		return s.lbd[agenda[i]] > s.lbd[agenda[j]]
	})
	if limit := s.nbLearned / 2; len(agenda) > limit {
		agenda = agenda[:limit]
	}

	s.removeAll(agenda)

	// Remove the protection on all the clauses.
	s.lbdRecentlyUpdated.ClearAll()

	// Allow the solver to learn somewhat more clauses before the database
	// is reduced again.
	s.maxLearned = s.maxLearned * 3 / 2
}

// canForget tells whether the clause may be dropped by reduceDB.
func (s *Solver) canForget(cID ClauseID) bool {
	c := s.clauses[cID]
	return c.learned &&
		c.Len() > 2 &&
		s.lbd[cID] > 2 &&
		!s.lbdRecentlyUpdated.Test(uint(cID)) &&
		!s.isLocked(cID)
}

// clauseBump is called whenever the clause propagates a literal. It tries to
// dynamically improve the LBD of the clause; on success the clause is
// protected against deletion for one round.
func (s *Solver) clauseBump(cID ClauseID) {
	old := s.lbd[cID]
	if old <= 2 {
		// Glue clauses are permanent: no point improving them further.
		return
	}
	if newLBD := s.literalBlockDistance(cID); newLBD < old {
		s.lbd[cID] = newLBD
		s.lbdRecentlyUpdated.Set(uint(cID))
	}
}

// literalBlockDistance computes the number of distinct decision levels among
// the clause's literals. Glue clauses short-circuit to their cached value:
// they can never be improved.
func (s *Solver) literalBlockDistance(cID ClauseID) uint32 {
	if s.lbd[cID] <= 2 {
		return s.lbd[cID]
	}

	s.levelBlocks.clear()
	lbd := uint32(0)
	for _, l := range s.clauses[cID].literals {
		if lvl := s.level[l.Var()-1]; !s.levelBlocks.contains(lvl) {
			s.levelBlocks.add(lvl)
			lbd++
		}
	}
	return lbd
}

func abs(i int) int {
	if i < 0 {
		return -i
	}
	return i
}

package sat

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// checkWatchInvariants verifies that every stored clause with at least two
// literals is watched exactly once by each of its first two literals and by
// no other literal, and that every already propagated literal on the trail is
// false.
func checkWatchInvariants(t *testing.T, s *Solver) {
	t.Helper()

	counts := map[ClauseID]map[int]int{}
	for idx, ws := range s.watchers {
		for _, w := range ws {
			if counts[w] == nil {
				counts[w] = map[int]int{}
			}
			counts[w][idx]++
		}
	}

	for id, c := range s.clauses {
		if c.Len() < 2 {
			t.Errorf("clause %d: stored with %d literals", id, c.Len())
			continue
		}
		want := map[int]int{
			c.literals[0].index(): 1,
			c.literals[1].index(): 1,
		}
		if diff := cmp.Diff(want, counts[id]); diff != "" {
			t.Errorf("clause %d watches mismatch (-want, +got):\n%s", id, diff)
		}
	}
	for w := range counts {
		if w < 0 || w >= len(s.clauses) {
			t.Errorf("watcher references unknown clause %d", w)
		}
	}

	for i, l := range s.propQueue {
		if i < s.propagated && !s.isFalse(l) {
			t.Errorf("trail position %d: literal %v is not false", i, l)
		}
	}
}

func TestAddProblemClause_TautologyIsElided(t *testing.T) {
	s := NewDefaultSolver(3)

	cID, ok := s.addProblemClause([]int{1, -2, -1})
	if !ok || cID != clauseElided {
		t.Errorf("addProblemClause(): got (%d, %v), want elided", cID, ok)
	}
	if len(s.clauses) != 0 {
		t.Errorf("clauses: got %d, want the store unchanged", len(s.clauses))
	}
}

func TestAddProblemClause_DuplicateLiteralsAreRemoved(t *testing.T) {
	s := NewDefaultSolver(3)

	cID, ok := s.addProblemClause([]int{2, 1, 2, 1})
	if !ok || cID == clauseElided {
		t.Fatalf("addProblemClause(): got (%d, %v), want a stored clause", cID, ok)
	}
	if diff := cmp.Diff([]Literal{1, 2}, s.clauses[cID].literals); diff != "" {
		t.Errorf("literals mismatch (-want, +got):\n%s", diff)
	}
}

func TestAddProblemClause_EmptyClauseMakesTheProblemUnsat(t *testing.T) {
	s := NewDefaultSolver(3)
	s.addProblemClause([]int{})

	if !s.isUnsat {
		t.Errorf("isUnsat: got false, want true")
	}
}

func TestAddProblemClause_UnitClauseIsAssertedWithAnElidedReason(t *testing.T) {
	s := NewDefaultSolver(3)

	cID, ok := s.addProblemClause([]int{2})
	if !ok || cID != clauseElided {
		t.Fatalf("addProblemClause(): got (%d, %v), want elided", cID, ok)
	}
	if got := s.value(Literal(2)); got != True {
		t.Errorf("value(2): got %v, want true", got)
	}
	if got := s.reason[1]; got != clauseElided {
		t.Errorf("reason(2): got %d, want elided", got)
	}
	if s.forced != 1 {
		t.Errorf("forced: got %d, want 1", s.forced)
	}
}

func TestAddProblemClause_ConflictingUnitsMakeTheProblemUnsat(t *testing.T) {
	s := NewDefaultSolver(3)
	s.addProblemClause([]int{2})
	s.addProblemClause([]int{-2})

	if !s.isUnsat {
		t.Errorf("isUnsat: got false, want true")
	}
}

func TestAddProblemClause_DropsLiteralsFalsifiedAtRoot(t *testing.T) {
	s := NewDefaultSolver(3)
	s.addProblemClause([]int{-1})

	cID, ok := s.addProblemClause([]int{1, 2, 3})
	if !ok || cID == clauseElided {
		t.Fatalf("addProblemClause(): got (%d, %v), want a stored clause", cID, ok)
	}
	if diff := cmp.Diff([]Literal{2, 3}, s.clauses[cID].literals); diff != "" {
		t.Errorf("literals mismatch (-want, +got):\n%s", diff)
	}
}

func TestAddProblemClause_ElidesClausesSatisfiedAtRoot(t *testing.T) {
	s := NewDefaultSolver(3)
	s.addProblemClause([]int{1})

	cID, ok := s.addProblemClause([]int{1, 2, 3})
	if !ok || cID != clauseElided {
		t.Errorf("addProblemClause(): got (%d, %v), want elided", cID, ok)
	}
}

func TestAddLearnedClause_InitializesTheLBDBookkeeping(t *testing.T) {
	s := NewDefaultSolver(5)
	s.assign(Literal(-1), noClause)
	s.assign(Literal(-2), noClause)

	cID, ok := s.addLearnedClause([]Literal{1, 2})
	if !ok || cID == clauseElided {
		t.Fatalf("addLearnedClause(): got (%d, %v), want a stored clause", cID, ok)
	}

	if got := s.lbd[cID]; got != 2 {
		t.Errorf("lbd: got %d, want 2", got)
	}
	if diff := cmp.Diff([]uint32{2}, s.lbdWindow); diff != "" {
		t.Errorf("lbd window mismatch (-want, +got):\n%s", diff)
	}
	if s.avgGlobalLBD != 2 {
		t.Errorf("avgGlobalLBD: got %v, want 2", s.avgGlobalLBD)
	}
	if !s.lbdRecentlyUpdated.Test(uint(cID)) {
		t.Errorf("lbdRecentlyUpdated: got unset, want set")
	}
	if s.nbLearned != 1 {
		t.Errorf("nbLearned: got %d, want 1", s.nbLearned)
	}
}

func TestLiteralBlockDistance_CountsDistinctLevels(t *testing.T) {
	s := newTestSolver(t, 6, [][]int{{1, 2, 3, 4}})
	s.assign(Literal(-1), noClause) // level 1
	s.assign(Literal(-2), noClause) // level 2
	s.assign(Literal(-3), noClause) // level 3

	if got := s.literalBlockDistance(0); got != 4 {
		// levels 1, 2, 3 and level 0 for the unassigned variable.
		t.Errorf("literalBlockDistance(): got %d, want 4", got)
	}
}

func TestClauseBump_ProtectsImprovedClauses(t *testing.T) {
	s := NewDefaultSolver(5)
	s.assign(Literal(-1), noClause)
	s.assign(Literal(-2), noClause)
	s.assign(Literal(-3), noClause)

	cID, _ := s.addLearnedClause([]Literal{1, 2, 3})
	if got := s.lbd[cID]; got != 3 {
		t.Fatalf("lbd: got %d, want 3", got)
	}
	s.lbdRecentlyUpdated.ClearAll()

	// Re-assigning the variables at a single level improves the LBD.
	s.rollback(0)
	s.assign(Literal(-1), noClause)
	s.assign(Literal(-2), clauseElided)
	s.assign(Literal(-3), clauseElided)

	s.clauseBump(cID)

	if got := s.lbd[cID]; got != 1 {
		t.Errorf("lbd after bump: got %d, want 1", got)
	}
	if !s.lbdRecentlyUpdated.Test(uint(cID)) {
		t.Errorf("lbdRecentlyUpdated: got unset, want set")
	}
}

func TestRemoveClause_RenamesTheLastClause(t *testing.T) {
	s := newTestSolver(t, 6, [][]int{
		{1, 2},
		{3, 4},
		{5, 6},
	})

	moved := s.clauses[2]
	s.removeClause(0)

	if len(s.clauses) != 2 {
		t.Fatalf("clauses: got %d, want 2", len(s.clauses))
	}
	if s.clauses[0] != moved {
		t.Errorf("clause 0: the last clause was not renamed into the freed slot")
	}
	checkWatchInvariants(t, s)
}

func TestRemoveClause_RenamesTheReason(t *testing.T) {
	s := newTestSolver(t, 4, [][]int{
		{1, 2},
		{3, 4},
	})
	s.assign(Literal(-3), noClause)
	if conflict := s.propagate(); conflict != noClause {
		t.Fatalf("propagate(): got conflict %d, want none", conflict)
	}
	if s.reason[3] != 1 {
		t.Fatalf("reason(4): got %d, want clause 1", s.reason[3])
	}

	s.removeClause(0)

	if s.reason[3] != 0 {
		t.Errorf("reason(4): got %d, want the renamed clause 0", s.reason[3])
	}
}

func TestReduceDB_RemovesHalfOfTheWorstClauses(t *testing.T) {
	s := NewDefaultSolver(12)
	for v := Variable(1); v <= 12; v++ {
		s.assign(NegativeLiteral(v), noClause)
	}

	// Four learned clauses with LBD 4: all of them are forgettable once
	// their protection bit is dropped.
	for i := 0; i < 4; i++ {
		base := 3 * i
		s.addLearnedClause([]Literal{
			Literal(base + 1), Literal(base + 2), Literal(base + 3), Literal((base+3)%12 + 1),
		})
	}
	s.lbdRecentlyUpdated.ClearAll()

	s.reduceDB()

	if s.nbLearned != 2 {
		t.Errorf("nbLearned: got %d, want 2", s.nbLearned)
	}
	if s.maxLearned != 1500 {
		t.Errorf("maxLearned: got %d, want 1500", s.maxLearned)
	}
	checkWatchInvariants(t, s)
}

func TestReduceDB_KeepsGlueClauses(t *testing.T) {
	s := NewDefaultSolver(6)
	s.assign(Literal(-1), noClause)
	s.assign(Literal(-2), clauseElided)
	s.assign(Literal(-3), clauseElided)

	// All three variables sit at the same level: a glue clause, never
	// deleted.
	s.addLearnedClause([]Literal{1, 2, 3})
	s.lbdRecentlyUpdated.ClearAll()

	s.reduceDB()

	if s.nbLearned != 1 {
		t.Errorf("nbLearned: got %d, want 1", s.nbLearned)
	}
}

func TestIsLocked(t *testing.T) {
	s := newTestSolver(t, 4, [][]int{{1, 2}})

	s.assign(Literal(-1), noClause)
	if s.isLocked(0) {
		t.Errorf("isLocked: got true before propagation, want false")
	}
	if conflict := s.propagate(); conflict != noClause {
		t.Fatalf("propagate(): got conflict %d, want none", conflict)
	}
	if !s.isLocked(0) {
		t.Errorf("isLocked: got false, want true (clause 0 is the reason of 2)")
	}
}

func TestProofLogging_RecordsAdditionsAndDeletions(t *testing.T) {
	proof := &bytes.Buffer{}
	s := New(3, Options{Proof: proof})

	s.addProblemClause([]int{1, 2})
	cID, _ := s.addLearnedClause([]Literal{-1, -2})
	s.removeClause(cID)

	want := []string{
		"a 1 2 0",
		"a -1 -2 0",
		"d -1 -2 0",
	}
	got := strings.Split(strings.TrimSpace(proof.String()), "\n")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("proof mismatch (-want, +got):\n%s", diff)
	}
}

package sat

import "fmt"

// The core never writes proof files itself: it emits textual DRAT records to
// the opaque sink configured in the options. See "Trimming while Checking
// Clausal Proofs" (Heule, Hunt, Wetzler -- FMCAD 2013).

func (s *Solver) logProofAdded(c *Clause) {
	if s.proof == nil {
		return
	}
	fmt.Fprintf(s.proof, "a %s\n", c.dimacs())
}

func (s *Solver) logProofDeleted(c *Clause) {
	if s.proof == nil {
		return
	}
	fmt.Fprintf(s.proof, "d %s\n", c.dimacs())
}

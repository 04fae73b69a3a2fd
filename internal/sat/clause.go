package sat

import "strings"

// Clause is a disjunction of at least two literals. Unit and empty clauses
// are never stored in the database: units are directly asserted on the trail
// and the empty clause makes the whole problem unsat.
//
// Invariant A: the literals at positions 0 and 1 are the two watched
// literals. Invariant B: when the clause is unit under the current
// assignment, position 0 holds the sole unassigned literal (the one to be
// asserted).
type Clause struct {
	literals []Literal

	// Whether the clause was learnt or not.
	learned bool
}

func newClause(literals []Literal, learned bool) *Clause {
	c := &Clause{
		literals: allocLiterals(len(literals)),
		learned:  learned,
	}
	c.literals = append(c.literals, literals...)
	return c
}

// Len returns the number of literals in the clause.
func (c *Clause) Len() int {
	return len(c.literals)
}

func (c *Clause) swap(i, j int) {
	c.literals[i], c.literals[j] = c.literals[j], c.literals[i]
}

// swapRemove removes the literal at position i by swapping it with the last
// literal and shrinking the clause.
func (c *Clause) swapRemove(i int) {
	last := len(c.literals) - 1
	c.literals[i] = c.literals[last]
	c.literals = c.literals[:last]
}

func (c *Clause) contains(l Literal) bool {
	for _, lit := range c.literals {
		if lit == l {
			return true
		}
	}
	return false
}

// removeLit removes the first occurrence of l from the clause.
func (c *Clause) removeLit(l Literal) {
	for i, lit := range c.literals {
		if lit == l {
			c.swapRemove(i)
			return
		}
	}
}

// dimacs returns the clause's literals in DIMACS notation, 0-terminated. This
// is the form expected by DRAT proof checkers.
func (c *Clause) dimacs() string {
	sb := strings.Builder{}
	for _, l := range c.literals {
		sb.WriteString(l.String())
		sb.WriteByte(' ')
	}
	sb.WriteByte('0')
	return sb.String()
}

func (c *Clause) String() string {
	if len(c.literals) == 0 {
		return "Clause[]"
	}
	sb := strings.Builder{}
	sb.WriteString("Clause[")
	sb.WriteString(c.literals[0].String())
	for _, l := range c.literals[1:] {
		sb.WriteByte(' ')
		sb.WriteString(l.String())
	}
	sb.WriteByte(']')
	return sb.String()
}

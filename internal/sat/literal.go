package sat

import "strconv"

// Variable identifies a boolean variable of the problem. Variables are
// numbered from 1 to the number of variables declared when the solver is
// created; 0 is never a valid variable.
type Variable int

// Literal represents a variable or its negation. Positive values denote the
// variable itself, negative values its negation; the literal 0 is invalid.
// This matches the DIMACS convention so that clauses read from an instance
// file can be used without translation.
type Literal int

// PositiveLiteral returns the positive literal of variable v.
func PositiveLiteral(v Variable) Literal {
	return Literal(v)
}

// NegativeLiteral returns the negative literal of variable v.
func NegativeLiteral(v Variable) Literal {
	return Literal(-v)
}

// Var returns the literal's variable.
func (l Literal) Var() Variable {
	if l < 0 {
		return Variable(-l)
	}
	return Variable(l)
}

// IsPositive returns true if and only if the literal represents the value of
// its variable (i.e. not its negation).
func (l Literal) IsPositive() bool {
	return l > 0
}

// Opposite returns the opposite literal.
func (l Literal) Opposite() Literal {
	return -l
}

// index maps the literal to a unique position in [0, 2*nbVars). The solver
// uses it to address per-literal state (watch lists and analysis flags).
func (l Literal) index() int {
	v := 2 * (int(l.Var()) - 1)
	if l < 0 {
		return v + 1
	}
	return v
}

func (l Literal) String() string {
	return strconv.Itoa(int(l))
}

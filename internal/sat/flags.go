package sat

// Flag identifies one bit of the per-literal state used by conflict analysis
// and root-level bookkeeping.
type Flag uint8

const (
	// IsMarked tags the literals reached while walking the implication
	// graph backwards from a conflict.
	IsMarked Flag = 1 << iota
	// IsImplied caches a positive answer of the recursive implication
	// check of the clause minimization.
	IsImplied
	// IsNotImplied caches a negative answer of the same check.
	IsNotImplied
	// IsInConflictClause tags the literals retained in the learned clause.
	IsInConflictClause
	// IsForced tags literals assigned at the root level. These directly
	// follow from the problem definition and can never be undone.
	IsForced
)

// Flags is the set of flags attached to one literal.
type Flags uint8

func (f *Flags) set(flag Flag) {
	*f |= Flags(flag)
}

func (f Flags) isSet(flag Flag) bool {
	return f&Flags(flag) != 0
}

func (f *Flags) reset() {
	*f = 0
}

// oneOf tells whether at least one of the two given flags is set. This is how
// the analyzer checks whether the implication cache of a literal has been
// populated.
func (f Flags) oneOf(a, b Flag) bool {
	return f&(Flags(a)|Flags(b)) != 0
}

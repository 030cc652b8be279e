package preset

// State is the position of an apply transaction. StateCommitted and
// StateAborted are terminal.
type State int

const (
	StateIdle State = iota
	StateDiffComputed
	StateGuardChecked
	StateBackedUp
	StateMutated
	StateVerified
	StateCommitted
	StateAborted
)

var stateNames = [...]string{
	StateIdle:         "idle",
	StateDiffComputed: "diff-computed",
	StateGuardChecked: "guard-checked",
	StateBackedUp:     "backed-up",
	StateMutated:      "mutated",
	StateVerified:     "verified",
	StateCommitted:    "committed",
	StateAborted:      "aborted",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Terminal reports whether s is StateCommitted or StateAborted.
func (s State) Terminal() bool {
	return s == StateCommitted || s == StateAborted
}

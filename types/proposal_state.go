package types

// ProposalState is the lifecycle state of a proposal, derived from its flags, its tally and
// the current block height.
type ProposalState uint8

const (
	// StatePending is never observed: voting opens in the creation block.
	StatePending ProposalState = iota
	StateActive
	StateCanceled
	StateDefeated
	StateSucceeded
	StateExecuted
)

var proposalStateNames = map[ProposalState]string{
	StatePending:   "Pending",
	StateActive:    "Active",
	StateCanceled:  "Canceled",
	StateDefeated:  "Defeated",
	StateSucceeded: "Succeeded",
	StateExecuted:  "Executed",
}

func (s ProposalState) String() string {
	if name, ok := proposalStateNames[s]; ok {
		return name
	}

	return "Unknown"
}

// Terminal reports whether no further transition can leave this state.
func (s ProposalState) Terminal() bool {
	return s == StateExecuted || s == StateCanceled
}

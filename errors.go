package governor

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/demole/governor/types"
)

var (
	ErrProposalNotSucceeded    = errors.New("proposal can only be execute if it is succeeded")
	ErrProposalNotActive       = errors.New("proposal is not active")
	ErrProposalNotEnded        = errors.New("proposal is not ended")
	ErrProposalAlreadyCanceled = errors.New("proposal already canceled")
	ErrCancelExecuted          = errors.New("cannot cancel executed proposal")
	ErrOnlyProposerCanCancel   = errors.New("only proposer can cancel")
	ErrVoterAlreadyVoted       = errors.New("voter already voted")
	ErrVoteAmountTooLow        = errors.New("amountVote not enough")
	ErrTokenLockedZero         = errors.New("token locked is zero")
	ErrAlreadyPledged          = errors.New("tokens already pledged")
)

// ProposalNotFoundError is returned when no proposal has the given id.
type ProposalNotFoundError struct {
	ProposalID uint64
}

func (e *ProposalNotFoundError) Error() string {
	return fmt.Sprintf("proposal %d not found", e.ProposalID)
}

func NewProposalNotFoundError(id uint64) *ProposalNotFoundError {
	return &ProposalNotFoundError{ProposalID: id}
}

// InvalidProposalError is returned when a propose request is malformed.
type InvalidProposalError struct {
	Reason string
}

func (e *InvalidProposalError) Error() string {
	return "invalid proposal: " + e.Reason
}

func NewInvalidProposalError(format string, args ...any) *InvalidProposalError {
	return &InvalidProposalError{Reason: fmt.Sprintf(format, args...)}
}

// VotingPeriodError is returned when the requested voting period is outside the allowed
// bounds.
type VotingPeriodError struct {
	Requested uint64
	Min       uint64
	Max       uint64
}

func (e *VotingPeriodError) Error() string {
	return fmt.Sprintf("voting period %d is outside [%d, %d] blocks", e.Requested, e.Min, e.Max)
}

func NewVotingPeriodError(requested, minPeriod, maxPeriod uint64) *VotingPeriodError {
	return &VotingPeriodError{Requested: requested, Min: minPeriod, Max: maxPeriod}
}

// InvalidParamsError is returned when governance parameters are inconsistent.
type InvalidParamsError struct {
	Reason string
}

func (e *InvalidParamsError) Error() string {
	return "invalid governance params: " + e.Reason
}

// ExecutionError is returned when a proposal call fails. Nothing the execution did before
// the failure is kept.
type ExecutionError struct {
	ProposalID uint64
	CallIndex  int
	Target     common.Address
	Simulated  bool
	Err        error
}

func (e *ExecutionError) Error() string {
	stage := "call"
	if e.Simulated {
		stage = "simulation of call"
	}

	return fmt.Sprintf("proposal %d: %s %d to %s failed: %v", e.ProposalID, stage, e.CallIndex, e.Target.Hex(), e.Err)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

func NewExecutionError(id uint64, idx int, target common.Address, simulated bool, err error) *ExecutionError {
	return &ExecutionError{ProposalID: id, CallIndex: idx, Target: target, Simulated: simulated, Err: err}
}

// LedgerError is returned when the token ledger rejects a pledge or a release.
type LedgerError struct {
	Op          string
	Participant common.Address
	Err         error
}

func (e *LedgerError) Error() string {
	return fmt.Sprintf("ledger rejected %s for %s: %v", e.Op, e.Participant.Hex(), e.Err)
}

func (e *LedgerError) Unwrap() error {
	return e.Err
}

func NewLedgerError(op string, participant common.Address, err error) *LedgerError {
	return &LedgerError{Op: op, Participant: participant, Err: err}
}

// stateError wraps sentinel with the proposal's current state.
func stateError(sentinel error, id uint64, state types.ProposalState) error {
	return fmt.Errorf("%w: proposal %d is %s", sentinel, id, state)
}

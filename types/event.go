package types

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
)

// EventKind names a committed governor transition.
type EventKind string

const (
	EventProposalCreated  EventKind = "proposal_created"
	EventVoteCast         EventKind = "vote_cast"
	EventProposalExecuted EventKind = "proposal_executed"
	EventProposalCanceled EventKind = "proposal_canceled"
	EventTokensUnlocked   EventKind = "tokens_unlocked"
)

// Event describes a committed transition. Amount and Support are only set where meaningful.
type Event struct {
	ID         uuid.UUID      `json:"id"`
	Kind       EventKind      `json:"kind"`
	ProposalID uint64         `json:"proposalId"`
	Actor      common.Address `json:"actor"`
	Amount     *big.Int       `json:"amount,omitempty"`
	Support    *bool          `json:"support,omitempty"`
	Height     uint64         `json:"height"`
	Time       time.Time      `json:"time"`
}

// NewEvent returns an event with a fresh id and the current time.
func NewEvent(kind EventKind, proposalID uint64, actor common.Address, height uint64) Event {
	return Event{
		ID:         uuid.New(),
		Kind:       kind,
		ProposalID: proposalID,
		Actor:      actor,
		Height:     height,
		Time:       time.Now().UTC(),
	}
}

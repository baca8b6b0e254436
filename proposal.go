package governor

import (
	"encoding/json"
	"io"
	"math/big"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/go-playground/validator/v10"

	"github.com/demole/governor/types"
)

// ProposeRequest is the input of Propose. The four call lists are parallel: entry i of each
// describes call i.
type ProposeRequest struct {
	Targets      []common.Address `json:"targets" validate:"required,min=1"`
	Values       []*big.Int       `json:"values"`
	Signatures   []string         `json:"signatures"`
	Calldatas    []hexutil.Bytes  `json:"calldatas"`
	Description  string           `json:"description"`
	VotingPeriod uint64           `json:"votingPeriod" validate:"required"`
}

// NewProposeRequest decodes and validates a JSON propose request.
func NewProposeRequest(reader io.Reader) (*ProposeRequest, error) {
	var out ProposeRequest
	if err := json.NewDecoder(reader).Decode(&out); err != nil {
		return nil, err
	}

	if err := out.Validate(); err != nil {
		return nil, err
	}

	return &out, nil
}

// LoadProposeRequest reads a propose request from a JSON file.
func LoadProposeRequest(path string) (*ProposeRequest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return NewProposeRequest(f)
}

// Validate checks the request shape. Limits that depend on governance params are checked by
// the governor.
func (r *ProposeRequest) Validate() error {
	if err := validator.New().Struct(r); err != nil {
		return err
	}

	n := len(r.Targets)
	if len(r.Values) != n || len(r.Signatures) != n || len(r.Calldatas) != n {
		return NewInvalidProposalError(
			"proposal function information arity mismatch: %d targets, %d values, %d signatures, %d calldatas",
			n, len(r.Values), len(r.Signatures), len(r.Calldatas),
		)
	}

	for i, target := range r.Targets {
		if target == (common.Address{}) {
			return NewInvalidProposalError("call %d has no target", i)
		}
		if r.Values[i] != nil && r.Values[i].Sign() < 0 {
			return NewInvalidProposalError("call %d has a negative value", i)
		}
	}

	return nil
}

// Calls returns the request as a list of calls.
func (r *ProposeRequest) Calls() []types.Call {
	calls := make([]types.Call, len(r.Targets))
	for i := range r.Targets {
		value := new(big.Int)
		if r.Values[i] != nil {
			value.Set(r.Values[i])
		}
		calls[i] = types.Call{
			Target:    r.Targets[i],
			Value:     value,
			Signature: r.Signatures[i],
			Data:      common.CopyBytes(r.Calldatas[i]),
		}
	}

	return calls
}

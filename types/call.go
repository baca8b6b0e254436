package types //nolint:revive,nolintlint // allow pkg name 'types'

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// Call is a single target invocation recorded in a proposal.
//
// Signature is a canonical function signature such as "mint(address,uint256)". When it is
// empty, Data is sent as-is; otherwise the call payload is the 4-byte selector of Signature
// followed by Data.
type Call struct {
	Target    common.Address `json:"target" validate:"required"`
	Value     *big.Int       `json:"value"`
	Signature string         `json:"signature"`
	Data      hexutil.Bytes  `json:"data"`
}

// Selector returns the 4-byte function selector derived from the call signature.
func (c Call) Selector() [4]byte {
	var sel [4]byte
	copy(sel[:], crypto.Keccak256([]byte(c.Signature))[:4])

	return sel
}

// Payload returns the bytes sent to the target.
func (c Call) Payload() []byte {
	if c.Signature == "" {
		return common.CopyBytes(c.Data)
	}

	sel := c.Selector()
	out := make([]byte, 0, len(sel)+len(c.Data))
	out = append(out, sel[:]...)

	return append(out, c.Data...)
}

// CallValue returns the value forwarded with the call, never nil.
func (c Call) CallValue() *big.Int {
	if c.Value == nil {
		return new(big.Int)
	}

	return new(big.Int).Set(c.Value)
}

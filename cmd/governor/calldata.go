package governor

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"

	abiutils "github.com/demole/governor/internal/utils/abi"
)

func buildCalldataCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "calldata <signature> [args...]",
		Short: "Encode arguments for a proposal call",
		Long: `Prints the "calldatas" entry for a call to the given function signature, e.g.

  governor calldata "mint(address,uint256)" 0x5B38Da6a701c568545dCfcB03FcB875f56beddC4 1000000000000000000`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := abiutils.EncodeArgs(args[0], args[1:])
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), hexutil.Encode(data))

			return nil
		},
	}
}

package governor

import (
	"github.com/spf13/cobra"
)

// options are the flags shared by every subcommand.
type options struct {
	configPath string
	account    string
}

func BuildGovernorCmd() *cobra.Command {
	opts := &options{}

	cmd := cobra.Command{
		Use:   "governor",
		Short: "Manage token-weighted governance proposals",
		Long: `Runs governance operations with the operator key as token custodian.

The --account flag selects the participant an operation acts for. It is trusted, not
authenticated: the operator may propose, vote, cancel or unlock for any account that has
approved the custody address.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to the YAML configuration file")
	cmd.PersistentFlags().StringVar(&opts.account, "account", "", "Participant address the command acts for, trusted as given (defaults to the operator key)")

	cmd.AddCommand(buildProposeCmd(opts))
	cmd.AddCommand(buildVoteCmd(opts))
	cmd.AddCommand(buildExecuteCmd(opts))
	cmd.AddCommand(buildCancelCmd(opts))
	cmd.AddCommand(buildUnlockCmd(opts))
	cmd.AddCommand(buildShowCmd(opts))
	cmd.AddCommand(buildParamsCmd(opts))
	cmd.AddCommand(buildServeCmd(opts))
	cmd.AddCommand(buildCalldataCmd())

	return &cmd
}

package governor

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/demole/governor"
	"github.com/demole/governor/types"
)

func buildProposeCmd(opts *options) *cobra.Command {
	var requestPath string

	cmd := &cobra.Command{
		Use:   "propose",
		Short: "Create a proposal, locking the proposal threshold from the account",
		Long: `Reads a JSON request with "targets", "values", "signatures", "calldatas",
"description" and "votingPeriod" and registers it as a new proposal.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := governor.LoadProposeRequest(requestPath)
			if err != nil {
				return fmt.Errorf("error loading proposal request: %w", err)
			}

			return withApp(cmd.Context(), opts, func(a *app) error {
				proposer, err := a.participant(opts)
				if err != nil {
					return err
				}

				id, err := a.gov.Propose(cmd.Context(), proposer, *req)
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Created proposal %d\n", id)

				return nil
			})
		},
	}

	cmd.Flags().StringVar(&requestPath, "file", "", "Path to the JSON proposal request")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func buildVoteCmd(opts *options) *cobra.Command {
	var against bool

	cmd := &cobra.Command{
		Use:   "vote <proposal-id> <amount>",
		Short: "Vote on an active proposal, locking the vote amount from the account",
		Long:  `The amount is a decimal token amount, e.g. 1000 or 0.5, or 0x-prefixed base units.`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseProposalID(args[0])
			if err != nil {
				return err
			}

			return withApp(cmd.Context(), opts, func(a *app) error {
				amount, err := types.ParseTokenAmount(args[1], a.gov.Params().Decimals)
				if err != nil {
					return err
				}

				voter, err := a.participant(opts)
				if err != nil {
					return err
				}

				if err := a.gov.CastVote(cmd.Context(), voter, id, amount, !against); err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Voted %s on proposal %d with %s tokens\n",
					supportLabel(!against), id, types.FormatTokenAmount(amount, a.gov.Params().Decimals))

				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&against, "against", false, "Vote against the proposal")

	return cmd
}

func buildExecuteCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "execute <proposal-id>",
		Short: "Execute the calls of a succeeded proposal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseProposalID(args[0])
			if err != nil {
				return err
			}

			return withApp(cmd.Context(), opts, func(a *app) error {
				results, err := a.gov.Execute(cmd.Context(), id)
				if err != nil {
					return err
				}

				for i, res := range results {
					fmt.Fprintf(cmd.OutOrStdout(), "Call %d: %s\n", i, res.Hash)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Executed proposal %d\n", id)

				return nil
			})
		},
	}
}

func buildCancelCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <proposal-id>",
		Short: "Cancel a proposal that has not been executed",
		Long: `Cancels the proposal without returning any tokens. The proposer and the voters
get their locked tokens back with "governor unlock".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseProposalID(args[0])
			if err != nil {
				return err
			}

			return withApp(cmd.Context(), opts, func(a *app) error {
				caller, err := a.participant(opts)
				if err != nil {
					return err
				}

				if err := a.gov.Cancel(cmd.Context(), caller, id); err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Canceled proposal %d\n", id)

				return nil
			})
		},
	}
}

func buildUnlockCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "unlock <proposal-id>",
		Short: "Return the account's locked tokens once voting has ended or the proposal was canceled",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseProposalID(args[0])
			if err != nil {
				return err
			}

			return withApp(cmd.Context(), opts, func(a *app) error {
				participant, err := a.participant(opts)
				if err != nil {
					return err
				}

				amount, err := a.gov.UnlockToken(cmd.Context(), participant, id)
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Unlocked %s tokens from proposal %d\n", types.FormatTokenAmount(amount, a.gov.Params().Decimals), id)

				return nil
			})
		},
	}
}

func supportLabel(support bool) string {
	if support {
		return "for"
	}

	return "against"
}

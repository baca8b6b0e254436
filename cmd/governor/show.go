package governor

import (
	"github.com/spf13/cobra"

	"github.com/demole/governor/types"
)

type proposalView struct {
	*types.Proposal
	State  string        `json:"state"`
	Locks  []*types.Lock `json:"locks"`
	Height uint64        `json:"height"`
}

func buildShowCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "show <proposal-id>",
		Short: "Print a proposal with its state and outstanding locks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseProposalID(args[0])
			if err != nil {
				return err
			}

			return withApp(cmd.Context(), opts, func(a *app) error {
				ctx := cmd.Context()

				p, err := a.gov.Proposal(ctx, id)
				if err != nil {
					return err
				}
				state, err := a.gov.State(ctx, id)
				if err != nil {
					return err
				}
				locks, err := a.gov.Locks(ctx, id)
				if err != nil {
					return err
				}
				height, err := a.client.BlockNumber(ctx)
				if err != nil {
					return err
				}

				return printJSON(cmd.OutOrStdout(), proposalView{
					Proposal: p,
					State:    state.String(),
					Locks:    locks,
					Height:   height,
				})
			})
		},
	}
}

type paramsView struct {
	ProposalThreshold  string `json:"proposalThreshold"`
	QuorumVotes        string `json:"quorumVotes"`
	MinVoteAmount      string `json:"minVoteAmount"`
	MinVotingPeriod    uint64 `json:"minVotingPeriod"`
	MaxVotingPeriod    uint64 `json:"maxVotingPeriod,omitempty"`
	MajorityBps        uint16 `json:"majorityBps"`
	MaxOperations      int    `json:"maxOperations"`
	ProposerOnlyCancel bool   `json:"proposerOnlyCancel"`
	Custody            string `json:"custody"`
	Proposals          uint64 `json:"proposals"`
	TotalLocked        string `json:"totalLocked"`
}

func buildParamsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "params",
		Short: "Print the governance parameters and totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), opts, func(a *app) error {
				ctx := cmd.Context()
				params := a.gov.Params()

				count, err := a.gov.ProposalCount(ctx)
				if err != nil {
					return err
				}
				locked, err := a.gov.TotalLocked(ctx)
				if err != nil {
					return err
				}

				return printJSON(cmd.OutOrStdout(), paramsView{
					ProposalThreshold:  types.FormatTokenAmount(params.ProposalThreshold, params.Decimals),
					QuorumVotes:        types.FormatTokenAmount(params.QuorumVotes, params.Decimals),
					MinVoteAmount:      types.FormatTokenAmount(params.MinVoteAmount, params.Decimals),
					MinVotingPeriod:    params.MinVotingPeriod,
					MaxVotingPeriod:    params.MaxVotingPeriod,
					MajorityBps:        params.MajorityBps,
					MaxOperations:      params.MaxOperations,
					ProposerOnlyCancel: params.ProposerOnlyCancel,
					Custody:            a.gov.Custody().Hex(),
					Proposals:          count,
					TotalLocked:        types.FormatTokenAmount(locked, params.Decimals),
				})
			})
		},
	}
}

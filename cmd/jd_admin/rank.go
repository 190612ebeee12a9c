package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/jd-admin/internal/ranking"
	"github.com/jonathan/jd-admin/internal/types"
)

// rankOutput is the --json shape of the rank command.
type rankOutput struct {
	*types.RankingResponse
	Candidates []types.Candidate `json:"candidates,omitempty"`
}

func newRankCmd(a *app) *cobra.Command {
	var (
		folder     string
		candidates bool
	)

	cmd := &cobra.Command{
		Use:   "rank <jd-id>",
		Short: "Rank the resumes in a Drive folder against a job description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := a.client().RankResumes(cmd.Context(), args[0], folder)
			if err != nil {
				return fmt.Errorf("failed to rank resumes: %w", err)
			}

			out := rankOutput{RankingResponse: resp}
			if candidates {
				out.Candidates = ranking.ToCandidates(args[0], resp.Results)
			}
			return a.emit(out, func() {
				a.printer.PrintRanking(resp)
				a.printer.PrintCandidates(out.Candidates)
			})
		},
	}
	cmd.Flags().StringVar(&folder, "folder", "", "Google Drive folder URL holding the resumes")
	cmd.Flags().BoolVar(&candidates, "candidates", false, "Also print the candidate screening table")
	_ = cmd.MarkFlagRequired("folder")
	return cmd
}

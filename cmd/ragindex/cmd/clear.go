package cmd

import (
	"github.com/spf13/cobra"
)

func newClearCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete the index",
		Long:  `Delete the index file. Clearing when no index exists succeeds.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := g.service()
			if err != nil {
				return err
			}
			res := svc.Clear()
			if !res.Success {
				return res.Err
			}
			g.writer(cmd.OutOrStdout()).Success(res.Message)
			return nil
		},
	}
}

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var boardCmd = &cobra.Command{
	Use:     "board",
	Short:   "Show the availability board",
	GroupID: "board",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if actor == "" {
			return fmt.Errorf("no actor set; pass --actor or set DESKBOARD_ACTOR")
		}
		resp, err := boardClient.GetBoard(context.Background(), actor)
		if err != nil {
			return fmt.Errorf("loading board: %w", err)
		}

		if jsonOutput {
			printJSON(resp)
			return nil
		}
		printBoardTable(resp)
		return nil
	},
}

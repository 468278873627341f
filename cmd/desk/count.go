package main

import (
	"context"
	"fmt"

	"github.com/groblegark/deskboard/internal/client"
	"github.com/groblegark/deskboard/internal/clock"
	"github.com/spf13/cobra"
)

var countCmd = &cobra.Command{
	Use:     "count <up|down> <worker-id>",
	Short:   "Adjust a worker's file counter (assigners only)",
	GroupID: "board",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		by, _ := cmd.Flags().GetInt("by")
		if by <= 0 {
			return fmt.Errorf("--by must be positive, got %d", by)
		}

		var delta int
		switch args[0] {
		case "up":
			delta = by
		case "down":
			delta = -by
		default:
			return fmt.Errorf("unknown direction %q (must be up or down)", args[0])
		}
		workerID := args[1]
		if actor == "" {
			return fmt.Errorf("no actor set; pass --actor or set DESKBOARD_ACTOR")
		}

		ctx := context.Background()
		session := client.NewSession(boardClient, actor, clock.New())
		if err := session.Refresh(ctx); err != nil {
			return err
		}
		if err := session.AdjustCounter(ctx, workerID, delta); err != nil {
			return err
		}

		return printSessionBoard(session)
	},
}

func init() {
	countCmd.Flags().Int("by", 1, "amount to adjust by")
}

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var auditCmd = &cobra.Command{
	Use:     "audit [worker-id]",
	Short:   "Show the board's audit trail",
	GroupID: "workers",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		workerID := ""
		if len(args) == 1 {
			workerID = args[0]
		}
		limit, _ := cmd.Flags().GetInt("limit")
		if actor == "" {
			return fmt.Errorf("no actor set; pass --actor or set DESKBOARD_ACTOR")
		}

		events, err := boardClient.ListEvents(context.Background(), actor, workerID, limit)
		if err != nil {
			return fmt.Errorf("listing events: %w", err)
		}

		if jsonOutput {
			printJSON(events)
			return nil
		}
		printEventsTable(events)
		return nil
	},
}

func init() {
	auditCmd.Flags().Int("limit", 50, "maximum number of events to show")
}

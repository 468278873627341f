package main

import (
	"context"
	"fmt"

	"github.com/groblegark/deskboard/internal/client"
	"github.com/groblegark/deskboard/internal/clock"
	"github.com/groblegark/deskboard/internal/model"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:     "status <green|red|clear> [worker-id]",
	Short:   "Toggle a worker's status light (defaults to your own)",
	GroupID: "board",
	Args:    cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := parseStatusArg(args[0])
		if err != nil {
			return err
		}

		workerID := actor
		if len(args) == 2 {
			workerID = args[1]
		}
		if actor == "" {
			return fmt.Errorf("no actor set; pass --actor or set DESKBOARD_ACTOR")
		}

		ctx := context.Background()
		session := client.NewSession(boardClient, actor, clock.New())
		if err := session.Refresh(ctx); err != nil {
			return err
		}
		if err := session.ToggleStatus(ctx, workerID, status); err != nil {
			return err
		}

		return printSessionBoard(session)
	},
}

// parseStatusArg maps the CLI word to a board status. "clear" requests
// neutral, which toggles any lit status off.
func parseStatusArg(s string) (model.Status, error) {
	switch s {
	case "green":
		return model.StatusGreen, nil
	case "red":
		return model.StatusRed, nil
	case "clear", "neutral":
		return model.StatusNeutral, nil
	}
	return "", fmt.Errorf("unknown status %q (must be green, red, or clear)", s)
}

// printSessionBoard renders the session's local ledger, which already
// reflects the mutation just applied.
func printSessionBoard(session *client.Session) error {
	workers := session.Board()

	if jsonOutput {
		printJSON(workers)
		return nil
	}

	resp := &client.BoardResponse{Epoch: session.Epoch()}
	for _, w := range workers {
		row := client.BoardRow{
			ID:                 w.ID,
			DisplayName:        w.DisplayName,
			Role:               w.Role,
			Status:             w.Status,
			StatusChangedAt:    w.StatusChangedAt,
			StatusChangedLabel: w.StatusChangedLabel,
		}
		if session.CountersVisible() {
			c := w.Counter
			row.Counter = &c
		}
		resp.Workers = append(resp.Workers, row)
	}
	printBoardTable(resp)
	return nil
}

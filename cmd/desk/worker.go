package main

import (
	"context"
	"fmt"

	"github.com/groblegark/deskboard/internal/client"
	"github.com/groblegark/deskboard/internal/model"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:     "worker",
	Short:   "Manage workers on the board",
	GroupID: "workers",
}

var workerAddCmd = &cobra.Command{
	Use:   "add <id> <display-name>",
	Short: "Add a worker to the board (assigners only)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		role, _ := cmd.Flags().GetString("role")

		worker, err := boardClient.CreateWorker(context.Background(), &client.CreateWorkerRequest{
			Actor:       actor,
			ID:          args[0],
			DisplayName: args[1],
			Role:        model.Role(role),
		})
		if err != nil {
			return fmt.Errorf("adding worker: %w", err)
		}

		if jsonOutput {
			printJSON(worker)
			return nil
		}
		fmt.Printf("worker %q added\n", worker.ID)
		return nil
	},
}

var workerRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a worker from the board (assigners only)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		if err := boardClient.DeleteWorker(context.Background(), actor, id); err != nil {
			return fmt.Errorf("removing worker: %w", err)
		}
		fmt.Printf("worker %q removed\n", id)
		return nil
	},
}

var workerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all workers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if actor == "" {
			return fmt.Errorf("no actor set; pass --actor or set DESKBOARD_ACTOR")
		}
		workers, err := boardClient.ListWorkers(context.Background(), actor)
		if err != nil {
			return fmt.Errorf("listing workers: %w", err)
		}

		if jsonOutput {
			printJSON(workers)
			return nil
		}
		printWorkerListTable(workers)
		return nil
	},
}

var workerShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one worker's full record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if actor == "" {
			return fmt.Errorf("no actor set; pass --actor or set DESKBOARD_ACTOR")
		}
		worker, err := boardClient.GetWorker(context.Background(), actor, args[0])
		if err != nil {
			return fmt.Errorf("fetching worker: %w", err)
		}

		if jsonOutput {
			printJSON(worker)
			return nil
		}
		printWorkerTable(worker)
		return nil
	},
}

func init() {
	workerAddCmd.Flags().String("role", string(model.RoleUnderwriter), "worker role (underwriter or assigner)")

	workerCmd.AddCommand(workerAddCmd)
	workerCmd.AddCommand(workerRemoveCmd)
	workerCmd.AddCommand(workerListCmd)
	workerCmd.AddCommand(workerShowCmd)
}

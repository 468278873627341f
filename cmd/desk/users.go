package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var usersCmd = &cobra.Command{
	Use:     "users",
	Short:   "List directory users and their roles",
	GroupID: "workers",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		users, err := boardClient.ListUsers(context.Background())
		if err != nil {
			return fmt.Errorf("listing users: %w", err)
		}

		if jsonOutput {
			printJSON(users)
			return nil
		}
		printUsersTable(users)
		return nil
	},
}

package main

import (
	"os"
	"os/exec"
	"strings"

	"github.com/groblegark/deskboard/internal/client"
	"github.com/groblegark/deskboard/internal/ui"
	"github.com/spf13/cobra"
)

var (
	httpURL    string
	authToken  string
	jsonOutput bool
	actor      string

	boardClient client.BoardClient
)

// defaultActor resolves the acting user: DESKBOARD_ACTOR, then the git
// user.email (worker IDs are email addresses).
func defaultActor() string {
	if a := os.Getenv("DESKBOARD_ACTOR"); a != "" {
		return a
	}
	out, err := exec.Command("git", "config", "user.email").Output()
	if err == nil {
		email := strings.TrimSpace(string(out))
		if email != "" {
			return email
		}
	}
	return ""
}

func defaultHTTPURL() string {
	if s := os.Getenv("DESKBOARD_HTTP_URL"); s != "" {
		return s
	}
	if u := activeRemoteURL(); u != "" {
		return u
	}
	return "http://localhost:8080"
}

func defaultToken() string {
	if t := os.Getenv("DESKBOARD_AUTH_TOKEN"); t != "" {
		return t
	}
	return activeRemoteToken()
}

var rootCmd = &cobra.Command{
	Use:   "desk <command>",
	Short: "CLI client for the deskboard availability board",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		boardClient = client.NewHTTPClient(httpURL, authToken)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if boardClient != nil {
			boardClient.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&httpURL, "http-url", defaultHTTPURL(), "board server URL")
	rootCmd.PersistentFlags().StringVar(&authToken, "token", defaultToken(), "bearer token for authentication")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	rootCmd.PersistentFlags().StringVar(&actor, "actor", defaultActor(), "acting user ID (defaults to DESKBOARD_ACTOR or git user.email)")

	rootCmd.AddGroup(
		&cobra.Group{ID: "board", Title: "Board:"},
		&cobra.Group{ID: "workers", Title: "Workers:"},
		&cobra.Group{ID: "system", Title: "System:"},
	)

	cobra.EnableCommandSorting = false
	rootCmd.SetHelpFunc(colorizedHelpFunc())

	// Board
	rootCmd.AddCommand(boardCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(countCmd)
	rootCmd.AddCommand(watchCmd)

	// Workers
	rootCmd.AddCommand(workerCmd)
	rootCmd.AddCommand(usersCmd)
	rootCmd.AddCommand(auditCmd)

	// System
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(remoteCmd)
}

func main() {
	if !ui.ShouldUseColor() {
		ui.ForceNoColor()
	}
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

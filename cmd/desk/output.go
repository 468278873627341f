package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/groblegark/deskboard/internal/client"
	"github.com/groblegark/deskboard/internal/model"
	"github.com/groblegark/deskboard/internal/ui"
)

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

// printBoardTable renders the board the way it hangs on the wall: workers in
// display order, status colored, counters only when the server sent them.
func printBoardTable(resp *client.BoardResponse) {
	countersVisible := false
	for _, row := range resp.Workers {
		if row.Counter != nil {
			countersVisible = true
			break
		}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if countersVisible {
		fmt.Fprintln(w, "WORKER\tSTATUS\tSINCE\tCOUNT")
	} else {
		fmt.Fprintln(w, "WORKER\tSTATUS\tSINCE")
	}
	for _, row := range resp.Workers {
		since := row.StatusChangedLabel
		if since == "" {
			since = "-"
		}
		if countersVisible {
			count := "-"
			if row.Counter != nil {
				count = fmt.Sprintf("%d", *row.Counter)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", row.DisplayName, ui.RenderStatus(row.Status), since, count)
		} else {
			fmt.Fprintf(w, "%s\t%s\t%s\n", row.DisplayName, ui.RenderStatus(row.Status), since)
		}
	}
	w.Flush()
	fmt.Printf("\n%d workers (board day %s)\n", len(resp.Workers), resp.Epoch)
}

func printWorkerTable(row *client.BoardRow) {
	fmt.Printf("ID:           %s\n", row.ID)
	fmt.Printf("Name:         %s\n", row.DisplayName)
	fmt.Printf("Role:         %s\n", row.Role)
	fmt.Printf("Status:       %s\n", ui.RenderStatus(row.Status))
	if row.StatusChangedLabel != "" {
		fmt.Printf("Since:        %s\n", row.StatusChangedLabel)
	}
	if row.Counter != nil {
		fmt.Printf("Count:        %d\n", *row.Counter)
	}
}

func printWorkerListTable(rows []client.BoardRow) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tROLE\tSTATUS")
	for _, row := range rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			row.ID,
			row.DisplayName,
			row.Role,
			ui.RenderStatus(row.Status),
		)
	}
	w.Flush()
	fmt.Printf("\n%d workers\n", len(rows))
}

func printUsersTable(users []client.User) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tROLE")
	for _, u := range users {
		fmt.Fprintf(w, "%s\t%s\t%s\n", u.ID, u.DisplayName, u.Role)
	}
	w.Flush()
}

func printEventsTable(events []*model.Event) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tTOPIC\tWORKER\tACTOR")
	for _, e := range events {
		workerID := e.WorkerID
		if workerID == "" {
			workerID = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			e.CreatedAt.Format("2006-01-02 15:04:05"),
			e.Topic,
			workerID,
			e.Actor,
		)
	}
	w.Flush()
	fmt.Printf("\n%d events\n", len(events))
}

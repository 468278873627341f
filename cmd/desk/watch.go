package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/groblegark/deskboard/internal/client"
	"github.com/groblegark/deskboard/internal/events"
	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:     "watch",
	Short:   "Watch the board and reprint it on every change",
	GroupID: "board",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		interval, _ := cmd.Flags().GetDuration("interval")
		once, _ := cmd.Flags().GetBool("once")

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		var lastPrinted *client.BoardResponse

		// Initial render.
		if err := fetchAndPrint(ctx, &lastPrinted); err != nil {
			return err
		}
		if once {
			return nil
		}

		// Event-driven when NATS is reachable, polling otherwise.
		natsURL := os.Getenv("DESKBOARD_NATS_URL")
		if natsURL == "" {
			natsURL = activeRemoteNATSURL()
		}
		if natsURL != "" {
			return watchNATS(ctx, natsURL, &lastPrinted)
		}
		return watchPoll(ctx, interval, &lastPrinted)
	},
}

// watchNATS subscribes to board events and re-fetches on changes with debounce.
func watchNATS(ctx context.Context, natsURL string, last **client.BoardResponse) error {
	// reconnectCh receives a signal when the NATS client reconnects after
	// a disconnect, so we can immediately re-fetch for missed events.
	reconnectCh := make(chan struct{}, 1)

	sub, err := events.NewNATSSubscriber(natsURL,
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Printf("nats: disconnected: %v", err)
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			log.Printf("nats: reconnected")
			select {
			case reconnectCh <- struct{}{}:
			default:
			}
		}),
	)
	if err != nil {
		return fmt.Errorf("connecting to NATS: %w", err)
	}
	defer sub.Close()

	ch, cancel, err := sub.Subscribe("board.>")
	if err != nil {
		return fmt.Errorf("subscribing to events: %w", err)
	}
	defer cancel()

	debounce := time.NewTimer(0)
	debounce.Stop()
	// Drain the timer channel in case it fired between NewTimer and Stop.
	select {
	case <-debounce.C:
	default:
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-ch:
			if !ok {
				return nil
			}
			debounce.Reset(200 * time.Millisecond)
		case <-reconnectCh:
			debounce.Reset(0) // immediate re-fetch
		case <-debounce.C:
			if err := fetchAndPrint(ctx, last); err != nil {
				return err
			}
		}
	}
}

// watchPoll re-fetches the board at the given interval.
func watchPoll(ctx context.Context, interval time.Duration, last **client.BoardResponse) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(interval):
		}
		if err := fetchAndPrint(ctx, last); err != nil {
			return err
		}
	}
}

// fetchAndPrint loads the board and reprints it when anything changed since
// the last render.
func fetchAndPrint(ctx context.Context, last **client.BoardResponse) error {
	resp, err := boardClient.GetBoard(ctx, actor)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("loading board: %w", err)
	}
	if !boardChanged(*last, resp) {
		return nil
	}
	*last = resp

	if jsonOutput {
		printJSON(resp)
	} else {
		printBoardTable(resp)
	}
	return nil
}

// boardChanged reports whether the new response differs from the previous one
// in any field the board renders.
func boardChanged(prev, next *client.BoardResponse) bool {
	if prev == nil {
		return true
	}
	if prev.Epoch != next.Epoch || len(prev.Workers) != len(next.Workers) {
		return true
	}
	for i := range next.Workers {
		a, b := prev.Workers[i], next.Workers[i]
		if a.ID != b.ID || a.Status != b.Status || a.StatusChangedLabel != b.StatusChangedLabel {
			return true
		}
		if (a.Counter == nil) != (b.Counter == nil) {
			return true
		}
		if a.Counter != nil && *a.Counter != *b.Counter {
			return true
		}
	}
	return false
}

func init() {
	watchCmd.Flags().Duration("interval", 5*time.Second, "polling interval")
	watchCmd.Flags().Bool("once", false, "exit after first render")
}

package main

import (
	"context"
	"testing"

	"github.com/groblegark/deskboard/internal/client"
	"github.com/groblegark/deskboard/internal/model"
)

func intPtr(v int) *int { return &v }

func TestBoardChanged_InitialFetch(t *testing.T) {
	next := &client.BoardResponse{Epoch: "2024-01-15"}
	if !boardChanged(nil, next) {
		t.Fatal("nil previous must always count as changed")
	}
}

func TestBoardChanged_Identical(t *testing.T) {
	a := &client.BoardResponse{
		Epoch: "2024-01-15",
		Workers: []client.BoardRow{
			{ID: "amy@example.com", Status: model.StatusGreen, StatusChangedLabel: "8:15 AM", Counter: intPtr(3)},
			{ID: "ben@example.com", Status: model.StatusNeutral},
		},
	}
	b := &client.BoardResponse{
		Epoch: "2024-01-15",
		Workers: []client.BoardRow{
			{ID: "amy@example.com", Status: model.StatusGreen, StatusChangedLabel: "8:15 AM", Counter: intPtr(3)},
			{ID: "ben@example.com", Status: model.StatusNeutral},
		},
	}
	if boardChanged(a, b) {
		t.Fatal("identical boards must not count as changed")
	}
}

func TestBoardChanged_StatusToggle(t *testing.T) {
	prev := &client.BoardResponse{
		Epoch:   "2024-01-15",
		Workers: []client.BoardRow{{ID: "amy@example.com", Status: model.StatusNeutral}},
	}
	next := &client.BoardResponse{
		Epoch:   "2024-01-15",
		Workers: []client.BoardRow{{ID: "amy@example.com", Status: model.StatusGreen, StatusChangedLabel: "8:15 AM"}},
	}
	if !boardChanged(prev, next) {
		t.Fatal("status change must count as changed")
	}
}

func TestBoardChanged_CounterDelta(t *testing.T) {
	prev := &client.BoardResponse{
		Epoch:   "2024-01-15",
		Workers: []client.BoardRow{{ID: "amy@example.com", Counter: intPtr(3)}},
	}
	next := &client.BoardResponse{
		Epoch:   "2024-01-15",
		Workers: []client.BoardRow{{ID: "amy@example.com", Counter: intPtr(4)}},
	}
	if !boardChanged(prev, next) {
		t.Fatal("counter delta must count as changed")
	}
}

func TestBoardChanged_CounterRedactionFlips(t *testing.T) {
	prev := &client.BoardResponse{
		Epoch:   "2024-01-15",
		Workers: []client.BoardRow{{ID: "amy@example.com", Counter: intPtr(3)}},
	}
	next := &client.BoardResponse{
		Epoch:   "2024-01-15",
		Workers: []client.BoardRow{{ID: "amy@example.com"}},
	}
	if !boardChanged(prev, next) {
		t.Fatal("counter appearing or disappearing must count as changed")
	}
}

func TestBoardChanged_NewEpoch(t *testing.T) {
	prev := &client.BoardResponse{Epoch: "2024-01-14"}
	next := &client.BoardResponse{Epoch: "2024-01-15"}
	if !boardChanged(prev, next) {
		t.Fatal("epoch change must count as changed")
	}
}

func TestParseStatusArg(t *testing.T) {
	for _, tc := range []struct {
		arg     string
		want    model.Status
		wantErr bool
	}{
		{"green", model.StatusGreen, false},
		{"red", model.StatusRed, false},
		{"clear", model.StatusNeutral, false},
		{"neutral", model.StatusNeutral, false},
		{"blue", "", true},
		{"", "", true},
	} {
		got, err := parseStatusArg(tc.arg)
		if tc.wantErr {
			if err == nil {
				t.Errorf("parseStatusArg(%q): expected error", tc.arg)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseStatusArg(%q): %v", tc.arg, err)
			continue
		}
		if got != tc.want {
			t.Errorf("parseStatusArg(%q) = %q, want %q", tc.arg, got, tc.want)
		}
	}
}

// failingBoard fails every board load.
type failingBoard struct{ client.BoardClient }

func (failingBoard) GetBoard(ctx context.Context, actor string) (*client.BoardResponse, error) {
	return nil, &client.APIError{StatusCode: 500, Message: "db down"}
}

func TestFetchAndPrint_LoadFailureReturnsError(t *testing.T) {
	prev := boardClient
	boardClient = failingBoard{}
	defer func() { boardClient = prev }()

	var last *client.BoardResponse
	err := fetchAndPrint(context.Background(), &last)
	if err == nil {
		t.Fatal("expected error from failed board load")
	}
	if last != nil {
		t.Error("failed load must not update the last printed board")
	}
}

func TestFetchAndPrint_CanceledContextIsQuiet(t *testing.T) {
	prev := boardClient
	boardClient = failingBoard{}
	defer func() { boardClient = prev }()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var last *client.BoardResponse
	if err := fetchAndPrint(ctx, &last); err != nil {
		t.Fatalf("canceled watch should wind down quietly, got %v", err)
	}
}

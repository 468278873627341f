package board

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/groblegark/deskboard/internal/model"
)

// SortForDisplay produces the board's display ordering: a deterministic
// total order recomputed from scratch on every ledger change.
//
// Records are partitioned by status and concatenated green ++ neutral ++ red:
//
//   - green: ascending by status-change instant, so the worker who has been
//     waiting longest for files surfaces first. A missing timestamp sorts as
//     epoch 0 (first).
//   - neutral: zero-counter workers before loaded ones; the zero subset is
//     alphabetical by display name (locale-aware), the loaded subset is
//     ascending by counter with display name breaking counter ties.
//   - red: ascending by status-change instant, same rule as green.
//
// The input ledger is not mutated.
func SortForDisplay(l *model.Ledger) []*model.Worker {
	var green, neutral, red []*model.Worker
	for _, w := range l.Workers {
		switch w.Status {
		case model.StatusGreen:
			green = append(green, w)
		case model.StatusRed:
			red = append(red, w)
		default:
			neutral = append(neutral, w)
		}
	}

	// Collators carry internal buffers, so build one per call rather than
	// sharing a package-level instance across goroutines.
	col := collate.New(language.English, collate.IgnoreCase)

	sortByChangedAt(green, col)
	sortNeutral(neutral, col)
	sortByChangedAt(red, col)

	out := make([]*model.Worker, 0, len(green)+len(neutral)+len(red))
	out = append(out, green...)
	out = append(out, neutral...)
	out = append(out, red...)
	return out
}

// sortByChangedAt orders workers by their sortable status timestamp, oldest
// first, with display name then id as deterministic tie-breaks.
func sortByChangedAt(ws []*model.Worker, col *collate.Collator) {
	sort.Slice(ws, func(i, j int) bool {
		ti, tj := sortableMillis(ws[i]), sortableMillis(ws[j])
		if ti != tj {
			return ti < tj
		}
		if c := col.CompareString(ws[i].DisplayName, ws[j].DisplayName); c != 0 {
			return c < 0
		}
		return ws[i].ID < ws[j].ID
	})
}

// sortNeutral orders the neutral group: counter==0 first (alphabetical),
// then counter>0 ascending by counter with name breaking ties.
func sortNeutral(ws []*model.Worker, col *collate.Collator) {
	sort.Slice(ws, func(i, j int) bool {
		zi, zj := ws[i].Counter == 0, ws[j].Counter == 0
		if zi != zj {
			return zi
		}
		if !zi && ws[i].Counter != ws[j].Counter {
			return ws[i].Counter < ws[j].Counter
		}
		if c := col.CompareString(ws[i].DisplayName, ws[j].DisplayName); c != 0 {
			return c < 0
		}
		return ws[i].ID < ws[j].ID
	})
}

func sortableMillis(w *model.Worker) int64 {
	if w.StatusChangedAt == nil {
		return 0
	}
	return w.StatusChangedAt.UnixMilli()
}

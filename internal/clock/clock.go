// Package clock supplies the board's notion of time: the current civil date
// used by the daily reset and the current display time stamped on status
// changes. Both are computed in a fixed UTC-6 timezone, and the civil day
// rolls over at 02:00 local rather than midnight, so late-night edits still
// belong to the previous board day.
package clock

import "time"

// dayBoundaryHour is the local hour at which the civil date rolls over.
const dayBoundaryHour = 2

// boardZone is the fixed reference timezone for all board times.
var boardZone = time.FixedZone("UTC-6", -6*60*60)

// displayFormat renders a status-change instant for humans.
const displayFormat = "3:04 PM"

// civilDateFormat is the epoch value stored in board_meta.
const civilDateFormat = "2006-01-02"

// Stamp is one captured instant: a human-readable label and a sortable
// epoch-milliseconds value, taken at the same moment.
type Stamp struct {
	Display  string `json:"display"`
	Sortable int64  `json:"sortable"`
}

// AsTime returns the stamp's instant as a UTC time.Time.
func (s Stamp) AsTime() time.Time {
	return time.UnixMilli(s.Sortable).UTC()
}

// Clock provides the current civil date and display time.
type Clock interface {
	// Today returns the current civil date string ("2006-01-02") in the
	// board's fixed timezone, with the 02:00 day boundary applied.
	Today() string

	// Now returns the current instant as a display label plus a sortable
	// epoch-milliseconds value.
	Now() Stamp
}

// Board is the production Clock backed by the system time.
type Board struct{}

// New returns a Clock that reads the system time.
func New() Board {
	return Board{}
}

// Today implements Clock.
func (Board) Today() string {
	return CivilDate(time.Now())
}

// Now implements Clock.
func (Board) Now() Stamp {
	return StampAt(time.Now())
}

// CivilDate returns the civil date for the given instant: the calendar date
// in the board timezone, shifted back one day when the local wall clock is
// before 02:00.
func CivilDate(t time.Time) string {
	return t.In(boardZone).Add(-dayBoundaryHour * time.Hour).Format(civilDateFormat)
}

// StampAt returns the display/sortable pair for the given instant.
func StampAt(t time.Time) Stamp {
	return Stamp{
		Display:  t.In(boardZone).Format(displayFormat),
		Sortable: t.UnixMilli(),
	}
}

// Frozen is a Clock pinned to a single instant, for tests.
type Frozen struct {
	At time.Time
}

// Today implements Clock.
func (f Frozen) Today() string { return CivilDate(f.At) }

// Now implements Clock.
func (f Frozen) Now() Stamp { return StampAt(f.At) }

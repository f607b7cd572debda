// Package slot implements the half-hour scheduling grid used by venue
// bookings.  A slot is an integer index into a fixed table of 30 minute
// windows covering one day; index 0 is "0000 - 0030".  Bookings persist their
// slots as comma-separated index strings, so this package also owns the
// conversion between those strings, index slices and display timings.
package slot

import "fmt"

const (
	// MinSlot is the first valid slot index.
	MinSlot = 0
	// MaxSlot is the last valid slot index.  The grid wraps at 2400, so the
	// final entry starts back at 0000.
	MaxSlot = 48
	// Count is the number of entries in the table.
	Count = MaxSlot - MinSlot + 1

	minutesPerSlot = 30
	minutesPerDay  = 24 * 60
)

// table maps a slot index to its "HHMM - HHMM" display string.  It is built
// once at package initialisation and never mutated afterwards.
var table = buildTable()

func buildTable() [Count]string {
	var t [Count]string
	for i := 0; i < Count; i++ {
		start := (i * minutesPerSlot) % minutesPerDay
		end := (start + minutesPerSlot) % minutesPerDay
		t[i] = fmt.Sprintf("%s - %s", hhmm(start), hhmm(end))
	}
	return t
}

func hhmm(minutes int) string {
	return fmt.Sprintf("%02d%02d", minutes/60, minutes%60)
}

// Valid reports whether i is inside the slot table.
func Valid(i int) bool { return i >= MinSlot && i <= MaxSlot }

// start and end return the two halves of a table entry.
func start(i int) string { return table[i][:4] }
func end(i int) string   { return table[i][7:] }

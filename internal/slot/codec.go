package slot

import (
	"errors"
	"strconv"
	"strings"
)

// ErrInvalidOpeningHours is returned when an opening-hours string does not
// map onto the slot table.
var ErrInvalidOpeningHours = errors.New("invalid opening hours")

// SlotRef is anything carrying an optional slot ID, e.g. an entry of a slot
// picker submitted by a client.  A nil ID means the entry was not filled in.
type SlotRef struct {
	ID *int `json:"id"`
}

// ToTiming returns the display timing for a slot index, or "" when the index
// is outside the table.
func ToTiming(index int) string {
	if !Valid(index) {
		return ""
	}
	return table[index]
}

// ToTimings maps every index to its timing, preserving order.
func ToTimings(indices []int) []string {
	out := make([]string, 0, len(indices))
	for _, i := range indices {
		out = append(out, ToTiming(i))
	}
	return out
}

// ParseIDs splits a comma-separated list of slot IDs.  Any token that is not
// an integer invalidates the whole list, and so does empty input.
func ParseIDs(csv string) ([]int, bool) {
	if strings.TrimSpace(csv) == "" {
		return nil, false
	}
	parts := strings.Split(csv, ",")
	ids := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, false
		}
		ids = append(ids, n)
	}
	return ids, true
}

// JoinIDs joins the populated IDs of refs with commas.  Entries without an
// ID are skipped.
func JoinIDs(refs []SlotRef) string {
	ids := make([]int, 0, len(refs))
	for _, r := range refs {
		if r.ID == nil {
			continue
		}
		ids = append(ids, *r.ID)
	}
	return FormatIDs(ids)
}

// FormatIDs is the inverse of ParseIDs for an already parsed slice.
func FormatIDs(ids []int) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, strconv.Itoa(id))
	}
	return strings.Join(parts, ",")
}

// FindByBoundary returns the first slot whose start (wantStart) or end time
// equals hhmm.  "2400" is accepted as a synonym of "0000".
func FindByBoundary(hhmm string, wantStart bool) (int, bool) {
	hhmm = strings.TrimSpace(hhmm)
	if hhmm == "2400" {
		hhmm = "0000"
	}
	for i := MinSlot; i <= MaxSlot; i++ {
		edge := end(i)
		if wantStart {
			edge = start(i)
		}
		if edge == hhmm {
			return i, true
		}
	}
	return 0, false
}

// Range is an inclusive span of slot indices.
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Contains reports whether i lies inside the range.
func (r Range) Contains(i int) bool { return i >= r.Start && i <= r.End }

// Slots lists every index of the range in ascending order.
func (r Range) Slots() []int {
	if r.End < r.Start {
		return nil
	}
	out := make([]int, 0, r.End-r.Start+1)
	for i := r.Start; i <= r.End; i++ {
		out = append(out, i)
	}
	return out
}

// ParseOpeningHours turns a venue's "0700 - 2300" (or "0700-2300") opening
// hours into the inclusive range of bookable slots.
func ParseOpeningHours(s string) (Range, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 2 {
		return Range{}, ErrInvalidOpeningHours
	}
	first, ok := FindByBoundary(parts[0], true)
	if !ok {
		return Range{}, ErrInvalidOpeningHours
	}
	last, ok := FindByBoundary(parts[1], false)
	if !ok {
		return Range{}, ErrInvalidOpeningHours
	}
	if last < first {
		return Range{}, ErrInvalidOpeningHours
	}
	return Range{Start: first, End: last}, nil
}

package slot

import (
	"sort"
	"strings"
)

// Intersects reports whether any slot in wantCSV also appears in checkCSV.
// This is an intersection test, not a subset test: "1,2,3,4" intersects
// "1,2" and so does "4,5".  Unparsable input on either side never
// intersects.
func Intersects(wantCSV, checkCSV string) bool {
	want, ok := ParseIDs(wantCSV)
	if !ok {
		return false
	}
	check, ok := ParseIDs(checkCSV)
	if !ok {
		return false
	}
	return IntersectsIDs(want, check)
}

// IntersectsIDs is Intersects on parsed slices.
func IntersectsIDs(a, b []int) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	set := make(map[int]struct{}, len(b))
	for _, id := range b {
		set[id] = struct{}{}
	}
	for _, id := range a {
		if _, ok := set[id]; ok {
			return true
		}
	}
	return false
}

// MergeTimings sorts and de-duplicates ids and collapses runs of consecutive
// slots into one display range, e.g. [14,15,16,20] becomes
// ["0700 - 0830", "1000 - 1030"].  Invalid indices are dropped.
func MergeTimings(ids []int) []string {
	uniq := make([]int, 0, len(ids))
	seen := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		if !Valid(id) {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		uniq = append(uniq, id)
	}
	sort.Ints(uniq)

	var out []string
	for i := 0; i < len(uniq); {
		j := i
		for j+1 < len(uniq) && uniq[j+1] == uniq[j]+1 {
			j++
		}
		out = append(out, start(uniq[i])+" - "+end(uniq[j]))
		i = j + 1
	}
	return out
}

// Touching reports whether two "HHMM - HHMM" timings share a boundary, in
// either order.
func Touching(a, b string) bool {
	as, ae, ok := splitTiming(a)
	if !ok {
		return false
	}
	bs, be, ok := splitTiming(b)
	if !ok {
		return false
	}
	return ae == bs || be == as
}

// MergeRanges coalesces touching display ranges until no two remaining
// ranges touch.  A merged range takes the position of the earliest range it
// absorbed; unparsable entries are passed through unchanged.
func MergeRanges(timings []string) []string {
	out := append([]string(nil), timings...)
	for merged := true; merged; {
		merged = false
		for i := 0; i < len(out) && !merged; i++ {
			is, ie, ok := splitTiming(out[i])
			if !ok {
				continue
			}
			for j := i + 1; j < len(out); j++ {
				js, je, ok := splitTiming(out[j])
				if !ok {
					continue
				}
				switch {
				case ie == js:
					out[i] = is + " - " + je
				case je == is:
					out[i] = js + " - " + ie
				default:
					continue
				}
				out = append(out[:j], out[j+1:]...)
				merged = true
				break
			}
		}
	}
	return out
}

func splitTiming(t string) (string, string, bool) {
	parts := strings.Split(t, "-")
	if len(parts) != 2 {
		return "", "", false
	}
	s, e := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	if len(s) != 4 || len(e) != 4 {
		return "", "", false
	}
	return s, e, true
}

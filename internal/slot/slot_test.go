package slot

import (
	"reflect"
	"regexp"
	"testing"
)

var timingPattern = regexp.MustCompile(`^\d{4} - \d{4}$`)

func TestToTimingCoversTable(t *testing.T) {
	for i := MinSlot; i <= MaxSlot; i++ {
		got := ToTiming(i)
		if !timingPattern.MatchString(got) {
			t.Fatalf("ToTiming(%d) = %q, want HHMM - HHMM", i, got)
		}
	}
	for _, i := range []int{-1, 49, 100} {
		if got := ToTiming(i); got != "" {
			t.Errorf("ToTiming(%d) = %q, want empty", i, got)
		}
	}
}

func TestToTimingKnownEntries(t *testing.T) {
	cases := map[int]string{
		0:  "0000 - 0030",
		1:  "0030 - 0100",
		15: "0730 - 0800",
		47: "2330 - 0000",
		48: "0000 - 0030",
	}
	for idx, want := range cases {
		if got := ToTiming(idx); got != want {
			t.Errorf("ToTiming(%d) = %q, want %q", idx, got, want)
		}
	}
}

func TestToTimingsPreservesOrder(t *testing.T) {
	got := ToTimings([]int{3, 1, 99})
	want := []string{"0130 - 0200", "0030 - 0100", ""}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestParseIDs(t *testing.T) {
	tests := []struct {
		in     string
		want   []int
		wantOK bool
	}{
		{"1,2,3", []int{1, 2, 3}, true},
		{"0", []int{0}, true},
		{" 4 , 5", []int{4, 5}, true},
		{"asd21312", nil, false},
		{"1,2,null,elephant", nil, false},
		{"", nil, false},
		{"   ", nil, false},
		{"1,,2", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseIDs(tt.in)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestJoinIDsRoundTrip(t *testing.T) {
	id := func(n int) *int { return &n }
	refs := []SlotRef{{ID: id(0)}, {ID: nil}, {ID: id(14)}, {ID: id(15)}}

	csv := JoinIDs(refs)
	if csv != "0,14,15" {
		t.Fatalf("JoinIDs = %q", csv)
	}
	got, ok := ParseIDs(csv)
	if !ok || !reflect.DeepEqual(got, []int{0, 14, 15}) {
		t.Fatalf("round trip = %v %v", got, ok)
	}
}

func TestFindByBoundary(t *testing.T) {
	if i, ok := FindByBoundary("0730", true); !ok || i != 15 {
		t.Fatalf("start 0730 = %d %v", i, ok)
	}
	if i, ok := FindByBoundary("0730", false); !ok || i != 14 {
		t.Fatalf("end 0730 = %d %v", i, ok)
	}
	if _, ok := FindByBoundary("9999", true); ok {
		t.Fatal("9999 should not match")
	}
	if i, ok := FindByBoundary("2400", false); !ok || i != 47 {
		t.Fatalf("end 2400 = %d %v", i, ok)
	}
}

func TestParseOpeningHours(t *testing.T) {
	r, err := ParseOpeningHours("0700 - 2300")
	if err != nil {
		t.Fatal(err)
	}
	if r.Start != 14 || r.End != 45 {
		t.Fatalf("range = %+v", r)
	}
	if !r.Contains(14) || !r.Contains(45) || r.Contains(46) || r.Contains(13) {
		t.Fatalf("Contains mismatch for %+v", r)
	}
	if n := len(r.Slots()); n != 32 {
		t.Fatalf("len(Slots) = %d", n)
	}

	full, err := ParseOpeningHours("0000-2400")
	if err != nil || full.Start != 0 || full.End != 47 {
		t.Fatalf("full day = %+v %v", full, err)
	}

	for _, bad := range []string{"", "0700", "0715 - 0800", "2300 - 0700"} {
		if _, err := ParseOpeningHours(bad); err == nil {
			t.Errorf("ParseOpeningHours(%q) should fail", bad)
		}
	}
}

func TestIntersects(t *testing.T) {
	tests := []struct {
		want, check string
		expect      bool
	}{
		{"1,2,3,4", "1,2", true},
		{"1,2,3,4,5,6", "7,8", false},
		{"4,5", "1,2,3,4", true},
		{"0", "0,1", true},
		{"1,x", "1", false},
		{"", "1", false},
	}
	for _, tt := range tests {
		if got := Intersects(tt.want, tt.check); got != tt.expect {
			t.Errorf("Intersects(%q, %q) = %v, want %v", tt.want, tt.check, got, tt.expect)
		}
	}
}

func TestMergeTimings(t *testing.T) {
	got := MergeTimings([]int{16, 14, 15, 20, 15})
	want := []string{"0700 - 0830", "1000 - 1030"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if got := MergeTimings(nil); len(got) != 0 {
		t.Fatalf("empty input gave %v", got)
	}
}

func TestMergeRanges(t *testing.T) {
	if !Touching("0700 - 0800", "0800 - 0830") || !Touching("0800 - 0830", "0700 - 0800") {
		t.Fatal("expected touching ranges")
	}
	if Touching("0700 - 0800", "0830 - 0900") {
		t.Fatal("gap must not touch")
	}
	cases := []struct {
		name string
		in   []string
		want []string
	}{
		{"pair", []string{"0800 - 0830", "0700 - 0800", "1200 - 1230"}, []string{"0700 - 0830", "1200 - 1230"}},
		{"bridge arrives last", []string{"0700 - 0730", "0800 - 0830", "0730 - 0800"}, []string{"0700 - 0830"}},
		{"chain out of order", []string{"0900 - 0930", "0700 - 0730", "0830 - 0900", "0730 - 0800", "0800 - 0830"}, []string{"0700 - 0930"}},
		{"across midnight", []string{"0000 - 0030", "2330 - 0000"}, []string{"2330 - 0030"}},
		{"unparsable kept", []string{"bad", "0700 - 0730", "0730 - 0800"}, []string{"bad", "0700 - 0800"}},
		{"empty", nil, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := MergeRanges(tc.in)
			if len(got) == 0 && len(tc.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}

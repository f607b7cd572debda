package queue

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestFormatLine(t *testing.T) {
	ev := BookingEvent{
		Type:       EventRejected,
		RequestID:  "r1",
		Email:      "a@hall.test",
		VenueName:  "Function Room",
		Date:       "2024-05-10",
		Timings:    []string{"0900 - 1000"},
		CCA:        "Band",
		Reason:     "Conflicting booking approved",
		OccurredAt: time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC),
	}
	got := FormatLine(ev)
	for _, want := range []string{
		"[2024-05-01T08:00:00Z] booking.rejected",
		"request=r1",
		`venue="Function Room"`,
		"timings=[0900 - 1000]",
		`reason="Conflicting booking approved"`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("line %q missing %q", got, want)
		}
	}
	if !strings.HasSuffix(got, "\n") {
		t.Error("line not newline terminated")
	}
}

func TestHandleAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "booking.log")
	c := Consumer{LogPath: path}
	for _, id := range []string{"r1", "r2"} {
		body, _ := json.Marshal(BookingEvent{Type: EventCreated, RequestID: id})
		if err := c.handle(body); err != nil {
			t.Fatalf("handle: %v", err)
		}
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(string(b), "\n"); n != 2 {
		t.Fatalf("got %d lines, want 2", n)
	}
}

func TestHandleRejectsGarbage(t *testing.T) {
	c := Consumer{LogPath: filepath.Join(t.TempDir(), "booking.log")}
	if err := c.handle([]byte("{not json")); err == nil {
		t.Fatal("expected unmarshal error")
	}
}

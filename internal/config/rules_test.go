package config

import (
	"os"
	"testing"
)

func TestLoadBookingRulesDefaults(t *testing.T) {
	for _, k := range []string{"APPROVE_MIN_DAY", "CANCEL_MIN_DAY", "SESSION_EDITABLE_DAY", "CALENDAR_MIN_DAY", "CALENDAR_MAX_DAY", "APP_TIMEZONE", "API_STRICT_STATUS"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	r, err := LoadBookingRules()
	if err != nil {
		t.Fatalf("LoadBookingRules: %v", err)
	}
	if r != DefaultBookingRules() {
		t.Fatalf("got %+v, want %+v", r, DefaultBookingRules())
	}
}

func TestLoadBookingRulesOverride(t *testing.T) {
	t.Setenv("APPROVE_MIN_DAY", "5")
	t.Setenv("API_STRICT_STATUS", "true")
	r, err := LoadBookingRules()
	if err != nil {
		t.Fatalf("LoadBookingRules: %v", err)
	}
	if r.ApproveMinDay != 5 || !r.StrictStatus {
		t.Fatalf("overrides not applied: %+v", r)
	}
}

func TestBookingRulesValidate(t *testing.T) {
	r := DefaultBookingRules()
	r.CalendarMinDay = 10
	r.CalendarMaxDay = 5
	if err := r.Validate(); err == nil {
		t.Fatal("expected inverted window to fail")
	}
	r = DefaultBookingRules()
	r.CancelMinDay = -1
	if err := r.Validate(); err == nil {
		t.Fatal("expected negative threshold to fail")
	}
}

func TestRateLimitConfigClamps(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")
	t.Setenv("RATE_LIMIT_TTL", "1s")
	c := LoadRateLimitConfig()
	if c.Capacity != 1 {
		t.Fatalf("capacity = %d, want 1", c.Capacity)
	}
	if c.TTL != 5*c.RefillInterval {
		t.Fatalf("ttl = %v, want %v", c.TTL, 5*c.RefillInterval)
	}
}

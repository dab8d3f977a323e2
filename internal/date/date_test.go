package date

import (
	"testing"
	"time"
)

func TestCurrent_FallbackWithoutTicker(t *testing.T) {
	got := string(Current())
	if _, err := time.Parse(time.RFC1123, got); err != nil {
		t.Errorf("Current() = %q, not RFC1123: %v", got, err)
	}
}

func TestStartTicker(t *testing.T) {
	stop := StartTicker()
	defer stop()

	got := string(Current())
	if _, err := time.Parse(time.RFC1123, got); err != nil {
		t.Errorf("Current() = %q, not RFC1123: %v", got, err)
	}
}

func TestFormat(t *testing.T) {
	ts := time.Date(2021, time.March, 4, 5, 6, 7, 0, time.UTC)
	got := Format(ts)
	if got != "Thu, 04 Mar 2021 05:06:07 UTC" {
		t.Errorf("Format() = %q", got)
	}

	parsed, err := time.Parse(time.RFC1123, got)
	if err != nil {
		t.Fatalf("Format output not RFC1123: %v", err)
	}
	if !parsed.Equal(ts) {
		t.Errorf("Round trip mismatch: %v != %v", parsed, ts)
	}
}

package logger

import (
	"testing"
	"time"
)

func TestBuildRID(t *testing.T) {
	got := BuildRID(42, 9, 7)
	if got != "42:9:7" {
		t.Fatalf("BuildRID = %q, want 42:9:7", got)
	}
}

func TestContextRoundTrip(t *testing.T) {
	ctx := WithRID(Background(), "rid-123")
	ctx = WithUpdateMeta(ctx, 42, 7, 9)
	ctx = WithHandler(ctx, "expenses.list")

	if rid := RIDFrom(ctx); rid != "rid-123" {
		t.Fatalf("RIDFrom = %q", rid)
	}
	if id := UpdateIDFrom(ctx); id != 42 {
		t.Fatalf("UpdateIDFrom = %d", id)
	}
	if id := UserIDFrom(ctx); id != 7 {
		t.Fatalf("UserIDFrom = %d", id)
	}
	if id := ChatIDFrom(ctx); id != 9 {
		t.Fatalf("ChatIDFrom = %d", id)
	}
	if h := HandlerFrom(ctx); h != "expenses.list" {
		t.Fatalf("HandlerFrom = %q", h)
	}
}

func TestSanitizeLimit(t *testing.T) {
	in := "abc\x00def\x7fghi"
	if got := Sanitize(in); got != "abcdefghi" {
		t.Fatalf("Sanitize = %q", got)
	}
	if got := SanitizeLimit("hello world", 5); got != "hello" {
		t.Fatalf("SanitizeLimit = %q", got)
	}
	if got := SanitizeLimit("hi", 0); got != "" {
		t.Fatalf("SanitizeLimit zero max = %q", got)
	}
}

func TestRatioSampler(t *testing.T) {
	s := newRatioSampler(1, 4)
	admitted := 0
	for i := 0; i < 40; i++ {
		if s.allow() {
			admitted++
		}
	}
	if admitted != 10 {
		t.Fatalf("admitted %d of 40, want 10", admitted)
	}
}

func TestRoundMS(t *testing.T) {
	if got := RoundMS(1500 * time.Microsecond); got != 2*time.Millisecond {
		t.Fatalf("RoundMS = %v", got)
	}
	if got := RoundMS(-time.Second); got != 0 {
		t.Fatalf("RoundMS negative = %v", got)
	}
}

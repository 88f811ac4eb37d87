package folio

import (
	"testing"
	"time"
)

func TestLoginLimiterBlocksAfterMax(t *testing.T) {
	l := newLoginLimiter(3, time.Minute)
	defer l.Stop()

	for i := 0; i < 3; i++ {
		if !l.Check("10.0.0.1") {
			t.Fatalf("attempt %d should be allowed", i+1)
		}
		l.Record("10.0.0.1")
	}
	if l.Check("10.0.0.1") {
		t.Error("attempt past the limit should be blocked")
	}
}

func TestLoginLimiterCheckDoesNotRecord(t *testing.T) {
	l := newLoginLimiter(1, time.Minute)
	defer l.Stop()

	// Check alone never consumes budget; only Record does.
	for i := 0; i < 5; i++ {
		if !l.Check("10.0.0.5") {
			t.Fatalf("check %d should pass with no failures recorded", i+1)
		}
	}
	l.Record("10.0.0.5")
	if l.Check("10.0.0.5") {
		t.Error("recorded failure should count against the budget")
	}
}

func TestLoginLimiterWindowExpiry(t *testing.T) {
	l := newLoginLimiter(2, 20*time.Millisecond)
	defer l.Stop()

	l.Record("10.0.0.2")
	l.Record("10.0.0.2")
	if l.Check("10.0.0.2") {
		t.Fatal("third attempt inside the window should be blocked")
	}

	time.Sleep(30 * time.Millisecond)
	if !l.Check("10.0.0.2") {
		t.Error("attempt after the window expired should be allowed again")
	}
}

func TestLoginLimiterTracksPerIP(t *testing.T) {
	l := newLoginLimiter(1, time.Minute)
	defer l.Stop()

	l.Record("10.0.0.3")
	if l.Check("10.0.0.3") {
		t.Error("second attempt from the same address should be blocked")
	}
	if !l.Check("10.0.0.4") {
		t.Error("a different address should have its own budget")
	}
}

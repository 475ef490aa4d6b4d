// internal/fault/tracker_test.go
package fault

import (
	"testing"

	"github.com/tamzrod/scoreboard-hub/internal/registry"
)

type fakePresence struct {
	cleared []registry.Index
}

func (f *fakePresence) ClearPresence(i registry.Index) {
	f.cleared = append(f.cleared, i)
}

func TestOnSilence_ClearsOnThresholdNotBefore(t *testing.T) {
	p := &fakePresence{}
	tr := New(10, 10, p)

	for n := 1; n <= 9; n++ {
		if tr.OnSilence(0) {
			t.Fatalf("silence %d declared offline too early", n)
		}
	}
	if len(p.cleared) != 0 {
		t.Fatalf("presence cleared before threshold: %v", p.cleared)
	}

	if !tr.OnSilence(0) {
		t.Fatalf("10th silence must declare offline")
	}
	if len(p.cleared) != 1 || p.cleared[0] != 0 {
		t.Fatalf("expected one clear of node 0, got %v", p.cleared)
	}
}

func TestOnSilence_SaturatesWithoutRetrigger(t *testing.T) {
	p := &fakePresence{}
	tr := New(10, 10, p)

	for n := 0; n < 10; n++ {
		tr.OnSilence(4)
	}
	for n := 0; n < 500; n++ {
		if tr.OnSilence(4) {
			t.Fatalf("silence %d re-declared offline", 11+n)
		}
	}

	if len(p.cleared) != 1 {
		t.Fatalf("expected exactly one clear, got %d", len(p.cleared))
	}
	if got := tr.Count(4); got != 11 {
		t.Fatalf("counter must saturate at threshold+1: got=%d", got)
	}
	if !tr.Offline(4) {
		t.Fatalf("node 4 should stay offline")
	}
}

func TestOnSuccess_ResetsFromAnyValue(t *testing.T) {
	p := &fakePresence{}
	tr := New(10, 10, p)

	for _, prior := range []int{1, 5, 10, 11} {
		tr.Reset()
		for n := 0; n < prior; n++ {
			tr.OnSilence(2)
		}
		tr.OnSuccess(2)
		if got := tr.Count(2); got != 0 {
			t.Fatalf("prior=%d: counter after success got=%d want=0", prior, got)
		}
	}
}

func TestOnSilence_AfterRecoveryClearsAgain(t *testing.T) {
	p := &fakePresence{}
	tr := New(10, 3, p)

	for n := 0; n < 3; n++ {
		tr.OnSilence(1)
	}
	tr.OnSuccess(1)
	for n := 0; n < 3; n++ {
		tr.OnSilence(1)
	}

	if len(p.cleared) != 2 {
		t.Fatalf("expected a clear per outage, got %d", len(p.cleared))
	}
}

func TestInvalidIndexIgnored(t *testing.T) {
	p := &fakePresence{}
	tr := New(10, 1, p)

	if tr.OnSilence(10) || tr.OnSilence(11) || tr.OnSilence(-1) {
		t.Fatalf("out-of-range index must not be tracked")
	}
	tr.OnSuccess(11)
	if len(p.cleared) != 0 {
		t.Fatalf("unexpected clear: %v", p.cleared)
	}
	if tr.Count(11) != 0 {
		t.Fatalf("count of invalid index must be zero")
	}
}

// internal/score/params_test.go
package score

import "testing"

func TestNew_AllBlank(t *testing.T) {
	p := New()
	for i, b := range p.Bytes() {
		if b != Blank {
			t.Fatalf("field %d: got=0x%02X want blank", i, b)
		}
	}
	if p.Dirty() {
		t.Fatalf("fresh buffer must not be dirty")
	}
}

func TestSet_ShortPayloadRejected(t *testing.T) {
	p := New()
	if p.Set(make([]byte, Size-1), 0) {
		t.Fatalf("short payload accepted")
	}
	if p.Dirty() {
		t.Fatalf("rejected payload must not mark dirty")
	}
}

func TestSet_ConnectedFlagMerged(t *testing.T) {
	p := New()

	in := make([]byte, Size+2)
	for i := range in {
		in[i] = byte(i)
	}
	in[Flags] = FlagServePlayer2

	if !p.Set(in, FlagConnected) {
		t.Fatalf("payload rejected")
	}

	got := p.Bytes()
	if got[Flags] != FlagServePlayer2|FlagConnected {
		t.Fatalf("flags: got=0x%02X", got[Flags])
	}
	if got[Hours] != Hours {
		t.Fatalf("extra bytes must be ignored, hours=0x%02X", got[Hours])
	}

	if !p.TakeDirty() {
		t.Fatalf("expected dirty after Set")
	}
	if p.TakeDirty() {
		t.Fatalf("TakeDirty must clear the flag")
	}
}

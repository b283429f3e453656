package rate

import (
	"testing"
	"time"
)

func TestPerSecondWithNoSamples(t *testing.T) {
	m := New(10)
	if m.PerSecond() != 0 {
		t.Fatal("expected 0 with no recorded samples")
	}
}

func TestPerSecondApproximatesConstantRate(t *testing.T) {
	m := New(4)
	for i := 0; i < 4; i++ {
		m.Record(10 * time.Millisecond)
	}
	got := m.PerSecond()
	if got < 90 || got > 110 {
		t.Fatalf("PerSecond() = %v, want ~100", got)
	}
}

func TestResetClearsSamples(t *testing.T) {
	m := New(4)
	m.Record(time.Millisecond)
	m.Reset()
	if m.PerSecond() != 0 {
		t.Fatal("expected 0 after Reset")
	}
}

func TestMeanMillis(t *testing.T) {
	m := New(2)
	m.Record(5 * time.Millisecond)
	m.Record(15 * time.Millisecond)
	if got := m.MeanMillis(); got < 9 || got > 11 {
		t.Fatalf("MeanMillis() = %v, want ~10", got)
	}
}

package delay

import "testing"

func TestMultiPerChannelDelays(t *testing.T) {
	m, err := NewMulti(3, 4)
	if err != nil {
		t.Fatal(err)
	}
	m.SetDelay(0, 0)
	m.SetDelay(1, 2)
	m.SetDelay(2, 10) // clamped to 4

	if m.Delay(2) != 4 {
		t.Fatalf("Delay(2) = %d, want 4", m.Delay(2))
	}

	frame := make([]float64, 3)
	for i := range 10 {
		v := float64(i + 1)
		frame[0], frame[1], frame[2] = v, v, v
		m.ProcessFrame(frame)
		for ch, delay := range []int{0, 2, 4} {
			want := 0.0
			if i >= delay {
				want = float64(i + 1 - delay)
			}
			if frame[ch] != want {
				t.Fatalf("sample %d ch %d: got %v want %v", i, ch, frame[ch], want)
			}
		}
	}
}

func TestMultiNegativeDelayClamped(t *testing.T) {
	m, err := NewMulti(1, 8)
	if err != nil {
		t.Fatal(err)
	}
	m.SetDelay(0, -3)
	if got := m.ProcessChannel(0, 0.5); got != 0.5 {
		t.Fatalf("got %v want 0.5", got)
	}
}

func TestNewMultiValidation(t *testing.T) {
	if _, err := NewMulti(0, 4); err == nil {
		t.Fatal("expected error for zero channels")
	}
	if _, err := NewMulti(1, -1); err == nil {
		t.Fatal("expected error for negative maximum")
	}
}

func TestMultiProcessFrameDoesNotAllocate(t *testing.T) {
	m, err := NewMulti(4, 960)
	if err != nil {
		t.Fatal(err)
	}
	frame := []float64{1, 2, 3, 4}
	allocs := testing.AllocsPerRun(100, func() {
		m.ProcessFrame(frame)
	})
	if allocs != 0 {
		t.Fatalf("ProcessFrame allocates %v times", allocs)
	}
}

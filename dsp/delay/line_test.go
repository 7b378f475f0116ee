package delay

import "testing"

func TestNewValidation(t *testing.T) {
	if _, err := New(0); err == nil {
		t.Fatal("expected error for size=0")
	}

	if _, err := New(-1); err == nil {
		t.Fatal("expected error for size=-1")
	}
}

func TestNewRoundsToPowerOfTwo(t *testing.T) {
	tests := []struct {
		size, want int
	}{
		{1, 1},
		{5, 8},
		{16, 16},
		{961, 1024},
	}
	for _, tt := range tests {
		d, err := New(tt.size)
		if err != nil {
			t.Fatal(err)
		}
		if d.Len() != tt.want {
			t.Errorf("New(%d).Len() = %d, want %d", tt.size, d.Len(), tt.want)
		}
	}
}

func TestReadWrite(t *testing.T) {
	d, err := New(8)
	if err != nil {
		t.Fatal(err)
	}

	for i := range 8 {
		d.Write(float64(i))
	}
	// delay=1 => most recently written (7)
	if got := d.Read(1); got != 7 {
		t.Fatalf("got %v want 7", got)
	}
	if got := d.Read(3); got != 5 {
		t.Fatalf("got %v want 5", got)
	}
}

func TestReadWraparound(t *testing.T) {
	d, err := New(4)
	if err != nil {
		t.Fatal(err)
	}

	for i := range 10 {
		d.Write(float64(i))
	}
	if got := d.Read(1); got != 9 {
		t.Fatalf("got %v want 9", got)
	}
	if got := d.Read(4); got != 6 {
		t.Fatalf("got %v want 6", got)
	}
}

func TestProcessDelaysBySamples(t *testing.T) {
	for _, delay := range []int{0, 1, 3, 7} {
		d, err := New(8)
		if err != nil {
			t.Fatal(err)
		}
		for i := range 20 {
			got := d.Process(float64(i+1), delay)
			want := 0.0
			if i >= delay {
				want = float64(i + 1 - delay)
			}
			if got != want {
				t.Fatalf("delay %d, sample %d: got %v want %v", delay, i, got, want)
			}
		}
	}
}

func TestReset(t *testing.T) {
	d, err := New(4)
	if err != nil {
		t.Fatal(err)
	}

	for i := range 4 {
		d.Write(float64(i + 1))
	}
	d.Reset()
	for delay := 1; delay <= 4; delay++ {
		if got := d.Read(delay); got != 0 {
			t.Fatalf("after reset Read(%d)=%v", delay, got)
		}
	}
}

func BenchmarkProcess(b *testing.B) {
	d, err := New(1024)
	if err != nil {
		b.Fatal(err)
	}
	for b.Loop() {
		_ = d.Process(1, 480)
	}
}

package kernel

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-vecmath/cpu"
)

func TestRegistryLookupPrefersHigherPriority(t *testing.T) {
	reg := &Registry{}
	reg.Register(Entry{Name: "generic", SIMDLevel: cpu.SIMDNone, Priority: 0})
	reg.Register(Entry{Name: "unroll4", SIMDLevel: cpu.SIMDAVX2, Priority: 20})

	entry := reg.Lookup(cpu.Features{HasSSE2: true, HasAVX2: true})
	if entry == nil || entry.Name != "unroll4" {
		t.Fatalf("expected unroll4, got %#v", entry)
	}

	entry = reg.Lookup(cpu.Features{HasSSE2: true})
	if entry == nil || entry.Name != "generic" {
		t.Fatalf("expected generic, got %#v", entry)
	}

	if names := reg.Names(); len(names) != 2 || names[0] != "unroll4" {
		t.Fatalf("Names() = %v", names)
	}
}

func TestRegistryLookupForceGeneric(t *testing.T) {
	reg := &Registry{}
	reg.Register(Entry{Name: "generic", SIMDLevel: cpu.SIMDNone, Priority: 0})
	reg.Register(Entry{Name: "unroll4", SIMDLevel: cpu.SIMDAVX2, Priority: 20})

	entry := reg.Lookup(cpu.Features{HasAVX2: true, ForceGeneric: true})
	if entry == nil || entry.Name != "generic" {
		t.Fatalf("expected generic with ForceGeneric, got %#v", entry)
	}
}

func TestKernelsAgree(t *testing.T) {
	c := Coefficients{B0: 0.2, B1: 0.4, B2: 0.2, A1: -0.6, A2: 0.15}
	for _, n := range []int{0, 1, 2, 3, 5, 8, 33} {
		a := make([]float64, n)
		b := make([]float64, n)
		for i := range a {
			a[i] = math.Sin(float64(i) * 0.3)
			b[i] = a[i]
		}

		da0, da1 := Unroll2(c, 0.1, -0.05, a)
		db0, db1 := Unroll4(c, 0.1, -0.05, b)
		if math.Abs(da0-db0) > 1e-15 || math.Abs(da1-db1) > 1e-15 {
			t.Fatalf("n=%d: state mismatch (%v,%v) vs (%v,%v)", n, da0, da1, db0, db1)
		}
		for i := range a {
			if math.Abs(a[i]-b[i]) > 1e-15 {
				t.Fatalf("n=%d i=%d: %v vs %v", n, i, a[i], b[i])
			}
		}
	}
}

//go:build amd64 && !purego

package kernel

import "github.com/cwbudde/algo-vecmath/cpu"

func init() {
	Global.Register(Entry{
		Name:      "unroll4",
		SIMDLevel: cpu.SIMDAVX2,
		Priority:  20,
		Block:     Unroll4,
	})
}

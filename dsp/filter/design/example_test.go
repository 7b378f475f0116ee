package design_test

import (
	"fmt"

	"github.com/cwbudde/algo-speakerman/dsp/filter/design"
)

func ExampleParametric() {
	c := design.Parametric(100, 2, 1, 48000)
	fmt.Printf("%.2f dB at 100 Hz\n", c.MagnitudeDB(100, 48000))
	// Output:
	// 6.02 dB at 100 Hz
}

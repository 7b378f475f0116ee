package response_test

import (
	"fmt"

	"github.com/cwbudde/algo-speakerman/measure/response"
)

func ExampleMeasure() {
	r, err := response.Measure([]float64{1000}, 48000, response.DefaultSize)
	if err != nil {
		fmt.Println(err)
		return
	}

	p := r.CrossoverPoints()[0]
	minDB, maxDB := r.Flatness()
	fmt.Printf("crossover %.2f kHz at %.1f dB, ripple %.1f dB\n", p.Hz/1000, p.DB, maxDB-minDB)
	// Output:
	// crossover 1.00 kHz at -6.0 dB, ripple 0.0 dB
}

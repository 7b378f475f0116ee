package pass

import "github.com/cwbudde/algo-speakerman/dsp/filter/biquad"

// ButterworthLP designs a low-pass Butterworth cascade. Odd orders end with
// a first-order section (B2 = A2 = 0).
func ButterworthLP(freq float64, order int, sampleRate float64) []biquad.Coefficients {
	checkOrder(order)
	freq = ClampFrequency(freq, sampleRate)

	sections := make([]biquad.Coefficients, 0, (order+1)/2)
	for i := order/2 - 1; i >= 0; i-- {
		sections = append(sections, LowpassRBJ(freq, butterworthQ(order, i), sampleRate))
	}

	if order%2 != 0 {
		sections = append(sections, firstOrderLP(freq, sampleRate))
	}

	return sections
}

// ButterworthHP designs a high-pass Butterworth cascade. Odd orders end with
// a first-order section (B2 = A2 = 0).
func ButterworthHP(freq float64, order int, sampleRate float64) []biquad.Coefficients {
	checkOrder(order)
	freq = ClampFrequency(freq, sampleRate)

	sections := make([]biquad.Coefficients, 0, (order+1)/2)
	for i := order/2 - 1; i >= 0; i-- {
		sections = append(sections, HighpassRBJ(freq, butterworthQ(order, i), sampleRate))
	}

	if order%2 != 0 {
		sections = append(sections, firstOrderHP(freq, sampleRate))
	}

	return sections
}

// LinkwitzRileyLP returns a Butterworth low-pass of halfOrder applied twice.
// The result has -6.02 dB at freq and order 2*halfOrder.
func LinkwitzRileyLP(freq float64, halfOrder int, sampleRate float64) []biquad.Coefficients {
	bw := ButterworthLP(freq, halfOrder, sampleRate)
	return append(bw, bw...)
}

// LinkwitzRileyHP returns a Butterworth high-pass of halfOrder applied twice.
// For even half orders (LR4) the output is in phase with [LinkwitzRileyLP]
// and the two sum to an all-pass. Odd half orders need a polarity flip.
func LinkwitzRileyHP(freq float64, halfOrder int, sampleRate float64) []biquad.Coefficients {
	bw := ButterworthHP(freq, halfOrder, sampleRate)
	return append(bw, bw...)
}

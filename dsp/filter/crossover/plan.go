package crossover

// Stage is one step of a [Plan]: crossover Crossover reads node In and writes
// its low and high outputs to nodes Low and High.
type Stage struct {
	Crossover int
	In        int
	Low       int
	High      int
}

// Plan is the static band graph for a crossover count. Node 0 is the input;
// every stage adds two nodes. BandNode maps band index to the node holding
// that band once all stages ran.
type Plan struct {
	Crossovers int
	Stages     [MaxCrossovers]Stage
	BandNode   [MaxBands]int
}

// Nodes returns the number of nodes the plan uses, input included.
func (p *Plan) Nodes() int {
	return 1 + 2*p.Crossovers
}

// Bands returns the number of output bands.
func (p *Plan) Bands() int {
	return p.Crossovers + 1
}

// The middle crossover splits first so that every band passes through at
// most two crossovers.
var plans = [MaxCrossovers + 1]Plan{
	1: {
		Crossovers: 1,
		Stages:     [MaxCrossovers]Stage{{Crossover: 0, In: 0, Low: 1, High: 2}},
		BandNode:   [MaxBands]int{1, 2},
	},
	2: {
		Crossovers: 2,
		Stages: [MaxCrossovers]Stage{
			{Crossover: 1, In: 0, Low: 1, High: 2},
			{Crossover: 0, In: 1, Low: 3, High: 4},
		},
		BandNode: [MaxBands]int{3, 4, 2},
	},
	3: {
		Crossovers: 3,
		Stages: [MaxCrossovers]Stage{
			{Crossover: 1, In: 0, Low: 1, High: 2},
			{Crossover: 0, In: 1, Low: 3, High: 4},
			{Crossover: 2, In: 2, Low: 5, High: 6},
		},
		BandNode: [MaxBands]int{3, 4, 5, 6},
	},
}

// PlanFor returns the static plan for a crossover count. It panics for a
// count outside [1, 3]; callers validate the count first.
func PlanFor(crossovers int) *Plan {
	if crossovers < MinCrossovers || crossovers > MaxCrossovers {
		panic("crossover: no plan for crossover count")
	}

	return &plans[crossovers]
}

package culling

// Outcome is the path a decision took through the engine.
type Outcome uint8

const (
	NoOpinion Outcome = iota
	OutOfBounds
	CapabilityHidden
	CapabilityVisible
	DefaultHidden
	DefaultVisible
	Recovered
)

// Outcomes lists every outcome, in order.
var Outcomes = []Outcome{NoOpinion, OutOfBounds, CapabilityHidden, CapabilityVisible, DefaultHidden, DefaultVisible, Recovered}

func (o Outcome) String() string {
	switch o {
	case NoOpinion:
		return "no_opinion"
	case OutOfBounds:
		return "out_of_bounds"
	case CapabilityHidden:
		return "capability_hidden"
	case CapabilityVisible:
		return "capability_visible"
	case DefaultHidden:
		return "default_hidden"
	case DefaultVisible:
		return "default_visible"
	case Recovered:
		return "recovered"
	}
	return "unknown"
}

// Observer is notified of the outcome of every decision. It is called from meshing goroutines and must be
// safe for concurrent use and cheap.
type Observer interface {
	Observe(o Outcome)
}

type nopObserver struct{}

func (nopObserver) Observe(Outcome) {}

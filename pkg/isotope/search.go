package isotope

// Profile is an observed isotope distribution matched to an Envelope.
type Profile struct {
	Envelope     Envelope
	Matched      []Peak // Observed peak per theoretical peak; zero value when unmatched
	MatchedCount int
	MonoMz       float64 // Observed m/z matched to the theoretical monoisotopic peak
	Intensity    float64 // Sum of matched intensities
}

// Detector finds an observed profile for a theoretical envelope.
// Implementations must not keep state between calls.
type Detector interface {
	FindProfile(candidates []Peak, theoretical Envelope, tolerancePPM float64) (*Profile, bool)
}

// State is the progress of one envelope search.
type State int

const (
	NotSearched State = iota
	NotFoundRetrying
	Found
	NotFound
)

var stateNames = [...]string{"NotSearched", "NotFoundRetrying", "Found", "NotFound"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "Unknown"
	}
	return stateNames[s]
}

// Outcome is the terminal result of Search.
type Outcome struct {
	State    State
	Profile  *Profile // nil unless found
	Envelope Envelope // The envelope of the last detector call
	Retried  bool
}

// Found reports whether the search ended in the Found state.
func (o Outcome) Found() bool {
	return o.State == Found
}

// Search looks for the envelope of mass at charge among candidates. When the
// first attempt fails the envelope is shifted left by one isotope spacing and
// searched once more.
func Search(detector Detector, candidates []Peak, mass float64, charge int, tolerancePPM float64) Outcome {
	outcome := Outcome{State: NotSearched, Envelope: BuildEnvelope(mass, charge)}

	if profile, ok := detector.FindProfile(candidates, outcome.Envelope, tolerancePPM); ok {
		outcome.State = Found
		outcome.Profile = profile
		return outcome
	}

	outcome.State = NotFoundRetrying
	outcome.Envelope = outcome.Envelope.ShiftLeft()
	outcome.Retried = true

	if profile, ok := detector.FindProfile(candidates, outcome.Envelope, tolerancePPM); ok {
		outcome.State = Found
		outcome.Profile = profile
		return outcome
	}

	outcome.State = NotFound
	return outcome
}

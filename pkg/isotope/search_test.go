package isotope

import (
	"math"
	"testing"
)

// scriptedDetector answers from a fixed list and records every envelope it sees.
type scriptedDetector struct {
	answers []bool
	calls   []Envelope
}

func (d *scriptedDetector) FindProfile(_ []Peak, theoretical Envelope, _ float64) (*Profile, bool) {
	d.calls = append(d.calls, theoretical)
	found := len(d.calls) <= len(d.answers) && d.answers[len(d.calls)-1]
	if !found {
		return nil, false
	}
	return &Profile{Envelope: theoretical}, true
}

func TestSearch(t *testing.T) {
	tests := []struct {
		name        string
		answers     []bool
		wantState   State
		wantCalls   int
		wantRetried bool
	}{
		{"found first", []bool{true}, Found, 1, false},
		{"found on retry", []bool{false, true}, Found, 2, true},
		{"not found", []bool{false, false, true}, NotFound, 2, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &scriptedDetector{answers: tt.answers}
			outcome := Search(d, nil, 1200, 2, 20)

			if outcome.State != tt.wantState {
				t.Errorf("State = %s, want %s", outcome.State, tt.wantState)
			}
			if len(d.calls) != tt.wantCalls {
				t.Errorf("Detector called %d times, want %d", len(d.calls), tt.wantCalls)
			}
			if outcome.Retried != tt.wantRetried {
				t.Errorf("Retried = %v, want %v", outcome.Retried, tt.wantRetried)
			}
			if outcome.Found() != (outcome.Profile != nil) {
				t.Errorf("Found() = %v with profile %v", outcome.Found(), outcome.Profile)
			}
		})
	}
}

func TestSearchRetryShiftsLeft(t *testing.T) {
	d := &scriptedDetector{}
	Search(d, nil, 1200, 2, 20)

	if len(d.calls) != 2 {
		t.Fatalf("Expected 2 detector calls, got %d", len(d.calls))
	}
	first, retry := d.calls[0], d.calls[1]
	if math.Abs(first.MonoMass-retry.MonoMass-1.003) > 1e-9 {
		t.Errorf("Retry mono mass %f, want %f", retry.MonoMass, first.MonoMass-1.003)
	}
	if math.Abs(first.MonoMz-retry.MonoMz-1.003/2) > 1e-9 {
		t.Errorf("Retry mono m/z %f, want %f", retry.MonoMz, first.MonoMz-1.003/2)
	}
}

func TestStateString(t *testing.T) {
	if NotFoundRetrying.String() != "NotFoundRetrying" || State(9).String() != "Unknown" {
		t.Errorf("Unexpected state names %s, %s", NotFoundRetrying, State(9))
	}
}

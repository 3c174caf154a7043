package lifecycle

import (
	"sync"
	"time"
)

// Phase names.
const (
	PhaseEager   = "eager"
	PhaseLazy    = "lazy"
	PhaseDelayed = "delayed"
)

// PhaseRecord is one completed phase.
type PhaseRecord struct {
	Name     string
	Duration time.Duration
}

// PageState is the page-wide state the phases share. One is created per
// Load and handed to every phase.
type PageState struct {
	mu                 sync.Mutex
	Language           string
	Appear             bool
	FirstSectionLoaded bool
	FontsLoaded        bool
	phases             []PhaseRecord
}

func (s *PageState) record(name string, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phases = append(s.phases, PhaseRecord{Name: name, Duration: d})
}

// Phases returns the completed phases in order.
func (s *PageState) Phases() []PhaseRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]PhaseRecord, len(s.phases))
	copy(out, s.phases)
	return out
}

// PhaseNames returns the names of the completed phases in order.
func (s *PageState) PhaseNames() []string {
	phases := s.Phases()
	out := make([]string, len(phases))
	for i, p := range phases {
		out[i] = p.Name
	}
	return out
}

package view

// OpenState tracks the lifecycle of a modal or card overlay:
// closed -> opening -> open -> closing -> closed.
type OpenState int

const (
	StateClosed OpenState = iota
	StateOpening
	StateOpen
	StateClosing
)

func (s OpenState) String() string {
	switch s {
	case StateOpening:
		return "opening"
	case StateOpen:
		return "open"
	case StateClosing:
		return "closing"
	default:
		return "closed"
	}
}

// Surface is the per-modal (or per-card overlay) state machine. A second
// open while already opening or open is a no-op, not an error; this is
// what prevents duplicate nodes from rapid repeated triggers.
type Surface struct {
	state OpenState
}

func (s *Surface) State() OpenState {
	return s.state
}

// Open requests the closed -> opening transition. It reports whether the
// caller should actually present anything.
func (s *Surface) Open() bool {
	if s.state != StateClosed {
		return false
	}
	s.state = StateOpening
	return true
}

// Opened completes the opening -> open transition.
func (s *Surface) Opened() {
	if s.state == StateOpening {
		s.state = StateOpen
	}
}

// Close requests the open -> closing transition. It reports whether the
// caller should actually dismiss anything.
func (s *Surface) Close() bool {
	if s.state != StateOpen && s.state != StateOpening {
		return false
	}
	s.state = StateClosing
	return true
}

// Closed completes the closing -> closed transition.
func (s *Surface) Closed() {
	if s.state == StateClosing {
		s.state = StateClosed
	}
}

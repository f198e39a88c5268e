package session

// Editability describes whether edits to the selected date are persisted.
// Any date with a persisted record stays writable; a past date without one is
// locked.
type Editability int

const (
	Locked Editability = iota
	ExistingPast
	Live
)

func (e Editability) String() string {
	switch e {
	case Live:
		return "live"
	case ExistingPast:
		return "existing"
	default:
		return "locked"
	}
}

// Writable reports whether mutations on this date are flushed to the store.
func (e Editability) Writable() bool {
	return e != Locked
}

func editabilityOf(date, today string, exists bool) Editability {
	switch {
	case date == today:
		return Live
	case date < today && exists:
		return ExistingPast
	default:
		return Locked
	}
}

type State int

const (
	Loading State = iota
	Ready
)

func (s State) String() string {
	if s == Ready {
		return "ready"
	}
	return "loading"
}

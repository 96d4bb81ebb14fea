package controller

// State is the position of a list controller in its state machine.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
	StateSelected
	StateEditing
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateSelected:
		return "selected"
	case StateEditing:
		return "editing"
	default:
		return "unknown"
	}
}

// DismissReason says what closed the ticket detail.
type DismissReason int

const (
	DismissEscape DismissReason = iota
	DismissOutsideClick
	DismissClose
)

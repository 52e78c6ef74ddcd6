package accident

type Event string

const (
	EventCancel  Event = "cancel"
	EventTrigger Event = "trigger"
	EventAccept  Event = "accept"
)

var pending = []Status{StatusAwaitingConfirmation, StatusReported}

// transitions lists, per event, the statuses it may leave from and the status it produces.
var transitions = map[Event]struct {
	from []Status
	to   Status
}{
	EventCancel:  {from: pending, to: StatusCancelled},
	EventTrigger: {from: pending, to: StatusActive},
	EventAccept:  {from: []Status{StatusActive}, to: StatusAccepted},
}

func transitionFor(ev Event) Transition {
	t := transitions[ev]
	return Transition{From: t.from, To: t.to}
}

func (s Status) IsPending() bool {
	return s == StatusAwaitingConfirmation || s == StatusReported
}

// IsDispatched reports whether alerts have already gone out for this accident.
func (s Status) IsDispatched() bool {
	return s == StatusActive || s == StatusAccepted
}

func (s Status) CanApply(ev Event) bool {
	for _, from := range transitions[ev].from {
		if s == from {
			return true
		}
	}
	return false
}

package desktop

import "github.com/parthos/desktop/backend/internal/shared/types"

type EventType string

const (
	EventCue     EventType = "cue"
	EventState   EventType = "state"
	EventContent EventType = "content"
)

// Event is what the desktop tells its presentation layer.
type Event struct {
	Type     EventType           `json:"type"`
	Cue      types.Cue           `json:"cue,omitempty"`
	State    *types.DesktopState `json:"state,omitempty"`
	WindowID string              `json:"windowId,omitempty"`
}

func (d *Desktop) emit(ev Event) {
	if d.events != nil {
		d.events(ev)
	}
}

func (d *Desktop) playCue(cue types.Cue) {
	d.emit(Event{Type: EventCue, Cue: cue})
}

func (d *Desktop) stateChanged(state types.DesktopState) {
	d.emit(Event{Type: EventState, State: &state})
}

func (d *Desktop) contentChanged(windowID string) func() {
	return func() {
		d.emit(Event{Type: EventContent, WindowID: windowID})
	}
}

package game

// Action is a discrete input command.
type Action int

const (
	ActionNone Action = iota
	ActionLeft
	ActionRight
	ActionDown
	ActionRotateCW
	ActionRotateCCW
	ActionStart
	ActionSoftDrop // toggles soft drop
	ActionPause    // toggles pause
	ActionQuit
)

var actionNames = [...]string{
	ActionNone:      "none",
	ActionLeft:      "left",
	ActionRight:     "right",
	ActionDown:      "down",
	ActionRotateCW:  "rotate-cw",
	ActionRotateCCW: "rotate-ccw",
	ActionStart:     "start",
	ActionSoftDrop:  "soft-drop",
	ActionPause:     "pause",
	ActionQuit:      "quit",
}

func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return "unknown"
	}
	return actionNames[a]
}

// Direction maps a movement action to its board direction.
func (a Action) Direction() (Direction, bool) {
	switch a {
	case ActionLeft:
		return DirLeft, true
	case ActionRight:
		return DirRight, true
	case ActionDown:
		return DirDown, true
	case ActionRotateCW:
		return DirClockwise, true
	case ActionRotateCCW:
		return DirCounterClockwise, true
	}
	return 0, false
}

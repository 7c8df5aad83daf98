package server

import (
	"unicode/utf8"

	"blockfall/internal/game"
	"blockfall/internal/render"
)

// ParseInput converts raw terminal bytes into game actions.
// Handles arrow key escape sequences, Enter, Ctrl-C and the single-key
// bindings shared with the local client.
func ParseInput(data []byte) []game.Action {
	var actions []game.Action
	i := 0
	for i < len(data) {
		// Arrow keys: ESC [ A-D, or ESC O A-D in application cursor mode
		if i+2 < len(data) && data[i] == 0x1b && (data[i+1] == '[' || data[i+1] == 'O') {
			switch data[i+2] {
			case 'A':
				actions = append(actions, game.ActionRotateCW)
			case 'B':
				actions = append(actions, game.ActionDown)
			case 'C':
				actions = append(actions, game.ActionRight)
			case 'D':
				actions = append(actions, game.ActionLeft)
			}
			i += 3
			continue
		}

		r, size := utf8.DecodeRune(data[i:])
		switch r {
		case 3: // Ctrl-C
			actions = append(actions, game.ActionQuit)
		case '\r', '\n':
			actions = append(actions, game.ActionStart)
		default:
			if a := render.ActionForRune(r); a != game.ActionNone {
				actions = append(actions, a)
			}
		}
		i += size
	}
	return actions
}

package render

import (
	"github.com/gdamore/tcell/v2"

	"blockfall/internal/game"
)

// Paint draws f onto a tcell screen and shows it.
func Paint(s tcell.Screen, f Frame) {
	w, h := s.Size()
	buf := Compose(f, w, h)
	for y, row := range buf {
		for x, c := range row {
			s.SetContent(x, y, c.Ch, nil, cellStyle(c))
		}
	}
	s.Show()
}

func cellStyle(c Cell) tcell.Style {
	return tcell.StyleDefault.
		Foreground(tcell.NewRGBColor(int32(c.FgR), int32(c.FgG), int32(c.FgB))).
		Background(tcell.NewRGBColor(int32(c.BgR), int32(c.BgG), int32(c.BgB))).
		Bold(c.Bold)
}

// ActionForKey maps a tcell key event to a game action. The key bindings
// match the SSH front end.
func ActionForKey(ev *tcell.EventKey) game.Action {
	switch ev.Key() {
	case tcell.KeyLeft:
		return game.ActionLeft
	case tcell.KeyRight:
		return game.ActionRight
	case tcell.KeyDown:
		return game.ActionDown
	case tcell.KeyUp:
		return game.ActionRotateCW
	case tcell.KeyEnter:
		return game.ActionStart
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return game.ActionQuit
	case tcell.KeyRune:
		return ActionForRune(ev.Rune())
	}
	return game.ActionNone
}

// ActionForRune maps a single-character key to a game action.
func ActionForRune(r rune) game.Action {
	switch r {
	case 'a', 'A', 'h':
		return game.ActionLeft
	case 'd', 'D', 'l':
		return game.ActionRight
	case 's', 'S', 'j':
		return game.ActionDown
	case 'w', 'W', 'x', 'X', 'k':
		return game.ActionRotateCW
	case 'z', 'Z':
		return game.ActionRotateCCW
	case ' ':
		return game.ActionSoftDrop
	case 'n', 'N':
		return game.ActionStart
	case 'p', 'P':
		return game.ActionPause
	case 'q', 'Q':
		return game.ActionQuit
	}
	return game.ActionNone
}

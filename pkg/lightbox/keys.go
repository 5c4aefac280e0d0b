package lightbox

// Action is a keyboard command understood by the viewer.
type Action int

const (
	NoAction Action = iota
	ToggleFullscreen
	CloseViewer
	ShowPrevious
	ShowNext
)

var keyActions = map[string]Action{
	"f":     ToggleFullscreen,
	"enter": ToggleFullscreen,
	" ":     ToggleFullscreen,
	"space": ToggleFullscreen,
	"esc":   CloseViewer,
	"left":  ShowPrevious,
	"right": ShowNext,
}

// ActionFor maps a key name ("f", "enter", "esc", "left", ...) to an action.
func ActionFor(key string) Action {
	return keyActions[key]
}

// Key handles a key press and reports whether it was consumed. Keys are
// ignored while the viewer is hidden.
func (lb *Lightbox) Key(key string) bool {
	if !lb.visible {
		return false
	}
	switch ActionFor(key) {
	case ToggleFullscreen:
		lb.ToggleFullscreen()
	case CloseViewer:
		lb.Close(false)
	case ShowPrevious:
		lb.Previous()
	case ShowNext:
		lb.Next()
	default:
		return false
	}
	return true
}

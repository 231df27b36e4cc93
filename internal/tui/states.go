package tui

// ViewState is the screen the browser is showing.
type ViewState int

// View states.
const (
	ViewStateLoading ViewState = iota
	ViewStateList
	ViewStateDetail
	ViewStateFilter
	ViewStateQuitting
)

func (s ViewState) String() string {
	switch s {
	case ViewStateLoading:
		return "loading"
	case ViewStateList:
		return "list"
	case ViewStateDetail:
		return "detail"
	case ViewStateFilter:
		return "filter"
	case ViewStateQuitting:
		return "quitting"
	default:
		return "unknown"
	}
}

// Key bindings.
const (
	keyQuit      = "q"
	keyCtrlC     = "ctrl+c"
	keyEnter     = "enter"
	keyEsc       = "esc"
	keySlash     = "/"
	keyTab       = "tab"
	keyShiftTab  = "shift+tab"
	keyLeft      = "left"
	keyRight     = "right"
	keyH         = "h"
	keyL         = "l"
	keyFirst     = "g"
	keyLast      = "G"
	keyRefresh   = "r"
	keyTheme     = "t"
	keyBackspace = "backspace"
)

// Layout defaults.
const (
	defaultWidth  = 100
	defaultHeight = 24
	minListHeight = 3

	// chromeHeight is the number of rows used by header, page bar, summary and help.
	chromeHeight = 8

	filterInputCharLimit = 100
	filterInputWidth     = 40
	borderPadding        = 2
)

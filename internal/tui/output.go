package tui

import (
	"os"

	"golang.org/x/term"
)

// OutputMode is how results are written to the terminal.
type OutputMode int

// Output modes.
const (
	// OutputModePlain writes unstyled text, for pipes and dumb terminals.
	OutputModePlain OutputMode = iota

	// OutputModeStyled writes colored text without taking over the terminal.
	OutputModeStyled

	// OutputModeInteractive runs the full-screen browser.
	OutputModeInteractive
)

func (m OutputMode) String() string {
	switch m {
	case OutputModeInteractive:
		return "interactive"
	case OutputModeStyled:
		return "styled"
	default:
		return "plain"
	}
}

// DetectOutputMode picks a mode from the flags, NO_COLOR, TERM, CI and whether stdout is a terminal.
// plain wins over forceColor.
func DetectOutputMode(forceColor, noColor, plain bool) OutputMode {
	if plain {
		return OutputModePlain
	}
	if forceColor {
		return OutputModeStyled
	}
	if noColor || os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		return OutputModePlain
	}
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return OutputModePlain
	}
	if os.Getenv("CI") != "" {
		return OutputModeStyled
	}
	return OutputModeInteractive
}

// TerminalWidth returns the stdout width, or fallback when it cannot be determined.
func TerminalWidth(fallback int) int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return fallback
	}
	return w
}

// IsTTY reports whether both stdin and stdout are terminals.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

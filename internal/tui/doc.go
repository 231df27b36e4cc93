// Package tui renders a paged remote collection in the terminal with Bubble Tea.
//
// BrowserModel drives an engine.Controller: key presses turn into controller
// operations, the returned fetch runs as a tea.Cmd, and its completion comes
// back as a message that the controller applies or discards as stale. The
// package also carries the shared styles, themes and plain renderers used by
// non-interactive commands.
package tui

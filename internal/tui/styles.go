package tui

import "github.com/charmbracelet/lipgloss"

// Theme groups the styles used by the browser.
type Theme struct {
	Name string

	Header       lipgloss.Style
	Label        lipgloss.Style
	Value        lipgloss.Style
	Subtle       lipgloss.Style
	Info         lipgloss.Style
	Error        lipgloss.Style
	Warning      lipgloss.Style
	Selected     lipgloss.Style
	Title        lipgloss.Style
	Body         lipgloss.Style
	Box          lipgloss.Style
	PageCurrent  lipgloss.Style
	PageLink     lipgloss.Style
	PageEllipsis lipgloss.Style
}

type palette struct {
	accent  lipgloss.Color
	text    lipgloss.Color
	subtle  lipgloss.Color
	info    lipgloss.Color
	err     lipgloss.Color
	warning lipgloss.Color
	selBg   lipgloss.Color
	selFg   lipgloss.Color
}

func newTheme(name string, p palette) Theme {
	return Theme{
		Name:         name,
		Header:       lipgloss.NewStyle().Bold(true).Foreground(p.accent),
		Label:        lipgloss.NewStyle().Bold(true).Foreground(p.subtle),
		Value:        lipgloss.NewStyle().Foreground(p.text),
		Subtle:       lipgloss.NewStyle().Foreground(p.subtle),
		Info:         lipgloss.NewStyle().Foreground(p.info),
		Error:        lipgloss.NewStyle().Bold(true).Foreground(p.err),
		Warning:      lipgloss.NewStyle().Foreground(p.warning),
		Selected:     lipgloss.NewStyle().Bold(true).Foreground(p.selFg).Background(p.selBg),
		Title:        lipgloss.NewStyle().Bold(true).Foreground(p.text),
		Body:         lipgloss.NewStyle().Foreground(p.subtle),
		Box:          lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(p.subtle).Padding(0, 1),
		PageCurrent:  lipgloss.NewStyle().Bold(true).Foreground(p.selFg).Background(p.accent).Padding(0, 1),
		PageLink:     lipgloss.NewStyle().Foreground(p.text).Padding(0, 1),
		PageEllipsis: lipgloss.NewStyle().Foreground(p.subtle).Padding(0, 1),
	}
}

// DarkTheme is tuned for dark terminal backgrounds.
func DarkTheme() Theme {
	return newTheme("dark", palette{
		accent:  lipgloss.Color("99"),
		text:    lipgloss.Color("252"),
		subtle:  lipgloss.Color("245"),
		info:    lipgloss.Color("39"),
		err:     lipgloss.Color("196"),
		warning: lipgloss.Color("214"),
		selBg:   lipgloss.Color("57"),
		selFg:   lipgloss.Color("230"),
	})
}

// LightTheme is tuned for light terminal backgrounds.
func LightTheme() Theme {
	return newTheme("light", palette{
		accent:  lipgloss.Color("25"),
		text:    lipgloss.Color("235"),
		subtle:  lipgloss.Color("242"),
		info:    lipgloss.Color("26"),
		err:     lipgloss.Color("160"),
		warning: lipgloss.Color("130"),
		selBg:   lipgloss.Color("153"),
		selFg:   lipgloss.Color("16"),
	})
}

// ThemeByName returns the light theme for "light" and the dark theme otherwise.
func ThemeByName(name string) Theme {
	if name == "light" {
		return LightTheme()
	}
	return DarkTheme()
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t.Name == "light" {
		return DarkTheme()
	}
	return LightTheme()
}

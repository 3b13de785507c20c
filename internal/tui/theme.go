package tui

import (
	"sort"

	"github.com/charmbracelet/lipgloss"
)

// Palette is the set of colors a theme is built from.
type Palette struct {
	Accent lipgloss.Color
	Bright lipgloss.Color
	Dim    lipgloss.Color
	Text   lipgloss.Color
	Muted  lipgloss.Color
	Error  lipgloss.Color
	Base   lipgloss.Color
}

var palettes = map[string]Palette{
	"green": {
		Accent: lipgloss.Color("#00FF41"),
		Bright: lipgloss.Color("#39FF14"),
		Dim:    lipgloss.Color("#008F11"),
		Text:   lipgloss.Color("#e0e0e0"),
		Muted:  lipgloss.Color("#3a3a4e"),
		Error:  lipgloss.Color("#FF4136"),
		Base:   lipgloss.Color("#0D0208"),
	},
	"amber": {
		Accent: lipgloss.Color("#FFB000"),
		Bright: lipgloss.Color("#FFCC00"),
		Dim:    lipgloss.Color("#8F6400"),
		Text:   lipgloss.Color("#f0e6d2"),
		Muted:  lipgloss.Color("#4e443a"),
		Error:  lipgloss.Color("#FF4136"),
		Base:   lipgloss.Color("#0D0802"),
	},
	"mono": {
		Accent: lipgloss.Color("#ffffff"),
		Bright: lipgloss.Color("#ffffff"),
		Dim:    lipgloss.Color("#808080"),
		Text:   lipgloss.Color("#d0d0d0"),
		Muted:  lipgloss.Color("#4e4e4e"),
		Error:  lipgloss.Color("#ff5f5f"),
		Base:   lipgloss.Color("#000000"),
	},
}

// Themes lists the known theme names.
func Themes() []string {
	names := make([]string, 0, len(palettes))
	for name := range palettes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var (
	current Palette

	// Header
	TitleStyle  lipgloss.Style
	StatusStyle lipgloss.Style

	// Body
	TextStyle     lipgloss.Style
	LabelStyle    lipgloss.Style
	SelectedStyle lipgloss.Style
	MutedStyle    lipgloss.Style

	// Input
	InputBorderStyle lipgloss.Style
	InputActiveStyle lipgloss.Style

	// Error
	ErrorStyle lipgloss.Style

	// Help text
	HelpStyle lipgloss.Style
)

func init() {
	UseTheme("green")
}

// UseTheme switches every style to the named palette. Unknown names
// leave the current theme in place and report false.
func UseTheme(name string) bool {
	p, ok := palettes[name]
	if !ok {
		return false
	}
	current = p

	TitleStyle = lipgloss.NewStyle().
		Background(p.Dim).
		Foreground(p.Base).
		Bold(true).
		Padding(0, 1)

	StatusStyle = lipgloss.NewStyle().
		Foreground(p.Bright).
		Padding(0, 1)

	TextStyle = lipgloss.NewStyle().
		Foreground(p.Text)

	LabelStyle = lipgloss.NewStyle().
		Foreground(p.Accent).
		Bold(true)

	SelectedStyle = lipgloss.NewStyle().
		Foreground(p.Accent).
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(p.Accent).
		PaddingLeft(1)

	MutedStyle = lipgloss.NewStyle().
		Foreground(p.Muted)

	InputBorderStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Dim).
		Padding(0, 1)

	InputActiveStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Accent).
		Padding(0, 1)

	ErrorStyle = lipgloss.NewStyle().
		Foreground(p.Error).
		Bold(true)

	HelpStyle = lipgloss.NewStyle().
		Foreground(p.Dim)

	return true
}

const Banner = `
 ┌─┐┬ ┬┌─┐┌┐┌┌─┐┌┐ ┌─┐┌─┐┬┌─
 ├─┘├─┤│ ││││├┤ ├┴┐│ ││ │├┴┐
 ┴  ┴ ┴└─┘┘└┘└─┘└─┘└─┘└─┘┴ ┴
`

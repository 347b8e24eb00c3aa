package cmd

import "github.com/charmbracelet/lipgloss"

const (
	padding   = 2
	maxWidth  = 60
	pcmBlue   = "#286983"
	pcmTeal   = "#56949f"
	lightTeal = "#9ccfd8"
	lightGold = "#f6c177"
	darkGold  = "#ea9d34"
)

var (
	accent = lipgloss.AdaptiveColor{Dark: lightTeal, Light: pcmTeal}
	main   = lipgloss.AdaptiveColor{Dark: lightGold, Light: darkGold}

	titleStyle = lipgloss.NewStyle().
			Foreground(main).
			Bold(true)
	detailStyle = lipgloss.NewStyle().
			Foreground(accent)
	playerStyle = lipgloss.NewStyle().
			Padding(1, padding)
)

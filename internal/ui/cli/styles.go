// # internal/ui/cli/styles.go
package cli

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true)

	docStyle = lipgloss.NewStyle().Margin(0, 1)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Italic(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true)

	gutterStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#475569"))

	caretStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FBBF24")).
			Bold(true)

	cursorStyle = lipgloss.NewStyle().Reverse(true)

	// One style per usage category; "" is a range without a category.
	categoryStyles = map[string]lipgloss.Style{
		"":       lipgloss.NewStyle().Background(lipgloss.Color("#334155")),
		"read":   lipgloss.NewStyle().Background(lipgloss.Color("#065F46")),
		"write":  lipgloss.NewStyle().Background(lipgloss.Color("#9A3412")),
		"import": lipgloss.NewStyle().Background(lipgloss.Color("#5B21B6")),
	}
)

func categoryStyle(category string) lipgloss.Style {
	if s, ok := categoryStyles[category]; ok {
		return s
	}
	return categoryStyles[""]
}

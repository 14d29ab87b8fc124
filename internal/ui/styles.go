package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhath/foodlog/internal/config"
	"github.com/nhath/foodlog/internal/ui/components/search"
)

var (
	// Colors (exported via getter functions below)
	textPrimary   lipgloss.Color
	textSecondary lipgloss.Color
	textFaint     lipgloss.Color

	accentColor    lipgloss.Color
	successColor   lipgloss.Color
	errorColor     lipgloss.Color
	highlightColor lipgloss.Color
	warningColor   lipgloss.Color

	bgPrimary   lipgloss.Color
	bgSecondary lipgloss.Color
	cardBg      lipgloss.Color

	// Styles
	StatusBarStyle  lipgloss.Style
	ModeStyle       lipgloss.Style
	PickerModeStyle lipgloss.Style
	ConnectionStyle lipgloss.Style
	HeaderStyle     lipgloss.Style
	MetaStyle       lipgloss.Style
	DetailStyle     lipgloss.Style
	PopupStyle      lipgloss.Style
	PopupTitleStyle lipgloss.Style
)

// Color getter functions for use in components
func TextPrimary() lipgloss.Color    { return textPrimary }
func TextSecondary() lipgloss.Color  { return textSecondary }
func TextFaint() lipgloss.Color      { return textFaint }
func AccentColor() lipgloss.Color    { return accentColor }
func SuccessColor() lipgloss.Color   { return successColor }
func ErrorColor() lipgloss.Color     { return errorColor }
func HighlightColor() lipgloss.Color { return highlightColor }
func WarningColor() lipgloss.Color   { return warningColor }
func BgPrimary() lipgloss.Color      { return bgPrimary }
func CardBg() lipgloss.Color         { return cardBg }

// InitStyles initializes the global styles based on the provided configuration theme
func InitStyles(theme config.Theme) {
	// Initialize Colors
	textPrimary = lipgloss.Color(theme.TextPrimary)
	textSecondary = lipgloss.Color(theme.TextSecondary)
	textFaint = lipgloss.Color(theme.TextFaint)

	accentColor = lipgloss.Color(theme.Accent)
	successColor = lipgloss.Color(theme.Success)
	errorColor = lipgloss.Color(theme.Error)
	highlightColor = lipgloss.Color(theme.Highlight)
	warningColor = lipgloss.Color(theme.Warning)

	bgPrimary = lipgloss.Color(theme.BgPrimary)
	bgSecondary = lipgloss.Color(theme.BgSecondary)
	cardBg = lipgloss.Color(theme.CardBg)

	// Initialize Styles
	StatusBarStyle = lipgloss.NewStyle().
		Foreground(textPrimary).
		Background(bgSecondary)

	ModeStyle = lipgloss.NewStyle().
		Bold(true).
		Padding(0, 1).
		Background(successColor).
		Foreground(bgPrimary)

	PickerModeStyle = lipgloss.NewStyle().
		Bold(true).
		Padding(0, 1).
		Background(accentColor).
		Foreground(bgPrimary)

	ConnectionStyle = lipgloss.NewStyle().
		Padding(0, 1).
		Background(cardBg).
		Foreground(textPrimary)

	HeaderStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(accentColor)

	MetaStyle = lipgloss.NewStyle().
		Foreground(textFaint).
		Italic(true)

	DetailStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(textFaint).
		Padding(0, 1)

	PopupStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(highlightColor).
		Padding(0, 1)

	PopupTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(highlightColor)
}

// pickerStyles themes the search control's results panel.
func pickerStyles() search.Styles {
	return search.Styles{
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(textFaint).
			Padding(0, 1),
		Item: lipgloss.NewStyle().
			Foreground(textPrimary),
		Selected: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#000000")).
			Background(highlightColor).
			Bold(true),
		NoResults: lipgloss.NewStyle().
			Foreground(textFaint).
			Italic(true),
		Scroll: lipgloss.NewStyle().
			Foreground(textSecondary),
	}
}

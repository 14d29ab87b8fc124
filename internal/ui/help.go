package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	overlay "github.com/rmhubbert/bubbletea-overlay"

	"github.com/nhath/foodlog/internal/ui/components/search"
)

func (m Model) renderHelpPopup(main string) string {
	var content strings.Builder

	// Title
	title := lipgloss.NewStyle().Bold(true).Foreground(AccentColor()).Render("Keyboard Shortcuts")
	content.WriteString(title)
	content.WriteString("\n\n")

	keys := m.config.Keys

	// Section helper
	section := func(name string, bindings []struct{ key, desc string }) {
		header := lipgloss.NewStyle().Bold(true).Foreground(HighlightColor()).Render(name)
		content.WriteString(header + "\n")
		for _, b := range bindings {
			keyStyle := lipgloss.NewStyle().Foreground(SuccessColor()).Width(15)
			descStyle := lipgloss.NewStyle().Foreground(TextSecondary())
			content.WriteString(fmt.Sprintf("  %s %s\n", keyStyle.Render(b.key), descStyle.Render(b.desc)))
		}
		content.WriteString("\n")
	}

	section("Log", []struct{ key, desc string }{
		{joinKeys(keys.Up), "Move up"},
		{joinKeys(keys.Down), "Move down"},
		{joinKeys(keys.PrevDay), "Previous day"},
		{joinKeys(keys.NextDay), "Next day"},
		{joinKeys(keys.AddFood), "Log a food"},
		{joinKeys(keys.AddTag), "Tag the entry"},
		{joinKeys(keys.Delete), "Delete the entry"},
		{joinKeys(keys.Refresh), "Reload"},
	})

	var pickerKeys []struct{ key, desc string }
	for _, group := range search.DefaultKeyMap().FullHelp() {
		for _, b := range group {
			h := b.Help()
			pickerKeys = append(pickerKeys, struct{ key, desc string }{h.Key, h.Desc})
		}
	}
	pickerKeys = append(pickerKeys,
		struct{ key, desc string }{joinKeys(keys.Focus), "Switch between picker and log"},
		struct{ key, desc string }{joinKeys(keys.Dismiss), "Dismiss the picker"},
	)
	section("Pickers", pickerKeys)

	section("Other", []struct{ key, desc string }{
		{joinKeys(keys.Help), "Show this help"},
		{joinKeys(keys.Exit), "Quit"},
	})

	content.WriteString(lipgloss.NewStyle().Faint(true).Render("Press Esc or ? to close"))

	// Style popup
	popupBox := PopupStyle.
		Width(50).
		MaxHeight(m.height - 2).
		Render(content.String())

	return overlay.Composite(popupBox, main, overlay.Center, overlay.Center, 0, 0)
}

package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	overlay "github.com/rmhubbert/bubbletea-overlay"

	"github.com/nhath/foodlog/internal/ui/components/search"
	"github.com/nhath/foodlog/internal/ui/highlight"
)

// View renders the UI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	header := m.renderHeader()
	status := m.renderStatusBar()
	hints := m.renderKeyHints()

	bodyHeight := max(1, m.height-lipgloss.Height(header)-lipgloss.Height(status)-lipgloss.Height(hints))
	tableView := m.entryTable.Focused(!m.pickerFocused).View()
	detailWidth := max(20, m.width-lipgloss.Width(tableView)-1)
	body := lipgloss.NewStyle().Height(bodyHeight).MaxHeight(bodyHeight).Render(
		lipgloss.JoinHorizontal(lipgloss.Top, tableView, " ", m.renderDetail(detailWidth)),
	)

	main := lipgloss.JoinVertical(lipgloss.Left, header, body, status, hints)

	if m.picker != pickerNone {
		main = overlay.Composite(m.renderPicker(), main, overlay.Left, overlay.Top, pickerX, pickerY)
	}
	if m.showHelp {
		main = m.renderHelpPopup(main)
	}
	return main
}

func (m Model) renderHeader() string {
	title := HeaderStyle.Render("foodlog")
	day := m.day.Format("Mon 02 Jan 2006")
	if sameDay(m.day, m.now()) {
		day += " (today)"
	}
	return title + "  " + MetaStyle.Render(day)
}

// renderDetail shows the highlighted entry as JSON
func (m Model) renderDetail(width int) string {
	style := DetailStyle.Width(width - 2)
	entry, ok := m.selectedEntry()
	if !ok {
		return style.Render(MetaStyle.Render("No entry selected"))
	}
	doc, err := highlight.Value(entry)
	if err != nil {
		return style.Render(err.Error())
	}
	return style.Render(doc)
}

func (m Model) renderPicker() string {
	title := "Log food"
	if m.picker == pickerTag {
		title = "Tag entry"
	}

	var b strings.Builder
	b.WriteString(PopupTitleStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(m.pickerView())

	if hint := m.pickerHint(); hint != "" {
		b.WriteString("\n")
		b.WriteString(MetaStyle.Render(hint))
	}
	return PopupStyle.Width(pickerWidth).Render(b.String())
}

// pickerHint explains what Enter does while the results are closed
func (m Model) pickerHint() string {
	if m.pickerOpen() || !m.pickerFocused {
		return ""
	}
	q := strings.TrimSpace(m.pickerQuery)
	if q == "" {
		return ""
	}
	switch m.picker {
	case pickerFood:
		return fmt.Sprintf("enter: log %q", limitString(q, 30))
	case pickerTag:
		return fmt.Sprintf("enter: add tag %q", limitString(q, 30))
	}
	return ""
}

func (m Model) renderStatusBar() string {
	var parts []string

	// 1. Mode
	switch {
	case m.picker == pickerFood && m.pickerFocused:
		parts = append(parts, PickerModeStyle.Render("FOOD"))
	case m.picker == pickerTag && m.pickerFocused:
		parts = append(parts, PickerModeStyle.Render("TAG"))
	default:
		parts = append(parts, ModeStyle.Render("LOG"))
	}

	// 2. Connection Info
	if m.dsn != "" {
		parts = append(parts, ConnectionStyle.Render(limitString(m.dsn, 40)))
	}

	// 3. Loading indicator
	if m.loading {
		spinner := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
		frame := spinner[int(time.Now().UnixMilli()/100)%len(spinner)]
		loadingStyle := lipgloss.NewStyle().Foreground(AccentColor()).Padding(0, 1)
		parts = append(parts, loadingStyle.Render(frame+" Loading..."))
	}

	// 4. Status message (success/info)
	if m.statusMsg != "" {
		statusStyle := lipgloss.NewStyle().Background(SuccessColor()).Foreground(BgPrimary()).Padding(0, 1)
		parts = append(parts, statusStyle.Render("✓ "+m.statusMsg))
	}

	// 5. Error indicator
	if m.errorMsg != "" {
		errorStyle := lipgloss.NewStyle().Background(ErrorColor()).Foreground(TextPrimary()).Padding(0, 1)
		parts = append(parts, errorStyle.Render("⚠ "+limitString(m.errorMsg, 60)))
	}

	content := lipgloss.JoinHorizontal(lipgloss.Left, parts...)
	return StatusBarStyle.Width(m.width).Render(content)
}

func (m Model) renderKeyHints() string {
	keys := m.config.Keys
	var pairs [][2]string

	if m.picker != pickerNone && m.pickerFocused {
		for _, b := range search.DefaultKeyMap().ShortHelp() {
			pairs = append(pairs, bindingHint(b))
		}
		pairs = append(pairs,
			[2]string{joinKeys(keys.Focus), "back to log"},
			[2]string{joinKeys(keys.Dismiss), "dismiss"},
		)
	} else {
		pairs = [][2]string{
			{joinKeys(keys.AddFood), "log food"},
			{joinKeys(keys.AddTag), "tag"},
			{joinKeys(keys.Delete), "delete"},
			{joinKeys(keys.PrevDay) + "," + joinKeys(keys.NextDay), "day"},
			{joinKeys(keys.Help), "help"},
			{joinKeys(keys.Exit), "quit"},
		}
		if m.picker != pickerNone {
			pairs = append([][2]string{{joinKeys(keys.Focus), "back to picker"}}, pairs...)
		}
	}

	keyStyle := lipgloss.NewStyle().Foreground(SuccessColor())
	descStyle := lipgloss.NewStyle().Foreground(TextFaint())
	out := make([]string, len(pairs))
	for i, p := range pairs {
		out[i] = keyStyle.Render(p[0]) + " " + descStyle.Render(p[1])
	}
	return strings.Join(out, "  ")
}

func bindingHint(b key.Binding) [2]string {
	h := b.Help()
	return [2]string{h.Key, h.Desc}
}

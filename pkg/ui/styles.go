package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// ANSI palette indexes, so output follows the operator's terminal scheme
var (
	ColorSuccess = lipgloss.AdaptiveColor{Light: "2", Dark: "2"}
	ColorError   = lipgloss.AdaptiveColor{Light: "1", Dark: "1"}
	ColorPrimary = lipgloss.AdaptiveColor{Light: "5", Dark: "5"}
	ColorInfo    = lipgloss.AdaptiveColor{Light: "6", Dark: "6"}
	ColorMuted   = lipgloss.AdaptiveColor{Light: "8", Dark: "8"}
	ColorWarning = lipgloss.AdaptiveColor{Light: "3", Dark: "3"}
	ColorAccent  = lipgloss.AdaptiveColor{Light: "4", Dark: "4"}
	ColorDefault = lipgloss.AdaptiveColor{Light: "7", Dark: "7"}
)

// Styles are rebuilt by SetTheme
var (
	StyleSuccess lipgloss.Style
	StyleError   lipgloss.Style
	StylePrimary lipgloss.Style
	StyleInfo    lipgloss.Style
	StyleMuted   lipgloss.Style
	StyleWarning lipgloss.Style
	StyleAccent  lipgloss.Style
	StyleTitle   lipgloss.Style
	StyleBold    lipgloss.Style

	StyleTableHeader lipgloss.Style
	StyleTableRow    lipgloss.Style
	StyleTableRowAlt lipgloss.Style
	StyleTableBorder lipgloss.Style
)

// Result and message glyphs. IconSuccess/IconError/IconSkipped mark the
// three transfer outcomes in progress lines and summaries.
const (
	IconSuccess = "✔"
	IconError   = "✘"
	IconSkipped = "↷"
	IconRocket  = "🚀"
	IconInfo    = "ℹ"
	IconWarning = "⚠"
	IconVideo   = "🎬"
)

func init() {
	SetTheme("auto")
}

// SetTheme selects the background assumption for adaptive colors. "auto"
// leaves detection to lipgloss; unknown names behave like "auto".
func SetTheme(theme string) {
	switch theme {
	case "light":
		lipgloss.SetHasDarkBackground(false)
	case "dark":
		lipgloss.SetHasDarkBackground(true)
	}

	base := lipgloss.NewStyle()
	StyleSuccess = base.Foreground(ColorSuccess).Bold(true)
	StyleError = base.Foreground(ColorError).Bold(true)
	StylePrimary = base.Foreground(ColorPrimary).Bold(true)
	StyleInfo = base.Foreground(ColorInfo)
	StyleMuted = base.Foreground(ColorMuted)
	StyleWarning = base.Foreground(ColorWarning).Bold(true)
	StyleAccent = base.Foreground(ColorAccent)
	StyleTitle = StylePrimary.Underline(true)
	StyleBold = base.Bold(true)

	StyleTableHeader = StylePrimary.Align(lipgloss.Left)
	StyleTableRow = base.Foreground(ColorDefault)
	StyleTableRowAlt = StyleTableRow.Faint(true)
	StyleTableBorder = StyleMuted
}

func withIcon(style lipgloss.Style, icon, msg string) string {
	return style.Render(icon + " " + msg)
}

func FormatSuccess(msg string) string { return withIcon(StyleSuccess, IconSuccess, msg) }
func FormatError(msg string) string   { return withIcon(StyleError, IconError, msg) }
func FormatInfo(msg string) string    { return withIcon(StyleInfo, IconInfo, msg) }
func FormatWarning(msg string) string { return withIcon(StyleWarning, IconWarning, msg) }
func FormatSkipped(msg string) string { return withIcon(StyleMuted, IconSkipped, msg) }

// FormatRocket opens a batch or long-running command
func FormatRocket(msg string) string { return withIcon(StylePrimary, IconRocket, msg) }

func FormatTitle(title string) string { return StyleTitle.Render(title) }
func FormatMuted(text string) string  { return StyleMuted.Render(text) }

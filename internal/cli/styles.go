// Package cli provides styled terminal output using lipgloss.
package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/Veraticus/tally/internal/aggregate"
	"github.com/Veraticus/tally/internal/model"
)

var (
	// PrimaryColor is the main theme color.
	PrimaryColor = lipgloss.Color("#34C759")
	// SuccessColor indicates successful operations.
	SuccessColor = lipgloss.Color("#4ECDC4") // Teal
	// WarningColor indicates warnings or caution messages.
	WarningColor = lipgloss.Color("#FFE66D") // Yellow
	// ErrorColor indicates errors or failure messages.
	ErrorColor = lipgloss.Color("#FF6B6B") // Red
	// InfoColor indicates informational messages.
	InfoColor = lipgloss.Color("#95E1D3") // Light teal
	// SubtleColor indicates less prominent UI elements.
	SubtleColor = lipgloss.Color("#666666") // Gray

	// TitleStyle is used for section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor).
			MarginBottom(1)

	// SuccessStyle formats success messages.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor)

	// WarningStyle formats warning messages.
	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor)

	// ErrorStyle formats error messages.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor)

	// InfoStyle formats informational messages.
	InfoStyle = lipgloss.NewStyle().
			Foreground(InfoColor)

	// SubtleStyle formats less prominent text.
	SubtleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)

	// BoldStyle makes text bold.
	BoldStyle = lipgloss.NewStyle().
			Bold(true)

	// BoxStyle is used for bordered content boxes.
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#333")).
			Padding(1, 2)

	// TableHeaderStyle is used for table headers.
	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("86"))

	// PromptStyle is used for user prompts.
	PromptStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor)
)

// Icons.
const (
	SuccessIcon = "✓"
	ErrorIcon   = "✗"
	WarningIcon = "⚠️"
	InfoIcon    = "ℹ️"
	TallyIcon   = "🧾"
	ChartIcon   = "📊"
	FolderIcon  = "🗄️"
)

// FormatSuccess formats a success message with icon.
func FormatSuccess(message string) string {
	return SuccessStyle.Render(SuccessIcon + " " + message)
}

// FormatError formats an error message with icon.
func FormatError(message string) string {
	return ErrorStyle.Render(ErrorIcon + " " + message)
}

// FormatWarning formats a warning message with icon.
func FormatWarning(message string) string {
	return WarningStyle.Render(WarningIcon + " " + message)
}

// FormatInfo formats an info message with icon.
func FormatInfo(message string) string {
	return InfoStyle.Render(InfoIcon + " " + message)
}

// FormatTitle formats a title with the app icon.
func FormatTitle(title string) string {
	return TitleStyle.Render(TallyIcon + " " + title)
}

// FormatPrompt formats a prompt message.
func FormatPrompt(prompt string) string {
	return PromptStyle.Render(prompt + " → ")
}

// RenderBox renders content in a styled box.
func RenderBox(title, content string) string {
	boxTitle := TitleStyle.
		UnsetMargins().
		Render(title)

	boxContent := lipgloss.JoinVertical(
		lipgloss.Left,
		boxTitle,
		content,
	)

	return BoxStyle.Render(boxContent)
}

// FormatAmount renders money with two decimals.
func FormatAmount(amount decimal.Decimal) string {
	return "$" + amount.StringFixed(2)
}

// FormatCategory renders a category name in its palette color.
func FormatCategory(cat model.Category) string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(cat.Color.Hex())).
		Render(cat.Name)
}

// FormatChange renders a period difference with its sign and percentage.
// Spending more than before is shown as a warning.
func FormatChange(cmp aggregate.PeriodComparison) string {
	sign := "+"
	style := WarningStyle
	if cmp.Difference.IsNegative() {
		sign = "-"
		style = SuccessStyle
	}
	text := fmt.Sprintf("%s%s", sign, FormatAmount(cmp.Difference.Abs()))
	if cmp.Previous.IsPositive() {
		text += fmt.Sprintf(" (%+.1f%%)", cmp.PercentChange)
	}
	return style.Render(text)
}

// BudgetStyle picks the style matching a budget's threshold state.
func BudgetStyle(p aggregate.Progress) lipgloss.Style {
	switch {
	case p.Warning:
		return ErrorStyle
	case p.Alert:
		return WarningStyle
	default:
		return SuccessStyle
	}
}

// Gauge draws a fixed-width bar filled to pct percent, capped at full.
func Gauge(pct float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := int(pct/100*float64(width) + 0.5)
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}
	return "[" + strings.Repeat("█", filled) + strings.Repeat("·", width-filled) + "]"
}

// BarWidth scales value against maxValue onto width cells. A non-positive
// maximum yields zero.
func BarWidth(value, maxValue decimal.Decimal, width int) int {
	if !maxValue.IsPositive() || width <= 0 {
		return 0
	}
	cells := value.Div(maxValue).Mul(decimal.NewFromInt(int64(width))).Round(0).IntPart()
	if cells < 0 {
		return 0
	}
	if cells > int64(width) {
		return width
	}
	return int(cells)
}

// Package fancy provides pretty printing utilities and styling for CLI output
package fancy

import (
	"github.com/charmbracelet/lipgloss"
)

// Common colors for different types of elements
var (
	ColorBlue     = lipgloss.Color("39")  // Blue
	ColorGreen    = lipgloss.Color("82")  // Green
	ColorYellow   = lipgloss.Color("228") // Yellow
	ColorCyan     = lipgloss.Color("45")  // Cyan
	ColorRed      = lipgloss.Color("196") // Red
	ColorGray     = lipgloss.Color("250") // Light gray
	ColorWhite    = lipgloss.Color("15")  // White
	ColorDarkGray = lipgloss.Color("240") // Dark gray for branches
)

// Common styles that can be used across the application
var (
	RootStyle = lipgloss.NewStyle().
			Foreground(ColorBlue).
			Bold(true)

	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorWhite).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(ColorGray).
			Italic(true)

	BranchStyle = lipgloss.NewStyle().
			Foreground(ColorDarkGray)

	ToolStyle = lipgloss.NewStyle().
			Foreground(ColorGreen)

	ResourceStyle = lipgloss.NewStyle().
			Foreground(ColorCyan)

	MIMEStyle = lipgloss.NewStyle().
			Foreground(ColorYellow)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorRed)
)

// ToolText styles a tool name
func ToolText(text string) string {
	return ToolStyle.Render(text)
}

// ResourceText styles a resource URI
func ResourceText(text string) string {
	return ResourceStyle.Render(text)
}

// MIMEText styles a MIME type annotation
func MIMEText(text string) string {
	return MIMEStyle.Render(text)
}

// Validation-specific styling functions

// ValidText styles valid status text (green)
func ValidText(text string) string {
	return ToolStyle.Render(text)
}

// ErrorText styles error text (red)
func ErrorText(text string) string {
	return ErrorStyle.Render(text)
}

// PathText styles file paths (gray)
func PathText(text string) string {
	return InfoStyle.Render(text)
}

// CountText styles count numbers (cyan)
func CountText(text string) string {
	return ResourceStyle.Render(text)
}

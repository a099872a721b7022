package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// OK prints a success line to w.
func OK(w io.Writer, msg string) {
	fmt.Fprintln(w, current.Success.Render(current.SymOK+" "+msg))
}

// Fail prints an error line to w.
func Fail(w io.Writer, msg string) {
	fmt.Fprintln(w, current.Error.Render(current.SymFail+" "+msg))
}

// Panel frames lines in the theme's border.
func Panel(w io.Writer, lines []string) {
	box := lipgloss.NewStyle().
		Border(current.Border).
		BorderForeground(current.BorderColor).
		Padding(0, 1)
	fmt.Fprintln(w, box.Render(strings.Join(lines, "\n")))
}

// ProgressBar renders done out of total as a bar width cells wide.
func ProgressBar(done, total, width int) string {
	if total <= 0 {
		total = 1
	}
	if width < 5 {
		width = 5
	}
	done = max(0, min(done, total))
	filled := done * width / total
	pct := done * 100 / total
	return fmt.Sprintf("%s%s %3d%%",
		current.Success.Render(strings.Repeat(current.BarFull, filled)),
		current.Muted.Render(strings.Repeat(current.BarEmpty, width-filled)),
		pct)
}

package output

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	isatty "github.com/mattn/go-isatty"
)

var (
	styleArrow   = lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true)  // cyan/blue
	styleSection = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true)  // bright white
	styleWarnLbl = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true) // yellow
	styleWarnTxt = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))            // yellow
	styleErrLbl  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true) // red
	styleNote    = lipgloss.NewStyle().Foreground(lipgloss.Color("45")).Faint(true) // teal dim
	styleSaved   = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)  // green
	colorEnabled = true
)

// InitConsole configures color output based on noColor flag and TTY detection.
// Warnings go to stderr, so that is the descriptor checked.
func InitConsole(noColor bool) {
	tty := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	colorEnabled = tty && !noColor
}

func r(st lipgloss.Style, s string) string {
	if !colorEnabled {
		return s
	}
	return st.Render(s)
}

// SectionHeader returns a colored header line, e.g. for the tool being called.
func SectionHeader(name string) string {
	return fmt.Sprintf("%s %s", r(styleArrow, "→"), r(styleSection, name))
}

// Warnf returns a single-line colored warning string with a standard prefix.
func Warnf(format string, a ...interface{}) string {
	msg := fmt.Sprintf(format, a...)
	return r(styleWarnLbl, "Warning:") + " " + r(styleWarnTxt, msg)
}

// Errorf formats err for the terminal
func Errorf(format string, a ...interface{}) string {
	return r(styleErrLbl, "Error:") + " " + fmt.Sprintf(format, a...)
}

// Notef returns a faint informational line
func Notef(format string, a ...interface{}) string {
	return r(styleNote, fmt.Sprintf(format, a...))
}

func Saved(path string) string {
	return r(styleSaved, "Result saved to "+path)
}

// ShortError condenses a multi-line error into its last meaningful line.
func ShortError(err error) string {
	if err == nil {
		return ""
	}
	lines := strings.Split(err.Error(), "\n")
	var candidate string
	for _, ln := range lines {
		if t := strings.TrimSpace(ln); t != "" {
			candidate = t
		}
	}
	return candidate
}

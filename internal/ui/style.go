package ui

import (
	"io/fs"

	"github.com/charmbracelet/lipgloss"
)

var (
	dirStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	symlinkStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	execStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	pipeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	deviceStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
)

// Colorize renders name with the conventional ls color for its file type.
// With enabled false the name passes through untouched.
func Colorize(name string, mode fs.FileMode, enabled bool) string {
	if !enabled {
		return name
	}
	switch {
	case mode.IsDir():
		return dirStyle.Render(name)
	case mode&fs.ModeSymlink != 0:
		return symlinkStyle.Render(name)
	case mode&fs.ModeNamedPipe != 0:
		return pipeStyle.Render(name)
	case mode&fs.ModeDevice != 0:
		return deviceStyle.Render(name)
	case mode.Perm()&0o111 != 0:
		return execStyle.Render(name)
	default:
		return name
	}
}

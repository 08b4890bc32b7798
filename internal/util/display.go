package util

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

const (
	ColorReset  = "\033[0m"
	ColorCyan   = "\033[36m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorBold   = "\033[1m"
)

// ColorEnabled reports whether w is a terminal that should receive ANSI
// colours. NO_COLOR disables colour everywhere.
func ColorEnabled(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// GetDisplayWidth calculates the display width of a string
func GetDisplayWidth(text string) int {
	return runewidth.StringWidth(text)
}

// PadString pads s with spaces to the given display width
func PadString(s string, width int, leftAlign bool) string {
	actual := GetDisplayWidth(s)
	if actual >= width {
		return s
	}
	padding := strings.Repeat(" ", width-actual)
	if leftAlign {
		return s + padding
	}
	return padding + s
}

// Colorize wraps text in the given colour codes when enabled
func Colorize(text string, enabled bool, codes ...string) string {
	if !enabled || len(codes) == 0 {
		return text
	}
	return fmt.Sprintf("%s%s%s", strings.Join(codes, ""), text, ColorReset)
}

// FormatSectionTitle formats report section titles (Green + Bold)
func FormatSectionTitle(title string, color bool) string {
	return Colorize(title, color, ColorBold, ColorGreen)
}

// FormatNote formats explanatory notes (Yellow)
func FormatNote(note string, color bool) string {
	return Colorize(note, color, ColorYellow)
}

// FormatSectionSeparator returns a horizontal rule of the given width
func FormatSectionSeparator(width int, color bool) string {
	return Colorize(strings.Repeat("─", width), color, ColorBold, ColorCyan)
}

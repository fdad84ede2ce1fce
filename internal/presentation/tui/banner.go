package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the envguard banner, shaded from indigo to pink.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"  ___ _ ___ ____ _ _  _ __ _ _ __ __| |", "#818cf8"},
		{" / -_) ' \\ V / _` | || / _` | '_/ _` |", "#c084fc"},
		{" \\___|_||_\\_/\\__, |\\_,_\\__,_|_| \\__,_|", "#e879f9"},
		{"             |___/", "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	if version != "" {
		fmt.Fprintln(w, termenv.String("  v"+version).Faint())
	}
	fmt.Fprintln(w)
}

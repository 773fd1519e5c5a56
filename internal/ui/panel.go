package ui

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/todosync/internal/model"
)

var ansiRegexp = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string { return ansiRegexp.ReplaceAllString(s, "") }

const maxDescription = 80

// Panel draws a framed box using the current theme.
func Panel(w io.Writer, lines []string) {
	t := Current()
	maxw := 0
	for _, ln := range lines {
		if vis := lipgloss.Width(stripANSI(ln)); vis > maxw {
			maxw = vis
		}
	}
	pad := func(s string) string {
		if vis := lipgloss.Width(stripANSI(s)); vis < maxw {
			s += strings.Repeat(" ", maxw-vis)
		}
		return s
	}
	fmt.Fprintln(w, t.CornerTL+strings.Repeat(t.H, maxw+2)+t.CornerTR)
	for _, ln := range lines {
		fmt.Fprintln(w, t.V+" "+pad(ln)+" "+t.V)
	}
	fmt.Fprintln(w, t.CornerBL+strings.Repeat(t.H, maxw+2)+t.CornerBR)
}

// ListLines renders the header and one "#id  description" row per item.
func ListLines(w io.Writer, title string, items []model.Item) []string {
	t := Current()
	lines := []string{
		fmt.Sprintf("%s  %s %d",
			colorFor(w, t.Title, title),
			colorFor(w, t.Accent, "Total"), len(items)),
		"",
	}
	if len(items) == 0 {
		return append(lines, colorFor(w, t.Muted, "no todos"))
	}
	idWidth := 1
	for _, it := range items {
		if n := len(fmt.Sprint(it.ID)); n > idWidth {
			idWidth = n
		}
	}
	for _, it := range items {
		desc := it.Description
		if len([]rune(desc)) > maxDescription {
			desc = string([]rune(desc)[:maxDescription-3]) + "..."
		}
		if desc == "" {
			desc = colorFor(w, t.Muted, "(empty)")
		}
		id := fmt.Sprintf("#%-*d", idWidth, it.ID)
		lines = append(lines, fmt.Sprintf("%s %s %s", colorFor(w, t.Muted, t.Bullet), colorFor(w, t.ID, id), desc))
	}
	return lines
}

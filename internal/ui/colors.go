package ui

import (
	"github.com/charmbracelet/lipgloss"
)

var styles = NewPalette("#FFD400", "#04B575", "#FF0000", "#FFA500", "#626262")

// interface Painter defines coloring text with [lipgloss] styles
type Painter interface {
	On(string, lipgloss.Color) string // Sets background color
	As(string, lipgloss.Color) string // Sets foreground color
}

var _ Painter = (*Palette)(nil)

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
}

func NewPalette(t, s, e, w, h string) *Palette {
	return &Palette{
		title: NewBold(t).MarginBottom(1),
		ok:    NewBold(s),
		err:   NewBold(e),
		warn:  NewStyle(w),
		help:  NewEm(h),
	}
}

func (p *Palette) On(s string, c lipgloss.Color) string {
	return lipgloss.NewStyle().Background(c).Render(s)
}

func (p *Palette) As(s string, c lipgloss.Color) string {
	return lipgloss.NewStyle().Foreground(c).Render(s)
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}

// Info renders a one-shot informational notice.
func Info(msg string) string {
	return styles.ok.Render("✓") + " " + msg
}

// Warning renders a one-shot warning notice, used for cancelled actions.
func Warning(msg string) string {
	return styles.warn.Render("! " + msg)
}

// Error renders a one-shot error notice.
func Error(msg string) string {
	return styles.err.Render("✗ " + msg)
}

// Title renders a section heading.
func Title(s string) string {
	return styles.title.Render(s)
}

// Muted renders secondary text.
func Muted(s string) string {
	return styles.help.Render(s)
}

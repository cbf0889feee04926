package main

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/ideamans/go-sheetfix"
)

type styles struct {
	base     lipgloss.Style
	header   lipgloss.Style
	selected lipgloss.Style
	editing  lipgloss.Style
	match    lipgloss.Style
	border   lipgloss.Style
	status   lipgloss.Style
	message  lipgloss.Style
	err      lipgloss.Style
	cursor   lipgloss.Style
	types    map[sheetfix.ColumnType]lipgloss.Style
}

func newStyles(r *lipgloss.Renderer, colors map[sheetfix.ColumnType]lipgloss.Color) styles {
	base := r.NewStyle().Padding(0, 1)
	s := styles{
		base:     base,
		header:   base.Foreground(lipgloss.Color("252")).Bold(true),
		selected: base.Foreground(lipgloss.Color("#01BE85")).Background(lipgloss.Color("#00432F")),
		editing:  base.Foreground(lipgloss.Color("#1A1B26")).Background(lipgloss.Color("#E0AF68")),
		match:    base.Foreground(lipgloss.Color("#1A1B26")).Background(lipgloss.Color("#7DCFFF")),
		border:   r.NewStyle().Foreground(lipgloss.Color("238")),
		status:   r.NewStyle().Foreground(lipgloss.Color("245")),
		message:  r.NewStyle().Foreground(lipgloss.Color("#9ECE6A")),
		err:      r.NewStyle().Foreground(lipgloss.Color("#F7768E")).Bold(true),
		cursor:   r.NewStyle().Foreground(lipgloss.Color("#01BE85")).Bold(true),
		types:    make(map[sheetfix.ColumnType]lipgloss.Style, len(colors)),
	}
	for t, c := range colors {
		s.types[t] = base.Foreground(c)
	}
	return s
}

func (s styles) forType(t sheetfix.ColumnType) lipgloss.Style {
	if st, ok := s.types[t]; ok {
		return st
	}
	return s.base
}

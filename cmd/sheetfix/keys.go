package main

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

func defaultHotkeys() map[string][]string {
	return map[string][]string{
		"Up":             {"up", "k"},
		"Down":           {"down", "j"},
		"Left":           {"left", "h"},
		"Right":          {"right", "l"},
		"PageUp":         {"pgup", "ctrl+b"},
		"PageDown":       {"pgdown", "ctrl+f"},
		"Top":            {"home", "g"},
		"Bottom":         {"end", "G"},
		"Edit":           {"enter", "e"},
		"Confirm":        {"enter"},
		"Cancel":         {"esc"},
		"NextField":      {"tab"},
		"PrevField":      {"shift+tab"},
		"Search":         {"/"},
		"NextMatch":      {"n"},
		"PrevMatch":      {"N"},
		"Replace":        {"r"},
		"ReplaceAll":     {"R"},
		"Undo":           {"u", "ctrl+z"},
		"Redo":           {"ctrl+r", "ctrl+y"},
		"Sort":           {"s"},
		"InsertRow":      {"o"},
		"InsertRowAbove": {"O"},
		"DeleteRow":      {"X"},
		"InsertColumn":   {"+"},
		"DeleteColumn":   {"-"},
		"RenameColumn":   {"c"},
		"Repair":         {"t"},
		"AutoRepair":     {"a"},
		"Diff":           {"d"},
		"Query":          {":"},
		"Export":         {"w", "ctrl+s"},
		"Copy":           {"y"},
		"Help":           {"?"},
		"Quit":           {"q", "ctrl+c"},
	}
}

// keyMap defines keybindings for the grid and its prompts
type keyMap struct {
	Up             key.Binding
	Down           key.Binding
	Left           key.Binding
	Right          key.Binding
	PageUp         key.Binding
	PageDown       key.Binding
	Top            key.Binding
	Bottom         key.Binding
	Edit           key.Binding
	Confirm        key.Binding
	Cancel         key.Binding
	NextField      key.Binding
	PrevField      key.Binding
	Search         key.Binding
	NextMatch      key.Binding
	PrevMatch      key.Binding
	Replace        key.Binding
	ReplaceAll     key.Binding
	Undo           key.Binding
	Redo           key.Binding
	Sort           key.Binding
	InsertRow      key.Binding
	InsertRowAbove key.Binding
	DeleteRow      key.Binding
	InsertColumn   key.Binding
	DeleteColumn   key.Binding
	RenameColumn   key.Binding
	Repair         key.Binding
	AutoRepair     key.Binding
	Diff           key.Binding
	Query          key.Binding
	Export         key.Binding
	Copy           key.Binding
	Help           key.Binding
	Quit           key.Binding
}

func newKeyMap(hotkeys map[string][]string) keyMap {
	bind := func(name, desc string) key.Binding {
		keys := hotkeys[name]
		return key.NewBinding(
			key.WithKeys(keys...),
			key.WithHelp(strings.Join(keys, "/"), desc),
		)
	}

	return keyMap{
		Up:             bind("Up", "up"),
		Down:           bind("Down", "down"),
		Left:           bind("Left", "left"),
		Right:          bind("Right", "right"),
		PageUp:         bind("PageUp", "page up"),
		PageDown:       bind("PageDown", "page down"),
		Top:            bind("Top", "first row"),
		Bottom:         bind("Bottom", "last row"),
		Edit:           bind("Edit", "edit cell"),
		Confirm:        bind("Confirm", "confirm"),
		Cancel:         bind("Cancel", "cancel"),
		NextField:      bind("NextField", "commit, next column"),
		PrevField:      bind("PrevField", "commit, previous column"),
		Search:         bind("Search", "search"),
		NextMatch:      bind("NextMatch", "next match"),
		PrevMatch:      bind("PrevMatch", "prev match"),
		Replace:        bind("Replace", "replace match"),
		ReplaceAll:     bind("ReplaceAll", "replace all"),
		Undo:           bind("Undo", "undo"),
		Redo:           bind("Redo", "redo"),
		Sort:           bind("Sort", "sort column"),
		InsertRow:      bind("InsertRow", "insert row below"),
		InsertRowAbove: bind("InsertRowAbove", "insert row above"),
		DeleteRow:      bind("DeleteRow", "delete row"),
		InsertColumn:   bind("InsertColumn", "insert column"),
		DeleteColumn:   bind("DeleteColumn", "delete column"),
		RenameColumn:   bind("RenameColumn", "rename column"),
		Repair:         bind("Repair", "repair templates"),
		AutoRepair:     bind("AutoRepair", "auto repair"),
		Diff:           bind("Diff", "show changes"),
		Query:          bind("Query", "query"),
		Export:         bind("Export", "export"),
		Copy:           bind("Copy", "copy cell"),
		Help:           bind("Help", "toggle help"),
		Quit:           bind("Quit", "quit"),
	}
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Edit, k.Search, k.Undo, k.Export, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.PageUp, k.PageDown, k.Top, k.Bottom},
		{k.Edit, k.NextField, k.PrevField, k.Undo, k.Redo, k.Copy},
		{k.Search, k.NextMatch, k.PrevMatch, k.Replace, k.ReplaceAll},
		{k.Sort, k.InsertRow, k.InsertRowAbove, k.DeleteRow, k.InsertColumn, k.DeleteColumn, k.RenameColumn},
		{k.Repair, k.AutoRepair, k.Diff, k.Query, k.Export},
		{k.Help, k.Quit},
	}
}

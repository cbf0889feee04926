package main

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/ideamans/go-sheetfix"
)

func TestLoadUIConfig(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string // empty: no file
		want    *UIConfig
		wantErr bool
	}{
		{
			name: "missing file",
			want: &UIConfig{},
		},
		{
			name:    "colors and hotkeys",
			content: `{"Colors": {"email": "#FF0000"}, "Hotkeys": {"Undo": ["z"]}, "Unknown": 1}`,
			want: &UIConfig{
				Colors:  map[string]string{"email": "#FF0000"},
				Hotkeys: map[string][]string{"Undo": {"z"}},
			},
		},
		{
			name:    "invalid json",
			content: `{"Colors": `,
			wantErr: true,
		},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, "config", string(rune('a'+i))+".json")
			if tt.content != "" {
				if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
					t.Fatal(err)
				}
				if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
					t.Fatal(err)
				}
			}

			got, err := loadUIConfig(path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("loadUIConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("loadUIConfig() = %+v, want %+v", got, tt.want)
			}
		})
	}

	if got, err := loadUIConfig(""); err != nil || !reflect.DeepEqual(got, &UIConfig{}) {
		t.Errorf("loadUIConfig(\"\") = %+v, %v", got, err)
	}
}

func TestApplyColors(t *testing.T) {
	defaults := defaultColors()
	config := &UIConfig{Colors: map[string]string{
		"email":  "#FF0000",
		"number": "",
		"bogus":  "#00FF00",
	}}

	got := applyColors(config, defaults)

	if got[sheetfix.TypeEmail] != lipgloss.Color("#FF0000") {
		t.Errorf("email color = %v", got[sheetfix.TypeEmail])
	}
	if got[sheetfix.TypeNumber] != defaults[sheetfix.TypeNumber] {
		t.Errorf("empty override replaced the default: %v", got[sheetfix.TypeNumber])
	}
	if len(got) != len(defaults) {
		t.Errorf("applyColors() has %d entries, want %d", len(got), len(defaults))
	}
	if defaults[sheetfix.TypeEmail] == lipgloss.Color("#FF0000") {
		t.Error("applyColors() modified the defaults")
	}
	for _, typ := range columnTypes {
		if _, ok := defaults[typ]; !ok {
			t.Errorf("no default color for %s", typ)
		}
	}
}

func TestApplyHotkeys(t *testing.T) {
	defaults := defaultHotkeys()
	config := &UIConfig{Hotkeys: map[string][]string{
		"Undo":   {"z"},
		"Redo":   {},
		"Launch": {"L"},
	}}

	got := applyHotkeys(config, defaults)

	if !reflect.DeepEqual(got["Undo"], []string{"z"}) {
		t.Errorf("Undo = %v", got["Undo"])
	}
	if !reflect.DeepEqual(got["Redo"], defaults["Redo"]) {
		t.Errorf("empty override replaced Redo: %v", got["Redo"])
	}
	if _, ok := got["Launch"]; ok {
		t.Error("unknown binding added")
	}

	keys := newKeyMap(got)
	z := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("z")}
	u := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("u")}
	if !key.Matches(z, keys.Undo) || key.Matches(u, keys.Undo) {
		t.Error("Undo binding does not follow the config")
	}
	if keys.Undo.Help().Key != "z" {
		t.Errorf("Undo help key = %q", keys.Undo.Help().Key)
	}
}

func TestKeyMap_EveryBindingHasKeys(t *testing.T) {
	keys := newKeyMap(defaultHotkeys())
	for _, group := range keys.FullHelp() {
		for _, b := range group {
			if len(b.Keys()) == 0 {
				t.Errorf("binding %q has no keys", b.Help().Desc)
			}
		}
	}
}

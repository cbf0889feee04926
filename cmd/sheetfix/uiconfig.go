package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/ideamans/go-sheetfix"
)

// UIConfig is read from ~/.sheetfix.json. Every field is optional.
//
//	{
//	  "Colors": {"email": "#BB9AF7", "number": "33"},
//	  "Hotkeys": {"Undo": ["u"], "Quit": ["q", "ctrl+c"]}
//	}
type UIConfig struct {
	Colors  map[string]string   `json:"Colors,omitempty"`  // column type -> lipgloss color
	Hotkeys map[string][]string `json:"Hotkeys,omitempty"` // binding name -> keys
}

func uiConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".sheetfix.json")
}

// loadUIConfig reads path. A missing file yields an empty config.
func loadUIConfig(path string) (*UIConfig, error) {
	if path == "" {
		return &UIConfig{}, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &UIConfig{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %v", path, err)
	}

	var config UIConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %v", path, err)
	}
	return &config, nil
}

var columnTypes = []sheetfix.ColumnType{
	sheetfix.TypeText,
	sheetfix.TypeNumber,
	sheetfix.TypeCurrency,
	sheetfix.TypeDate,
	sheetfix.TypeEmail,
	sheetfix.TypeURL,
	sheetfix.TypePhone,
}

func defaultColors() map[sheetfix.ColumnType]lipgloss.Color {
	return map[sheetfix.ColumnType]lipgloss.Color{
		sheetfix.TypeText:     lipgloss.Color("252"),
		sheetfix.TypeNumber:   lipgloss.Color("#7AA2F7"),
		sheetfix.TypeCurrency: lipgloss.Color("#9ECE6A"),
		sheetfix.TypeDate:     lipgloss.Color("#E0AF68"),
		sheetfix.TypeEmail:    lipgloss.Color("#BB9AF7"),
		sheetfix.TypeURL:      lipgloss.Color("#7DCFFF"),
		sheetfix.TypePhone:    lipgloss.Color("#FF9E64"),
	}
}

// applyColors overrides defaults with configured colors. Unknown type
// names and empty values are ignored.
func applyColors(config *UIConfig, defaults map[sheetfix.ColumnType]lipgloss.Color) map[sheetfix.ColumnType]lipgloss.Color {
	colors := make(map[sheetfix.ColumnType]lipgloss.Color, len(defaults))
	for k, v := range defaults {
		colors[k] = v
	}
	for _, t := range columnTypes {
		if c := config.Colors[string(t)]; c != "" {
			colors[t] = lipgloss.Color(c)
		}
	}
	return colors
}

// applyHotkeys overrides default bindings by name. Unknown names and empty
// key lists are ignored.
func applyHotkeys(config *UIConfig, defaults map[string][]string) map[string][]string {
	hotkeys := make(map[string][]string, len(defaults))
	for k, v := range defaults {
		hotkeys[k] = v
	}
	for name, keys := range config.Hotkeys {
		if _, ok := defaults[name]; ok && len(keys) > 0 {
			hotkeys[name] = keys
		}
	}
	return hotkeys
}

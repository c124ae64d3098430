package tui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

// Palette colours. Skins replace these before the program starts.
var (
	ColorBlue   = lipgloss.Color("#3B82F6")
	ColorGray   = lipgloss.Color("#6B7280")
	ColorNavy   = lipgloss.Color("#1E293B")
	ColorWhite  = lipgloss.Color("#F8FAFC")
	ColorRed    = lipgloss.Color("#EF4444")
	ColorOrange = lipgloss.Color("#F97316")
	ColorGreen  = lipgloss.Color("#22C55E")
	ColorYellow = lipgloss.Color("#EAB308")
)

var (
	sectionStyle       lipgloss.Style
	activeSectionStyle lipgloss.Style
	deckTitleStyle     lipgloss.Style
	helpStyle          lipgloss.Style
	selectedRowStyle   lipgloss.Style
)

func init() {
	rebuildStyles()
}

// rebuildStyles derives the shared styles from the palette colours.
func rebuildStyles() {
	sectionStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorGray)
	activeSectionStyle = sectionStyle.
		BorderForeground(ColorBlue)
	deckTitleStyle = lipgloss.NewStyle().
		Foreground(ColorBlue).
		Bold(true)
	helpStyle = lipgloss.NewStyle().
		Foreground(ColorGray).
		Italic(true)
	selectedRowStyle = lipgloss.NewStyle().
		Background(ColorBlue).
		Foreground(ColorWhite)
}

// Skin overrides palette colours. Empty fields keep the built-in value.
type Skin struct {
	Name   string `yaml:"name"`
	Colors struct {
		Primary   string `yaml:"primary"`
		Muted     string `yaml:"muted"`
		StatusBar string `yaml:"status_bar"`
		Text      string `yaml:"text"`
		Error     string `yaml:"error"`
		Warning   string `yaml:"warning"`
		Success   string `yaml:"success"`
		Highlight string `yaml:"highlight"`
	} `yaml:"colors"`
}

// InitializeSkin loads <configDir>/skins/<name>.yml and applies it. The
// "default" skin is built in and never read from disk.
func InitializeSkin(name, configDir string) error {
	if name == "" || name == "default" {
		rebuildStyles()
		return nil
	}

	path := filepath.Join(configDir, "skins", name+".yml")
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("skin %q not found at %s", name, path)
		}
		return fmt.Errorf("reading skin %s: %w", path, err)
	}

	skin, err := parseSkin(data)
	if err != nil {
		return fmt.Errorf("parsing skin %s: %w", path, err)
	}
	applySkin(skin)
	return nil
}

func parseSkin(data []byte) (Skin, error) {
	var skin Skin
	if err := yaml.Unmarshal(data, &skin); err != nil {
		return Skin{}, err
	}
	return skin, nil
}

func applySkin(skin Skin) {
	set := func(dst *lipgloss.Color, v string) {
		if v != "" {
			*dst = lipgloss.Color(v)
		}
	}
	set(&ColorBlue, skin.Colors.Primary)
	set(&ColorGray, skin.Colors.Muted)
	set(&ColorNavy, skin.Colors.StatusBar)
	set(&ColorWhite, skin.Colors.Text)
	set(&ColorRed, skin.Colors.Error)
	set(&ColorOrange, skin.Colors.Warning)
	set(&ColorGreen, skin.Colors.Success)
	set(&ColorYellow, skin.Colors.Highlight)
	rebuildStyles()
}

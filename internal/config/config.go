package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/lipgloss"
)

type Theme struct {
	Background       string `toml:"background"`
	LiteralColor     string `toml:"literal_color"`
	EscapeColor      string `toml:"escape_color"`
	PlaceholderColor string `toml:"placeholder_color"`
	CaretBackground  string `toml:"caret_background"`
	MarkBackground   string `toml:"mark_background"`
	ActiveBorder     string `toml:"active_border"`
	InactiveBorder   string `toml:"inactive_border"`
	OffsetColor      string `toml:"offset_color"`
	StatusBackground string `toml:"status_background"`
	ErrorColor       string `toml:"error_color"`
	LegendHighlight  string `toml:"legend_highlight"`
}

type Layout struct {
	Rows        int `toml:"rows"`
	BytesPerRow int `toml:"bytes_per_row"`
	// VisibleRows limits how many rows each pane shows; 0 follows the
	// terminal height.
	VisibleRows int `toml:"visible_rows"`
}

type Log struct {
	File   string `toml:"file"`
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type Config struct {
	TempDir string `toml:"temp_dir"`
	Layout  Layout `toml:"layout"`
	Log     Log    `toml:"log"`
	Theme   Theme  `toml:"theme"`
}

func DefaultConfig() *Config {
	return &Config{
		Layout: Layout{
			Rows:        25,
			BytesPerRow: 16,
		},
		Log: Log{
			Level:  "info",
			Format: "text",
		},
		Theme: Theme{
			Background:       "#000000",
			LiteralColor:     "#FFFFFF",
			EscapeColor:      "#5F87FF",
			PlaceholderColor: "#00AF00",
			CaretBackground:  "#0000FF",
			MarkBackground:   "#808080",
			ActiveBorder:     "#FF00FF",
			InactiveBorder:   "#444444",
			OffsetColor:      "#888888",
			StatusBackground: "#0000FF",
			ErrorColor:       "#FF0000",
			LegendHighlight:  "#FF0000",
		},
	}
}

func ConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "dualhex.toml"
	}
	return filepath.Join(home, ".config", "dualhex", "dualhex.toml")
}

// Load reads the config from ConfigPath.
func Load() (*Config, error) {
	return LoadFile(ConfigPath())
}

// LoadFile decodes path over the defaults. A missing file is not an error; a
// malformed one returns the defaults together with the decode error.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return DefaultConfig(), err
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	var errs []error
	if c.Layout.Rows < 3 {
		errs = append(errs, fmt.Errorf("layout.rows must be at least 3, got %d", c.Layout.Rows))
	}
	if c.Layout.BytesPerRow < 1 {
		errs = append(errs, fmt.Errorf("layout.bytes_per_row must be positive, got %d", c.Layout.BytesPerRow))
	}
	if c.Layout.VisibleRows < 0 {
		errs = append(errs, fmt.Errorf("layout.visible_rows must not be negative, got %d", c.Layout.VisibleRows))
	}
	return errors.Join(errs...)
}

func (c *Config) Save() error {
	return c.SaveFile(ConfigPath())
}

func (c *Config) SaveFile(path string) error {
	dir := filepath.Dir(path)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(c)
}

type Styles struct {
	Background      lipgloss.Style
	Literal         lipgloss.Style
	Escape          lipgloss.Style
	Placeholder     lipgloss.Style
	Caret           lipgloss.Style
	Mark            lipgloss.Style
	ActivePane      lipgloss.Style
	InactivePane    lipgloss.Style
	Offset          lipgloss.Style
	Status          lipgloss.Style
	Error           lipgloss.Style
	LegendHighlight lipgloss.Style
	Normal          lipgloss.Style
}

func NewStyles(theme *Theme) *Styles {
	return &Styles{
		Background: lipgloss.NewStyle().
			Background(lipgloss.Color(theme.Background)),
		Literal: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.LiteralColor)),
		Escape: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.EscapeColor)),
		Placeholder: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.PlaceholderColor)),
		Caret: lipgloss.NewStyle().
			Background(lipgloss.Color(theme.CaretBackground)).
			Foreground(lipgloss.Color("#FFFFFF")),
		Mark: lipgloss.NewStyle().
			Background(lipgloss.Color(theme.MarkBackground)).
			Foreground(lipgloss.Color("#000000")),
		ActivePane: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(theme.ActiveBorder)),
		InactivePane: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(theme.InactiveBorder)),
		Offset: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.OffsetColor)),
		Status: lipgloss.NewStyle().
			Background(lipgloss.Color(theme.StatusBackground)).
			Foreground(lipgloss.Color("#FFFFFF")),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.ErrorColor)).
			Bold(true),
		LegendHighlight: lipgloss.NewStyle().
			Background(lipgloss.Color(theme.StatusBackground)).
			Foreground(lipgloss.Color(theme.LegendHighlight)).
			Bold(true),
		Normal: lipgloss.NewStyle(),
	}
}

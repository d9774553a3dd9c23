// Command dualhex edits a file as two synchronised views: hex digits and
// printable symbols.
package main

import (
	"fmt"
	"os"

	"dualhex/internal/config"
	"dualhex/internal/document"
	"dualhex/internal/editor"
	"dualhex/internal/logging"
	"dualhex/internal/session"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
)

// CLI defines the command-line interface. Zero values leave the config file
// setting in place.
var CLI struct {
	File string `arg:"" help:"File to edit" type:"path"`

	Config      string `name:"config" short:"c" help:"Config file path" type:"path"`
	Rows        int    `name:"rows" help:"Rows held in the window (at least 3)"`
	BytesPerRow int    `name:"bytes-per-row" help:"Bytes shown per row"`
	VisibleRows int    `name:"visible-rows" help:"Rows shown at once (0 follows the terminal)"`
	TempDir     string `name:"temp-dir" help:"Directory for working copies" type:"path"`
	LogFile     string `name:"log-file" help:"Append logs to this file" type:"path"`
	LogLevel    string `name:"log-level" help:"Log level (debug, info, warn, error)"`
	LogFormat   string `name:"log-format" help:"Log format (text, json)"`
}

func main() {
	kong.Parse(&CLI,
		kong.Name("dualhex"),
		kong.Description("Dual-view hex and symbol editor."),
		kong.UsageOnError(),
	)

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logFile, err := setupLogging(cfg.Log)
	if err != nil {
		return err
	}
	if logFile != nil {
		defer logFile.Close()
	}

	s, err := session.Open(CLI.File,
		document.Options{TempDir: cfg.TempDir},
		session.Options{
			Rows:        cfg.Layout.Rows,
			BytesPerRow: cfg.Layout.BytesPerRow,
			VisibleRows: cfg.Layout.VisibleRows,
		})
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", CLI.File, err)
	}
	defer func() {
		if err := s.Close(); err != nil {
			logging.Error("cleanup failed", "err", err)
		}
	}()

	p := tea.NewProgram(editor.NewModel(s, cfg), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}

func loadConfig() (*config.Config, error) {
	path := CLI.Config
	if path == "" {
		path = config.ConfigPath()
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %s: %v\n", path, err)
		cfg = config.DefaultConfig()
	}

	if CLI.Rows != 0 {
		cfg.Layout.Rows = CLI.Rows
	}
	if CLI.BytesPerRow != 0 {
		cfg.Layout.BytesPerRow = CLI.BytesPerRow
	}
	if CLI.VisibleRows != 0 {
		cfg.Layout.VisibleRows = CLI.VisibleRows
	}
	if CLI.TempDir != "" {
		cfg.TempDir = CLI.TempDir
	}
	if CLI.LogFile != "" {
		cfg.Log.File = CLI.LogFile
	}
	if CLI.LogLevel != "" {
		cfg.Log.Level = CLI.LogLevel
	}
	if CLI.LogFormat != "" {
		cfg.Log.Format = CLI.LogFormat
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func setupLogging(c config.Log) (*os.File, error) {
	level, err := logging.ParseLevel(c.Level)
	if err != nil {
		return nil, err
	}
	format, err := logging.ParseFormat(c.Format)
	if err != nil {
		return nil, err
	}

	f, err := logging.OpenFile(c.File)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	if f == nil {
		logging.Init(level, format, nil)
		return nil, nil
	}
	logging.Init(level, format, f)
	return f, nil
}

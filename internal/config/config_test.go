package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFile(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Layout.Rows != 25 || cfg.Layout.BytesPerRow != 16 {
		t.Errorf("unexpected defaults %+v", cfg.Layout)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dualhex.toml")
	data := `
temp_dir = "/var/tmp"

[layout]
rows = 16

[theme]
escape_color = "#123456"
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Layout.Rows != 16 {
		t.Errorf("expected rows 16, got %d", cfg.Layout.Rows)
	}
	if cfg.Layout.BytesPerRow != 16 {
		t.Errorf("expected default bytes_per_row, got %d", cfg.Layout.BytesPerRow)
	}
	if cfg.TempDir != "/var/tmp" {
		t.Errorf("expected temp_dir /var/tmp, got %q", cfg.TempDir)
	}
	if cfg.Theme.EscapeColor != "#123456" {
		t.Errorf("expected escape colour override, got %q", cfg.Theme.EscapeColor)
	}
	if cfg.Theme.LiteralColor != "#FFFFFF" {
		t.Errorf("expected default literal colour, got %q", cfg.Theme.LiteralColor)
	}
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("[layout\nrows = "), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFile(path)
	if err == nil {
		t.Fatal("expected decode error")
	}
	if cfg == nil || cfg.Layout.Rows != 25 {
		t.Error("expected defaults alongside the error")
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
	cfg.Layout.Rows = 2
	if err := cfg.Validate(); err == nil {
		t.Error("expected rows < 3 to be rejected")
	}
	cfg = DefaultConfig()
	cfg.Layout.BytesPerRow = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected bytes_per_row 0 to be rejected")
	}
}

func TestSaveFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dualhex.toml")
	cfg := DefaultConfig()
	cfg.Layout.Rows = 12
	cfg.Log.Level = "debug"

	if err := cfg.SaveFile(path); err != nil {
		t.Fatal(err)
	}
	got, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Layout.Rows != 12 || got.Log.Level != "debug" {
		t.Errorf("unexpected reloaded config %+v", got)
	}
}

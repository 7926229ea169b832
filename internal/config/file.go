package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// fileConfig mirrors Config with pointer fields so we can distinguish
// "not set" from zero values when merging TOML.
type fileConfig struct {
	JournalPath          *string   `toml:"journal_path"`
	YFMErrors            *string   `toml:"yfm_errors"`
	RequireLeadingMarker *string   `toml:"require_leading_marker"`
	RequireEmptyPre      *bool     `toml:"require_empty_pre"`
	AddFileInfoToMeta    *bool     `toml:"add_fileinfo_to_meta"`
	ExcludeIfMissingYFM  *bool     `toml:"exclude_if_missing_yfm"`
	OutputFn             *string   `toml:"outputfn"`
	Parser               *string   `toml:"parser"`
	Extensions           *[]string `toml:"extensions"`
	Template             *string   `toml:"template"`
	TemplateDir          *string   `toml:"template_dir"`
	ApplyTemplate        *bool     `toml:"apply_template"`
	PicoSubstitution     *bool     `toml:"pico_substitution"`
	PicoErrors           *string   `toml:"pico_errors"`
	StartedRowFmt        *string   `toml:"started_rowfmt"`
	UnfinishedRowFmt     *string   `toml:"unfinished_rowfmt"`
	LogLevel             *string   `toml:"log_level"`
	Listen               *string   `toml:"listen"`
}

// ConfigDir returns the zepto-eln config directory, respecting
// XDG_CONFIG_HOME.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "zepto-eln")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "zepto-eln")
}

// ConfigPath returns the full path to config.toml.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// LoadFile reads config.toml from the default location and merges it into
// cfg. Returns true if the file existed, false otherwise.
func LoadFile(cfg *Config) (bool, error) {
	return LoadFileFrom(cfg, ConfigPath())
}

// LoadFileFrom merges the non-empty settings of the TOML file at path into
// cfg.
func LoadFileFrom(cfg *Config, path string) (bool, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return true, err
	}
	fc.apply(cfg)
	return true, nil
}

func (fc fileConfig) apply(cfg *Config) {
	setString := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	setBool := func(dst *bool, src *bool) {
		if src != nil {
			*dst = *src
		}
	}

	if fc.JournalPath != nil {
		cfg.JournalPath = ExpandHome(*fc.JournalPath)
	}
	if fc.TemplateDir != nil {
		cfg.TemplateDir = ExpandHome(*fc.TemplateDir)
	}
	if fc.Extensions != nil {
		cfg.Extensions = *fc.Extensions
	}
	setString(&cfg.YFMErrors, fc.YFMErrors)
	setString(&cfg.RequireLeadingMarker, fc.RequireLeadingMarker)
	setString(&cfg.OutputFn, fc.OutputFn)
	setString(&cfg.Parser, fc.Parser)
	setString(&cfg.Template, fc.Template)
	setString(&cfg.PicoErrors, fc.PicoErrors)
	setString(&cfg.StartedRowFmt, fc.StartedRowFmt)
	setString(&cfg.UnfinishedRowFmt, fc.UnfinishedRowFmt)
	setString(&cfg.LogLevel, fc.LogLevel)
	setString(&cfg.Listen, fc.Listen)
	setBool(&cfg.RequireEmptyPre, fc.RequireEmptyPre)
	setBool(&cfg.AddFileInfoToMeta, fc.AddFileInfoToMeta)
	setBool(&cfg.ExcludeIfMissingYFM, fc.ExcludeIfMissingYFM)
	setBool(&cfg.ApplyTemplate, fc.ApplyTemplate)
	setBool(&cfg.PicoSubstitution, fc.PicoSubstitution)
}

// SaveFile stores journalPath in config.toml, keeping any other settings
// already in the file.
func SaveFile(journalPath string) error {
	path := ConfigPath()

	var fc fileConfig
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &fc); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	case !os.IsNotExist(err):
		return err
	}

	// Store with ~ for readability if under home dir.
	home, _ := os.UserHomeDir()
	display := journalPath
	if home != "" && strings.HasPrefix(journalPath, home+string(os.PathSeparator)) {
		display = "~" + journalPath[len(home):]
	}
	fc.JournalPath = &display

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := toml.NewEncoder(f).Encode(fc); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, _ := os.UserHomeDir()
	if path == "~" {
		return home
	}
	return filepath.Join(home, path[2:])
}

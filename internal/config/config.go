// Package config holds user settings: built-in defaults, overridden by
// config.toml, overridden by command-line flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/zepto-eln/eln/internal/document"
	"github.com/zepto-eln/eln/internal/journal"
	"github.com/zepto-eln/eln/internal/pico"
	"github.com/zepto-eln/eln/internal/render"
	"github.com/zepto-eln/eln/internal/report"
	"github.com/zepto-eln/eln/internal/yfm"
)

type Config struct {
	JournalPath string

	// YFMErrors is a document.Policy name. Empty selects the command's
	// own default.
	YFMErrors            string
	RequireLeadingMarker string
	RequireEmptyPre      bool
	AddFileInfoToMeta    bool
	ExcludeIfMissingYFM  bool

	OutputFn         string
	Parser           string
	Extensions       []string
	Template         string
	TemplateDir      string
	ApplyTemplate    bool
	PicoSubstitution bool
	PicoErrors       string

	StartedRowFmt    string
	UnfinishedRowFmt string

	LogLevel string
	Listen   string
}

func Default() Config {
	home, _ := os.UserHomeDir()
	return Config{
		JournalPath:          filepath.Join(home, "eln"),
		RequireLeadingMarker: "raise",
		RequireEmptyPre:      true,
		AddFileInfoToMeta:    true,
		ExcludeIfMissingYFM:  true,
		OutputFn:             "{filepath_noext}.html",
		ApplyTemplate:        true,
		PicoSubstitution:     true,
		PicoErrors:           "print",
		StartedRowFmt:        report.StartedRowFmt,
		UnfinishedRowFmt:     report.UnfinishedRowFmt,
		LogLevel:             "info",
		Listen:               ":2323",
	}
}

// DocumentOptions builds loader options. fallback is used when YFMErrors is
// empty.
func (c Config) DocumentOptions(fallback document.Policy, logger document.Logger) (document.Options, error) {
	opts := document.DefaultOptions()
	opts.AddFileInfoToMeta = c.AddFileInfoToMeta
	opts.Logger = logger
	opts.ErrorPolicy = fallback

	if c.YFMErrors != "" {
		p, err := document.ParsePolicy(c.YFMErrors)
		if err != nil {
			return opts, fmt.Errorf("yfm_errors: %w", err)
		}
		opts.ErrorPolicy = p
	}

	if c.RequireLeadingMarker != "" {
		req, err := yfm.ParseRequirement(c.RequireLeadingMarker)
		if err != nil {
			return opts, fmt.Errorf("require_leading_marker: %w", err)
		}
		opts.Split.LeadingMarker = req
	}
	opts.Split.RequireEmptyPre = c.RequireEmptyPre
	return opts, nil
}

// JournalOptions builds corpus options; broken files are skipped unless
// YFMErrors says otherwise.
func (c Config) JournalOptions(logger document.Logger) (journal.Options, error) {
	doc, err := c.DocumentOptions(document.PolicySkipFile, logger)
	if err != nil {
		return journal.Options{}, err
	}
	return journal.Options{Document: doc, ExcludeIfMissingYFM: c.ExcludeIfMissingYFM}, nil
}

// RenderOptions builds compile options. Documents load strictly unless
// YFMErrors says otherwise.
func (c Config) RenderOptions(logger document.Logger) (render.Options, error) {
	doc, err := c.DocumentOptions(document.PolicyRaise, logger)
	if err != nil {
		return render.Options{}, err
	}
	mode, err := pico.ParseMode(c.PicoErrors)
	if err != nil {
		return render.Options{}, fmt.Errorf("pico_errors: %w", err)
	}

	opts := render.DefaultOptions()
	opts.Document = doc
	opts.OutputFn = c.OutputFn
	opts.Parser = c.Parser
	opts.Extensions = c.Extensions
	opts.Template = c.Template
	opts.TemplateDir = ExpandHome(c.TemplateDir)
	opts.ApplyTemplate = c.ApplyTemplate
	opts.PicoSubstitution = c.PicoSubstitution
	opts.PicoMode = mode
	return opts, nil
}

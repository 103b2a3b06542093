// Package config defines the configuration types for gomdview.
// These are plain data structures; loading and merging live in
// internal/configloader.
package config

import (
	"fmt"
	"time"
)

// Flavor specifies the Markdown flavor used for parsing.
type Flavor string

const (
	FlavorCommonMark Flavor = "commonmark"
	FlavorGFM        Flavor = "gfm"
)

// OutputFormat specifies how replay statistics are printed.
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// ColorMode controls ANSI styling of the output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// StyleAuto picks the dark or light glamour style from the terminal
// background.
const StyleAuto = "auto"

// Defaults.
const (
	DefaultChunkSize = 16
	DefaultSeparator = "\n"
	DefaultLogLevel  = "warn"
)

// StreamConfig controls how replay feeds a reply into the transcript.
type StreamConfig struct {
	// ChunkSize is the number of bytes written per chunk.
	ChunkSize int `yaml:"chunk_size,omitempty"`

	// Delay is the pause between chunks, as a Go duration string.
	Delay string `yaml:"delay,omitempty"`
}

// Config is the root configuration structure for gomdview.
type Config struct {
	// Flavor specifies the Markdown flavor ("commonmark" or "gfm").
	Flavor Flavor `yaml:"flavor,omitempty"`

	// Width is the render width. Zero means the terminal width.
	Width int `yaml:"width,omitempty"`

	// Style names a glamour style, or "auto".
	Style string `yaml:"style,omitempty"`

	// DetectLanguage enables language inference for unlabelled code fences.
	// Nil means enabled.
	DetectLanguage *bool `yaml:"detect_language,omitempty"`

	// Color controls ANSI styling.
	Color ColorMode `yaml:"color,omitempty"`

	// Separator joins the selected text of consecutive blocks.
	Separator string `yaml:"separator,omitempty"`

	// LogLevel is the level of the stderr logger.
	LogLevel string `yaml:"log_level,omitempty"`

	Stream StreamConfig `yaml:"stream,omitempty"`

	// CLI-level options (not persisted to config files).

	// Format is the replay output format.
	Format OutputFormat `yaml:"-"`

	// Select is the selection expression applied before printing.
	Select string `yaml:"-"`

	// Plain strips ANSI escapes from the output.
	Plain bool `yaml:"-"`

	// Copy writes the selected text to the clipboard.
	Copy bool `yaml:"-"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	detect := true
	return &Config{
		Flavor:         FlavorGFM,
		Width:          0,
		Style:          StyleAuto,
		DetectLanguage: &detect,
		Color:          ColorAuto,
		Separator:      DefaultSeparator,
		LogLevel:       DefaultLogLevel,
		Stream: StreamConfig{
			ChunkSize: DefaultChunkSize,
			Delay:     "0s",
		},
		Format: FormatText,
	}
}

// LanguageDetection reports whether unlabelled code fences get a language.
func (c *Config) LanguageDetection() bool {
	return c.DetectLanguage == nil || *c.DetectLanguage
}

// StreamDelay parses Stream.Delay. An empty delay is zero.
func (c *Config) StreamDelay() (time.Duration, error) {
	if c.Stream.Delay == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Stream.Delay)
	if err != nil {
		return 0, fmt.Errorf("parse stream delay: %w", err)
	}
	return d, nil
}

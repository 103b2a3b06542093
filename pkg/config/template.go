package config

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Format is the output format: "yaml" or "json".
	Format string
}

// template is the commented default configuration. It must stay in sync
// with NewConfig.
const template = `# gomdview configuration
# See: https://github.com/yaklabco/gomdview

# Markdown flavor: commonmark or gfm
flavor: gfm

# Render width in columns (0 = terminal width)
width: 0

# Glamour style: auto, dark, light, notty, ascii, dracula, pink, tokyo-night
style: auto

# Infer a language for code fences without an info string
detect_language: true

# ANSI styling: auto, always, never
color: auto

# String placed between blocks when copying a selection
separator: "\n"

# Log level: debug, info, warn, error
log_level: warn

# Replay settings
stream:
  # Bytes per chunk
  chunk_size: 16
  # Pause between chunks
  delay: 0s
`

// GenerateTemplate creates a configuration file template.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	if opts.Format == "json" {
		return templateToJSON([]byte(template))
	}
	return []byte(template), nil
}

// templateToJSON converts the YAML template to indented JSON. Comments are
// lost on the way.
func templateToJSON(yamlContent []byte) ([]byte, error) {
	var cfg Config
	if err := yaml.Unmarshal(yamlContent, &cfg); err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}

	doc := map[string]any{
		"flavor":          cfg.Flavor,
		"width":           cfg.Width,
		"style":           cfg.Style,
		"detect_language": cfg.LanguageDetection(),
		"color":           cfg.Color,
		"separator":       cfg.Separator,
		"log_level":       cfg.LogLevel,
		"stream": map[string]any{
			"chunk_size": cfg.Stream.ChunkSize,
			"delay":      cfg.Stream.Delay,
		},
	}

	jsonBytes, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal JSON: %w", err)
	}
	return append(jsonBytes, '\n'), nil
}

// DefaultTemplateHeader returns the header written above generated configs.
func DefaultTemplateHeader() string {
	return `# gomdview configuration
# See: https://github.com/yaklabco/gomdview`
}

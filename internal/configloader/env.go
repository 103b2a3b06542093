package configloader

import (
	"fmt"
	"os"
	"slices"
	"strconv"

	"github.com/yaklabco/gomdview/pkg/config"
)

// envVarPrefix is the prefix for all gomdview environment variables.
const envVarPrefix = "GOMDVIEW_"

// envVar describes one supported environment variable.
type envVar struct {
	suffix string
	field  string
	help   string
	apply  func(cfg *config.Config, value string) error
}

// envVars lists the supported environment variables.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envVars = []envVar{
	{"FLAVOR", "flavor", "Markdown flavor: commonmark or gfm", func(cfg *config.Config, v string) error {
		cfg.Flavor = config.Flavor(v)
		return nil
	}},
	{"WIDTH", "width", "Render width in columns (0 = terminal width)", func(cfg *config.Config, v string) error {
		return setInt(&cfg.Width, v)
	}},
	{"STYLE", "style", "Glamour style name or auto", func(cfg *config.Config, v string) error {
		cfg.Style = v
		return nil
	}},
	{"DETECT_LANGUAGE", "detect_language", "Infer code fence languages: true or false", func(cfg *config.Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%q (expected true/false/1/0)", v)
		}
		cfg.DetectLanguage = &b
		return nil
	}},
	{"COLOR", "color", "ANSI styling: auto, always or never", func(cfg *config.Config, v string) error {
		cfg.Color = config.ColorMode(v)
		return nil
	}},
	{"SEPARATOR", "separator", "String placed between copied blocks", func(cfg *config.Config, v string) error {
		cfg.Separator = v
		return nil
	}},
	{"LOG_LEVEL", "log_level", "Log level: debug, info, warn or error", func(cfg *config.Config, v string) error {
		cfg.LogLevel = v
		return nil
	}},
	{"CHUNK_SIZE", "stream.chunk_size", "Bytes per replayed chunk", func(cfg *config.Config, v string) error {
		return setInt(&cfg.Stream.ChunkSize, v)
	}},
	{"DELAY", "stream.delay", "Pause between replayed chunks, e.g. 30ms", func(cfg *config.Config, v string) error {
		cfg.Stream.Delay = v
		return nil
	}},
}

// LoadFromEnv applies environment variable overrides to the configuration.
// Environment variables are prefixed with GOMDVIEW_ (e.g., GOMDVIEW_WIDTH).
func LoadFromEnv(cfg *config.Config) error {
	if cfg == nil {
		return nil
	}

	for _, ev := range envVars {
		name := envVarPrefix + ev.suffix
		value, ok := os.LookupEnv(name)
		if !ok || value == "" {
			continue
		}
		if err := ev.apply(cfg, value); err != nil {
			return fmt.Errorf("invalid value for %s: %w", name, err)
		}
	}
	return nil
}

func setInt(dst *int, value string) error {
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("%q is not an integer", value)
	}
	*dst = i
	return nil
}

// GetEnvVarName returns the full environment variable name for a config field.
func GetEnvVarName(field string) string {
	i := slices.IndexFunc(envVars, func(ev envVar) bool { return ev.field == field })
	if i < 0 {
		return ""
	}
	return envVarPrefix + envVars[i].suffix
}

// ListEnvVars returns all supported environment variables with their descriptions.
func ListEnvVars() map[string]string {
	out := make(map[string]string, len(envVars))
	for _, ev := range envVars {
		out[envVarPrefix+ev.suffix] = ev.help
	}
	return out
}

package config_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gomdview/pkg/config"
)

func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	assert.Equal(t, config.FlavorGFM, cfg.Flavor)
	assert.Equal(t, config.StyleAuto, cfg.Style)
	assert.Equal(t, config.ColorAuto, cfg.Color)
	assert.Equal(t, "\n", cfg.Separator)
	assert.Equal(t, config.DefaultChunkSize, cfg.Stream.ChunkSize)
	assert.Equal(t, config.FormatText, cfg.Format)
	assert.True(t, cfg.LanguageDetection())
}

func TestConfigClone(t *testing.T) {
	t.Parallel()

	t.Run("nil config returns nil", func(t *testing.T) {
		t.Parallel()

		var c *config.Config
		assert.Nil(t, c.Clone())
	})

	t.Run("deep copies DetectLanguage", func(t *testing.T) {
		t.Parallel()

		original := config.NewConfig()
		clone := original.Clone()
		require.NotSame(t, original, clone)
		require.NotSame(t, original.DetectLanguage, clone.DetectLanguage)

		*clone.DetectLanguage = false
		assert.True(t, original.LanguageDetection())
		assert.False(t, clone.LanguageDetection())
	})

	t.Run("preserves CLI fields", func(t *testing.T) {
		t.Parallel()

		original := &config.Config{
			Format: config.FormatJSON,
			Select: "1..2",
			Plain:  true,
			Copy:   true,
		}
		clone := original.Clone()
		assert.Equal(t, original, clone)
	})
}

func TestConfigToYAML(t *testing.T) {
	t.Parallel()

	t.Run("nil config returns nil", func(t *testing.T) {
		t.Parallel()

		var cfg *config.Config
		data, err := cfg.ToYAML()
		require.NoError(t, err)
		assert.Nil(t, data)
	})

	t.Run("CLI fields are not serialized", func(t *testing.T) {
		t.Parallel()

		cfg := &config.Config{Flavor: config.FlavorGFM, Width: 72, Select: "all", Plain: true}
		data, err := cfg.ToYAML()
		require.NoError(t, err)
		assert.Contains(t, string(data), "flavor: gfm")
		assert.Contains(t, string(data), "width: 72")
		assert.NotContains(t, string(data), "select")
		assert.NotContains(t, string(data), "plain")
	})

	t.Run("header", func(t *testing.T) {
		t.Parallel()

		cfg := &config.Config{Style: "dark"}
		data, err := cfg.ToYAMLWithHeader("# hello")
		require.NoError(t, err)
		assert.Equal(t, "# hello\n\nstyle: dark\n", string(data))
	})
}

func TestFromYAML(t *testing.T) {
	t.Parallel()

	t.Run("parses valid YAML", func(t *testing.T) {
		t.Parallel()

		cfg, err := config.FromYAML([]byte(`
flavor: commonmark
width: 100
detect_language: false
separator: " | "
stream:
  chunk_size: 4
  delay: 20ms
`))
		require.NoError(t, err)
		assert.Equal(t, config.FlavorCommonMark, cfg.Flavor)
		assert.Equal(t, 100, cfg.Width)
		assert.False(t, cfg.LanguageDetection())
		assert.Equal(t, " | ", cfg.Separator)
		assert.Equal(t, 4, cfg.Stream.ChunkSize)

		delay, err := cfg.StreamDelay()
		require.NoError(t, err)
		assert.Equal(t, 20*time.Millisecond, delay)
	})

	t.Run("empty document", func(t *testing.T) {
		t.Parallel()

		cfg, err := config.FromYAML([]byte("\n"))
		require.NoError(t, err)
		assert.Equal(t, &config.Config{}, cfg)
	})

	t.Run("unknown field", func(t *testing.T) {
		t.Parallel()

		_, err := config.FromYAML([]byte("widht: 80\n"))
		require.Error(t, err)
	})
}

func TestStreamDelay_Invalid(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{Stream: config.StreamConfig{Delay: "soon"}}
	_, err := cfg.StreamDelay()
	require.Error(t, err)
}

func TestGenerateTemplate(t *testing.T) {
	t.Parallel()

	t.Run("yaml template parses to defaults", func(t *testing.T) {
		t.Parallel()

		data, err := config.GenerateTemplate(config.TemplateOptions{})
		require.NoError(t, err)

		cfg, err := config.FromYAML(data)
		require.NoError(t, err)

		want := config.NewConfig()
		want.Format = ""
		assert.Equal(t, want, cfg)
	})

	t.Run("json template", func(t *testing.T) {
		t.Parallel()

		data, err := config.GenerateTemplate(config.TemplateOptions{Format: "json"})
		require.NoError(t, err)

		var doc map[string]any
		require.NoError(t, json.Unmarshal(data, &doc))
		assert.Equal(t, "gfm", doc["flavor"])
		assert.Equal(t, true, doc["detect_language"])
		assert.Equal(t, map[string]any{"chunk_size": float64(16), "delay": "0s"}, doc["stream"])
	})
}

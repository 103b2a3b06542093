package configloader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gomdview/pkg/config"
)

func isolated(dir string) LoadOptions {
	return LoadOptions{
		WorkingDir:         dir,
		IgnoreSystemConfig: true,
		IgnoreUserConfig:   true,
		IgnoreEnv:          true,
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	opts := isolated(t.TempDir())
	opts.IgnoreProjectConfig = true

	result, err := Load(context.Background(), opts)
	require.NoError(t, err)
	require.NotNil(t, result.Config)

	assert.Equal(t, config.NewConfig(), result.Config)
	assert.Empty(t, result.LoadedFrom)
}

func TestLoad_ProjectConfig(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0o755))
	writeFile(t, filepath.Join(root, ".gomdview.yml"), "flavor: commonmark\nwidth: 100\ndetect_language: false\n")

	sub := filepath.Join(root, "docs", "chat")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	result, err := Load(context.Background(), isolated(sub))
	require.NoError(t, err)

	assert.Equal(t, config.FlavorCommonMark, result.Config.Flavor)
	assert.Equal(t, 100, result.Config.Width)
	assert.False(t, result.Config.LanguageDetection())
	assert.Equal(t, config.DefaultChunkSize, result.Config.Stream.ChunkSize, "unset fields keep defaults")
	assert.Equal(t, []string{filepath.Join(root, ".gomdview.yml")}, result.LoadedFrom)
}

func TestLoad_StopsAtVCSRoot(t *testing.T) {
	t.Parallel()

	outer := t.TempDir()
	writeFile(t, filepath.Join(outer, ".gomdview.yml"), "width: 50\n")

	repo := filepath.Join(outer, "repo")
	require.NoError(t, os.MkdirAll(filepath.Join(repo, ".git"), 0o755))

	result, err := Load(context.Background(), isolated(repo))
	require.NoError(t, err)
	assert.Zero(t, result.Config.Width)
	assert.Empty(t, result.LoadedFrom)
}

func TestLoad_ExplicitOverridesProject(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o755))
	writeFile(t, filepath.Join(dir, ".gomdview.yml"), "width: 100\nstyle: light\n")
	explicit := filepath.Join(dir, "custom.yaml")
	writeFile(t, explicit, "width: 60\n")

	opts := isolated(dir)
	opts.ExplicitPath = explicit

	result, err := Load(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, 60, result.Config.Width)
	assert.Equal(t, "light", result.Config.Style)
	assert.Equal(t, explicit, result.Paths.Explicit)
	assert.Len(t, result.LoadedFrom, 2)
}

func TestLoad_CLIOverrides(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o755))
	writeFile(t, filepath.Join(dir, ".gomdview.yml"), "width: 100\nseparator: \" | \"\n")

	opts := isolated(dir)
	opts.CLIConfig = &config.Config{Width: 40, Format: config.FormatJSON, Plain: true}

	result, err := Load(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, 40, result.Config.Width)
	assert.Equal(t, " | ", result.Config.Separator)
	assert.Equal(t, config.FormatJSON, result.Config.Format)
	assert.True(t, result.Config.Plain)
}

func TestLoad_InvalidConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		field   string
	}{
		{name: "bad flavor", content: "flavor: rst\n", field: "flavor"},
		{name: "negative width", content: "width: -1\n", field: "width"},
		{name: "bad delay", content: "stream:\n  delay: later\n", field: "stream.delay"},
		{name: "bad color", content: "color: sometimes\n", field: "color"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			path := filepath.Join(dir, "bad.yml")
			writeFile(t, path, tt.content)

			opts := isolated(dir)
			opts.IgnoreProjectConfig = true
			opts.ExplicitPath = path

			_, err := Load(context.Background(), opts)
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.field, vErr.Field)
			assert.Equal(t, path, vErr.FilePath)
		})
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yml")
	writeFile(t, path, "width: [\n")

	opts := isolated(dir)
	opts.ExplicitPath = path

	_, err := Load(context.Background(), opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load explicit config")
}

func TestLoad_UnknownStyleWarns(t *testing.T) {
	t.Parallel()

	opts := isolated(t.TempDir())
	opts.CLIConfig = &config.Config{Style: "neon"}

	result, err := Load(context.Background(), opts)
	require.NoError(t, err)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "neon")
}

func TestLoad_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Load(ctx, isolated(t.TempDir()))
	require.ErrorIs(t, err, context.Canceled)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("GOMDVIEW_WIDTH", "120")
	t.Setenv("GOMDVIEW_DETECT_LANGUAGE", "false")
	t.Setenv("GOMDVIEW_CHUNK_SIZE", "3")
	t.Setenv("GOMDVIEW_STYLE", "dracula")

	cfg := config.NewConfig()
	require.NoError(t, LoadFromEnv(cfg))

	assert.Equal(t, 120, cfg.Width)
	assert.False(t, cfg.LanguageDetection())
	assert.Equal(t, 3, cfg.Stream.ChunkSize)
	assert.Equal(t, "dracula", cfg.Style)
}

func TestLoadFromEnv_Invalid(t *testing.T) {
	t.Setenv("GOMDVIEW_WIDTH", "wide")

	err := LoadFromEnv(config.NewConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GOMDVIEW_WIDTH")
}

func TestEnvVarNames(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "GOMDVIEW_CHUNK_SIZE", GetEnvVarName("stream.chunk_size"))
	assert.Empty(t, GetEnvVarName("nope"))
	assert.Len(t, ListEnvVars(), len(envVars))
}

func TestMerge(t *testing.T) {
	t.Parallel()

	off := false
	base := config.NewConfig()
	got := MergeAll(base, &config.Config{DetectLanguage: &off}, &config.Config{Width: 90})

	assert.Equal(t, 90, got.Width)
	assert.False(t, got.LanguageDetection())
	assert.True(t, base.LanguageDetection(), "merge must not mutate its inputs")
	assert.Nil(t, MergeAll())
}

func TestWriteTemplate(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ProjectConfigName)
	require.NoError(t, WriteTemplate(context.Background(), path, config.TemplateOptions{}, false))

	cfg, err := loadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, config.FlavorGFM, cfg.Flavor)

	err = WriteTemplate(context.Background(), path, config.TemplateOptions{}, false)
	require.ErrorIs(t, err, os.ErrExist)
	require.NoError(t, WriteTemplate(context.Background(), path, config.TemplateOptions{}, true))
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/gomdview/internal/configloader"
	"github.com/yaklabco/gomdview/internal/logging"
	"github.com/yaklabco/gomdview/internal/ui/pretty"
	"github.com/yaklabco/gomdview/pkg/config"
	"github.com/yaklabco/gomdview/pkg/parser/goldmark"
	"github.com/yaklabco/gomdview/pkg/transcript"
	"github.com/yaklabco/gomdview/pkg/view"
)

// Errors returned by commands.
var (
	ErrInvalidFlag = errors.New("invalid flag")
	ErrConfig      = errors.New("failed to load configuration")
)

// viewFlags are the rendering flags shared by render and replay.
type viewFlags struct {
	flavor    string
	style     string
	width     int
	detect    bool
	separator string
	plain     bool
}

func addViewFlags(cmd *cobra.Command, flags *viewFlags) {
	cmd.Flags().StringVar(&flags.flavor, "flavor", string(config.FlavorGFM), "Markdown flavor: commonmark or gfm")
	cmd.Flags().StringVar(&flags.style, "style", config.StyleAuto, "glamour style: auto, dark, light, notty, ascii, ...")
	cmd.Flags().IntVarP(&flags.width, "width", "w", 0, "render width in columns (0 = terminal width)")
	cmd.Flags().BoolVar(&flags.detect, "detect-language", true, "infer a language for unlabelled code fences")
	cmd.Flags().StringVar(&flags.separator, "separator", config.DefaultSeparator, "string placed between copied blocks")
	cmd.Flags().BoolVar(&flags.plain, "plain", false, "strip ANSI escape sequences from the output")
}

// apply copies explicitly set flags into cfg.
func (f *viewFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	changed := cmd.Flags().Changed
	if changed("flavor") {
		cfg.Flavor = config.Flavor(f.flavor)
	}
	if changed("style") {
		cfg.Style = f.style
	}
	if changed("width") {
		cfg.Width = f.width
	}
	if changed("detect-language") {
		detect := f.detect
		cfg.DetectLanguage = &detect
	}
	if changed("separator") {
		cfg.Separator = f.separator
	}
	if changed("color") {
		color, _ := cmd.Flags().GetString("color")
		cfg.Color = config.ColorMode(color)
	}
	cfg.Plain = f.plain
}

// session is the resolved environment of one command run.
type session struct {
	cfg     *config.Config
	logger  *log.Logger
	color   bool
	styles  *pretty.Styles
	surface *view.Surface
}

// newSession loads the configuration, merging cli on top, and builds the
// surface blocks are drawn on.
func newSession(cmd *cobra.Command, cli *config.Config) (*session, error) {
	ctx := commandContext(cmd)
	logger := logging.FromContext(ctx).With()

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("get config flag: %w", err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}

	loadResult, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLIConfig:    cli,
	})
	if err != nil {
		return nil, errors.Join(ErrConfig, err)
	}
	cfg := loadResult.Config
	ctx = logging.WithLogger(ctx, logger)
	cmd.SetContext(ctx)

	if debug, _ := cmd.Flags().GetBool("debug"); !debug {
		logger.SetLevel(logging.ParseLevel(cfg.LogLevel))
	}
	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}
	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration", logging.FieldPaths, loadResult.LoadedFrom)
	}

	out := cmd.OutOrStdout()
	color := !cfg.Plain && pretty.IsColorEnabled(string(cfg.Color), out)
	width := resolveWidth(cfg.Width, out)
	style := resolveStyle(cfg.Style, color)
	prettyStyles := pretty.NewStyles(color)

	logger.Debug("configuration loaded",
		logging.FieldFlavor, cfg.Flavor,
		logging.FieldWidth, width,
		logging.FieldStyle, style,
	)

	surface := view.NewSurface(width, style,
		view.WithColor(color),
		view.WithHighlight(prettyStyles.Highlight),
	)

	return &session{
		cfg:     cfg,
		logger:  logger,
		color:   color,
		styles:  prettyStyles,
		surface: surface,
	}, nil
}

// commandContext returns the command's context, or a background context.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// newTranscript creates an empty transcript drawn on the session surface.
func (s *session) newTranscript() *transcript.Transcript {
	parser := goldmark.New(string(s.cfg.Flavor), goldmark.WithLanguageDetection(s.cfg.LanguageDetection()))
	return transcript.New(parser, s.surface, transcript.WithLogger(s.logger))
}

// output post-processes rendered text for the configured output mode.
func (s *session) output(rendered string) string {
	if s.cfg.Plain {
		return view.Plain(rendered)
	}
	return rendered
}

// resolveWidth returns width, or the terminal width of out when width is
// zero.
func resolveWidth(width int, out io.Writer) int {
	if width > 0 {
		return width
	}
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if cols, _, err := term.GetSize(int(f.Fd())); err == nil && cols > 0 {
			return cols
		}
	}
	return view.DefaultWidth
}

// resolveStyle maps "auto" to the dark or light style. Without color every
// style becomes notty.
func resolveStyle(style string, color bool) string {
	if !color {
		return styles.NoTTYStyle
	}
	if style == "" || style == config.StyleAuto {
		if lipgloss.HasDarkBackground() {
			return styles.DarkStyle
		}
		return styles.LightStyle
	}
	return style
}

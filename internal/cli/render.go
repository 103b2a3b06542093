package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gomdview/internal/clipboard"
	"github.com/yaklabco/gomdview/internal/logging"
	"github.com/yaklabco/gomdview/pkg/config"
	"github.com/yaklabco/gomdview/pkg/fsutil"
	"github.com/yaklabco/gomdview/pkg/selection"
	"github.com/yaklabco/gomdview/pkg/transcript"
)

// stdinArg names standard input as a message source.
const stdinArg = "-"

// renderFlags holds the flags for the render command.
type renderFlags struct {
	viewFlags

	selectExpr    string
	copy          bool
	selectionOnly bool
	blocks        bool
}

func newRenderCommand() *cobra.Command {
	flags := &renderFlags{}

	cmd := &cobra.Command{
		Use:   "render [files...]",
		Short: "Render Markdown messages as a transcript",
		Long: `Render one or more Markdown messages as a transcript of blocks.

Each file is one message. The role of a message is taken from the file name
prefix before the first "-" (user-1.md, assistant-1.md, system.md) and
defaults to assistant. With no files, or "-", the message is read from
standard input.

A selection is given by block keys, as listed by --blocks:

  all | none      every block, or nothing
  K               block K
  K1..K2          blocks K1 through K2
  K1:O1..K2:O2    from character O1 of block K1 to character O2 of block K2`,
		Example: `  gomdview render reply.md
  gomdview render user-1.md assistant-1.md
  gomdview render --blocks reply.md
  gomdview render --select 2..4 --copy reply.md
  cat reply.md | gomdview render --select 3:5..4:10 --selection-only`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args, flags)
		},
	}

	addViewFlags(cmd, &flags.viewFlags)
	cmd.Flags().StringVarP(&flags.selectExpr, "select", "s", "", "select blocks: all, none, K, K1..K2 or K1:O1..K2:O2")
	cmd.Flags().BoolVar(&flags.copy, "copy", false, "copy the selected text to the clipboard")
	cmd.Flags().BoolVar(&flags.selectionOnly, "selection-only", false, "print the selected text instead of the transcript")
	cmd.Flags().BoolVar(&flags.blocks, "blocks", false, "list block keys and kinds instead of rendering")

	return cmd
}

// inputMessage is one message read from the command line.
type inputMessage struct {
	role transcript.Role
	text string
}

func runRender(cmd *cobra.Command, args []string, flags *renderFlags) error {
	cliCfg := &config.Config{Select: flags.selectExpr, Copy: flags.copy}
	flags.apply(cmd, cliCfg)

	sess, err := newSession(cmd, cliCfg)
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	inputs, err := readMessages(ctx, cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	tr := sess.newTranscript()
	defer func() {
		if closeErr := tr.Close(); closeErr != nil {
			sess.logger.Warn("failed to close transcript", logging.FieldError, closeErr)
		}
	}()

	for _, in := range inputs {
		if err := tr.AddMessage(ctx, in.role, in.text); err != nil {
			return err
		}
	}

	selected, err := applySelection(tr.Tracker(), sess.cfg.Select)
	if err != nil {
		return err
	}
	sess.logger.Debug("selection applied", logging.FieldSelected, selected)

	out := cmd.OutOrStdout()
	switch {
	case flags.blocks:
		_, err = io.WriteString(out, listBlocks(tr))
	case flags.selectionOnly:
		_, err = fmt.Fprintln(out, tr.SelectedText(sess.cfg.Separator))
	default:
		_, err = io.WriteString(out, sess.output(renderTranscript(sess, tr)))
	}
	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	if sess.cfg.Copy {
		method, err := clipboard.New().Copy(tr.SelectedText(sess.cfg.Separator))
		if err != nil {
			return fmt.Errorf("copy selection: %w", err)
		}
		sess.logger.Info("copied selection", logging.FieldMethod, method, logging.FieldSelected, selected)
	}
	return nil
}

// readMessages reads one message per argument. "-" or no argument reads in.
func readMessages(ctx context.Context, in io.Reader, args []string) ([]inputMessage, error) {
	if len(args) == 0 {
		args = []string{stdinArg}
	}

	messages := make([]inputMessage, 0, len(args))
	for _, arg := range args {
		if arg == stdinArg {
			data, err := io.ReadAll(in)
			if err != nil {
				return nil, fmt.Errorf("read stdin: %w", err)
			}
			messages = append(messages, inputMessage{role: transcript.RoleAssistant, text: string(data)})
			continue
		}

		data, err := fsutil.ReadFile(ctx, arg)
		if err != nil {
			return nil, err
		}
		messages = append(messages, inputMessage{role: roleFromPath(arg), text: string(data)})
	}
	return messages, nil
}

// roleFromPath derives a role from a file name such as "user-2.md".
func roleFromPath(path string) transcript.Role {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	prefix, _, _ := strings.Cut(name, "-")
	role, err := transcript.ParseRole(prefix)
	if err != nil {
		return transcript.RoleAssistant
	}
	return role
}

// renderTranscript draws every message. Headers are drawn only when there is
// more than one message.
func renderTranscript(sess *session, tr *transcript.Transcript) string {
	msgs := tr.Messages()
	hosts := tr.Engine().Hosts()

	var builder strings.Builder
	for _, msg := range msgs {
		if len(msgs) > 1 {
			builder.WriteString(sess.styles.FormatMessageHeader(string(msg.Role), msg.Count, sess.surface.Width()))
			builder.WriteString("\n")
		}
		body := strings.TrimPrefix(sess.surface.Render(hosts[msg.Start:msg.Start+msg.Count]), "\n")
		builder.WriteString(body)
		if body != "" && !strings.HasSuffix(body, "\n") {
			builder.WriteString("\n")
		}
	}
	return builder.String()
}

// listBlocks returns one line per block: its key, kind and the start of its
// text.
func listBlocks(tr *transcript.Transcript) string {
	const previewLength = 48

	var builder strings.Builder
	for _, h := range tr.Engine().Hosts() {
		unit, ok := h.(selection.TextUnit)
		if !ok {
			continue
		}
		preview := strings.Join(strings.Fields(unit.PlainText()), " ")
		if runes := []rune(preview); len(runes) > previewLength {
			preview = string(runes[:previewLength]) + "…"
		}
		fmt.Fprintf(&builder, "%4d  %-12s %s\n", unit.Selection().Key(), h.Descriptor().Kind(), preview)
	}
	return builder.String()
}

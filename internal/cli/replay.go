package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gomdview/internal/logging"
	"github.com/yaklabco/gomdview/internal/ui/pretty"
	"github.com/yaklabco/gomdview/pkg/config"
	"github.com/yaklabco/gomdview/pkg/transcript"
)

// replayFlags holds the flags for the replay command.
type replayFlags struct {
	viewFlags

	format    string
	chunkSize int
	delay     string
	prompt    string
	showDoc   bool
	quiet     bool
}

func newReplayCommand() *cobra.Command {
	flags := &replayFlags{}

	cmd := &cobra.Command{
		Use:   "replay [file]",
		Short: "Stream a Markdown reply chunk by chunk and report host reuse",
		Long: `Replay a finished Markdown reply as if it were streaming in, a few bytes at
a time, and report how the document was reconciled after every chunk: how
many blocks were unchanged, refreshed, inserted or removed, and where the
structure diverged.

Chunks never split a UTF-8 character. With no file, or "-", the reply is
read from standard input.`,
		Example: `  gomdview replay reply.md
  gomdview replay --chunk-size 1 --delay 10ms reply.md
  gomdview replay --prompt "Explain channels" --show-doc reply.md
  gomdview replay --format json reply.md | jq .`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(cmd, args, flags)
		},
	}

	addViewFlags(cmd, &flags.viewFlags)
	cmd.Flags().StringVarP(&flags.format, "format", "f", string(config.FormatText), "output format: text or json")
	cmd.Flags().IntVarP(&flags.chunkSize, "chunk-size", "n", config.DefaultChunkSize, "bytes per chunk")
	cmd.Flags().StringVar(&flags.delay, "delay", "0s", "pause between chunks")
	cmd.Flags().StringVar(&flags.prompt, "prompt", "", "user message placed before the reply")
	cmd.Flags().BoolVar(&flags.showDoc, "show-doc", false, "print the final document after the statistics")
	cmd.Flags().BoolVarP(&flags.quiet, "quiet", "q", false, "print only a one-line summary")

	return cmd
}

// chunkRecord is one line of JSON output.
type chunkRecord struct {
	Type       string `json:"type"`
	Index      int    `json:"index"`
	Bytes      int    `json:"bytes"`
	Blocks     int    `json:"blocks"`
	Unchanged  int    `json:"unchanged"`
	Changed    int    `json:"changed"`
	Inserted   int    `json:"inserted"`
	Removed    int    `json:"removed"`
	Divergence int    `json:"divergence"`
}

// summaryRecord is the final line of JSON output.
type summaryRecord struct {
	Type        string `json:"type"`
	Chunks      int    `json:"chunks"`
	Bytes       int    `json:"bytes"`
	Blocks      int    `json:"blocks"`
	Created     int    `json:"created"`
	Refreshed   int    `json:"refreshed"`
	Destroyed   int    `json:"destroyed"`
	Divergences int    `json:"divergences"`
}

func runReplay(cmd *cobra.Command, args []string, flags *replayFlags) error {
	cliCfg := &config.Config{}
	flags.apply(cmd, cliCfg)
	if cmd.Flags().Changed("format") {
		cliCfg.Format = config.OutputFormat(flags.format)
	}
	if cmd.Flags().Changed("chunk-size") {
		if flags.chunkSize <= 0 {
			return fmt.Errorf("%w: chunk size must be positive, got %d", ErrInvalidFlag, flags.chunkSize)
		}
		cliCfg.Stream.ChunkSize = flags.chunkSize
	}
	if cmd.Flags().Changed("delay") {
		cliCfg.Stream.Delay = flags.delay
	}

	sess, err := newSession(cmd, cliCfg)
	if err != nil {
		return err
	}
	delay, err := sess.cfg.StreamDelay()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidFlag, err)
	}
	chunkSize := sess.cfg.Stream.ChunkSize
	if chunkSize <= 0 {
		chunkSize = config.DefaultChunkSize
	}

	ctx := commandContext(cmd)
	inputs, err := readMessages(ctx, cmd.InOrStdin(), args)
	if err != nil {
		return err
	}
	reply := inputs[0]

	tr := sess.newTranscript()
	defer func() {
		if closeErr := tr.Close(); closeErr != nil {
			sess.logger.Warn("failed to close transcript", logging.FieldError, closeErr)
		}
	}()

	if flags.prompt != "" {
		if err := tr.AddMessage(ctx, transcript.RoleUser, flags.prompt); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	jsonOut := sess.cfg.Format == config.FormatJSON
	encoder := json.NewEncoder(out)

	chunks := splitChunks(reply.text, chunkSize)
	sess.logger.Debug("replay started",
		logging.FieldChunks, len(chunks),
		logging.FieldDelay, delay,
		logging.FieldRole, reply.role,
	)

	if err := tr.BeginStream(reply.role); err != nil {
		return err
	}

	rows := make([]pretty.ChunkRow, 0, len(chunks))
	summary := pretty.ReplaySummary{Chunks: len(chunks), Bytes: len(reply.text)}
	for i, chunk := range chunks {
		if i > 0 {
			if err := wait(ctx, delay); err != nil {
				return err
			}
		}

		stats, err := tr.Write(ctx, chunk)
		if err != nil {
			return err
		}
		if stats.Divergence >= 0 {
			summary.Divergences++
		}

		row := pretty.ChunkRow{Index: i + 1, Bytes: len(chunk), Blocks: tr.Engine().Len(), Stats: stats}
		rows = append(rows, row)
		if jsonOut {
			if err := encoder.Encode(newChunkRecord(row)); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
		}
	}

	if err := tr.EndStream(ctx); err != nil {
		return err
	}

	summary.Blocks = tr.Engine().Len()
	summary.Created, summary.Refreshed, summary.Destroyed = sess.surface.Stats()

	if jsonOut {
		if err := encoder.Encode(newSummaryRecord(summary)); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		return nil
	}

	if err := writeReplayText(out, sess, tr, rows, summary, flags); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

func writeReplayText(
	out io.Writer,
	sess *session,
	tr *transcript.Transcript,
	rows []pretty.ChunkRow,
	summary pretty.ReplaySummary,
	flags *replayFlags,
) error {
	var text string
	if flags.quiet {
		text = sess.styles.FormatSummaryOneLine(summary)
	} else {
		text = pretty.NewTableFormatter(sess.styles).FormatTable(rows) + sess.styles.FormatSummary(summary)
	}
	if flags.showDoc {
		text += "\n" + renderTranscript(sess, tr)
	}
	_, err := io.WriteString(out, sess.output(text))
	return err
}

// splitChunks cuts text into pieces of about size bytes. A piece is extended
// rather than split inside a UTF-8 sequence.
func splitChunks(text string, size int) []string {
	var chunks []string
	for start := 0; start < len(text); {
		end := min(start+size, len(text))
		for end < len(text) && !utf8.RuneStart(text[end]) {
			end++
		}
		chunks = append(chunks, text[start:end])
		start = end
	}
	return chunks
}

// wait pauses for d or until ctx is done.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return fmt.Errorf("replay cancelled: %w", ctx.Err())
	case <-timer.C:
		return nil
	}
}

func newChunkRecord(row pretty.ChunkRow) chunkRecord {
	return chunkRecord{
		Type:       "chunk",
		Index:      row.Index,
		Bytes:      row.Bytes,
		Blocks:     row.Blocks,
		Unchanged:  row.Stats.Unchanged,
		Changed:    row.Stats.Changed,
		Inserted:   row.Stats.Inserted,
		Removed:    row.Stats.Removed,
		Divergence: row.Stats.Divergence,
	}
}

func newSummaryRecord(sum pretty.ReplaySummary) summaryRecord {
	return summaryRecord{
		Type:        "summary",
		Chunks:      sum.Chunks,
		Bytes:       sum.Bytes,
		Blocks:      sum.Blocks,
		Created:     sum.Created,
		Refreshed:   sum.Refreshed,
		Destroyed:   sum.Destroyed,
		Divergences: sum.Divergences,
	}
}

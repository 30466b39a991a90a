package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"

	"github.com/zjrosen/taglet/internal/app"
	"github.com/zjrosen/taglet/internal/directory"
	"github.com/zjrosen/taglet/internal/paths"
	"github.com/zjrosen/taglet/internal/tagging"
	"github.com/zjrosen/taglet/internal/tracing"
)

var (
	formatReverse bool
	formatTags    bool
)

var formatCmd = &cobra.Command{
	Use:   "format [text]",
	Short: "Convert between canonical and display text",
	Long: `Convert between the canonical tag form and the display form.

The forward direction reads canonical text and prints what the composer
would show:

  taglet format '@11a#Brad# ship it'

With --reverse, trigger words in display text are resolved against the
candidate directory (the configured database, or the built-in seed) and
replaced with their canonical form. Words the directory does not know
stay literal:

  taglet format --reverse '@Brad ship it'

Text comes from the argument or stdin. --tags appends one
trigger/id/name line per tag after the text.`,
	RunE: runFormat,
}

func init() {
	formatCmd.Flags().BoolVarP(&formatReverse, "reverse", "r", false,
		"convert display text to canonical form")
	formatCmd.Flags().BoolVarP(&formatTags, "tags", "t", false,
		"append one trigger/id/name line per tag")
	rootCmd.AddCommand(formatCmd)
}

func runFormat(cmd *cobra.Command, args []string) error {
	input, err := formatInput(cmd, args)
	if err != nil {
		return err
	}

	tp, err := tracing.NewProvider(tracingConfig(cfg.Tracing))
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = tp.Shutdown(ctx)
	}()

	ec := app.EngineConfig(cfg)
	session := tagging.NewSession(nil, nil, ec)

	canonical := input
	if formatReverse {
		provider, closeProvider, err := formatDirectory()
		if err != nil {
			return err
		}
		defer closeProvider()
		if tp.Enabled() {
			provider = tracing.NewTracedProvider(provider, tp.Tracer())
		}

		canonical, err = resolveTags(cmd.Context(), ec, provider, input)
		if err != nil {
			return err
		}
	}

	// Round-trip through the engine so the printed text is what the
	// session itself would produce.
	_, span := tp.Tracer().Start(cmd.Context(), tracing.SpanFormatTags)
	session.FormatTags(canonical)
	span.SetAttributes(
		attribute.Int(tracing.AttrTextLength, len(canonical)),
		attribute.Int(tracing.AttrTagCount, len(session.Tags())),
	)
	span.End()

	if formatReverse {
		fmt.Fprintln(cmd.OutOrStdout(), session.Formatted())
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), session.Text())
	}

	if formatTags {
		for _, tag := range session.Tags() {
			fmt.Fprintf(cmd.OutOrStdout(), "%c\t%s\t%s\n", tag.Trigger, tag.ID, tag.Text)
		}
	}
	return nil
}

// formatInput reads the text to convert from the arguments, or from stdin
// when no argument is given.
func formatInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return strings.TrimRight(string(data), "\n"), nil
}

// formatDirectory returns the provider --reverse resolves names against:
// the configured database, or the built-in seed.
func formatDirectory() (directory.Provider, func(), error) {
	if cfg.Directory.Path == "" {
		return directory.Seed(), func() {}, nil
	}
	dbPath := paths.ResolveCandidatesDB(cfg.Directory.Path)
	store, err := directory.Open(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening candidate directory %s: %w", dbPath, err)
	}
	return store, func() { _ = store.Close() }, nil
}

// resolveTags replaces each resolvable trigger word in display text with
// its canonical form. A word resolves when the directory has a candidate
// whose name matches it case-insensitively. Triggers glued onto other text,
// like the host in an email address, are left alone: a tag word needs its
// trigger at the start of the text or after whitespace.
func resolveTags(ctx context.Context, ec tagging.Config, provider directory.Provider, display string) (string, error) {
	var b strings.Builder
	b.Grow(len(display))
	i := 0
	for i < len(display) {
		r, size := utf8.DecodeRuneInString(display[i:])
		if isTriggerRune(ec, r) && atWordBoundary(display, i) {
			j := i + size
			for j < len(display) {
				q, qsize := utf8.DecodeRuneInString(display[j:])
				if !ec.Query.MatchString(string(q)) {
					break
				}
				j += qsize
			}
			if word := display[i+size : j]; word != "" {
				c, ok, err := exactNameMatch(ctx, provider, r, word)
				if err != nil {
					return "", err
				}
				if ok {
					b.WriteString(ec.Format(c.ID, c.Name, r))
					i = j
					continue
				}
			}
		}
		b.WriteString(display[i : i+size])
		i += size
	}
	return b.String(), nil
}

func isTriggerRune(ec tagging.Config, r rune) bool {
	for _, t := range ec.Triggers {
		if t == r {
			return true
		}
	}
	return false
}

func atWordBoundary(text string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:i])
	return r == ' ' || r == '\n' || r == '\t'
}

// exactNameMatch finds the directory candidate whose name equals word,
// ignoring case. Search ranks prefix matches first, so an exact name is
// near the front when present.
func exactNameMatch(ctx context.Context, provider directory.Provider, trigger rune, word string) (directory.Candidate, bool, error) {
	results, err := provider.Search(ctx, trigger, word)
	if err != nil {
		return directory.Candidate{}, false, err
	}
	for _, c := range results {
		if strings.EqualFold(c.Name, word) {
			return c, true, nil
		}
	}
	return directory.Candidate{}, false, nil
}

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/corey/cefrtag/internal/config"
)

var (
	tagJSON        bool
	tagOccurrences bool
	tagPhrases     bool
	tagOffsets     bool
)

var tagCmd = &cobra.Command{
	Use:   "tag [text...]",
	Short: "Tag words in text by CEFR level",
	Long: "Tags the words of the given text (or stdin when no text is given) and\n" +
		"groups them by level. Use --occurrences for the raw (word, entry, level) list.",
	RunE: runTag,
}

func init() {
	tagCmd.Flags().BoolVar(&tagJSON, "json", false, "print JSON")
	tagCmd.Flags().BoolVar(&tagOccurrences, "occurrences", false, "print the ordered occurrence list instead of the grouped report")
	tagCmd.Flags().BoolVar(&tagPhrases, "phrases", false, "also match multi-word entries (\"turn off\")")
	tagCmd.Flags().BoolVar(&tagOffsets, "offsets", false, "order by token position instead of first substring match")
}

func runTag(cmd *cobra.Command, args []string) error {
	text, err := readInput(args, os.Stdin, isStdinPipe())
	if err != nil {
		return err
	}

	a, _, err := openApp(cmd, func(cfg *config.Config) {
		oneShotLogs(cmd, cfg)
		if cmd.Flags().Changed("phrases") {
			cfg.Tagger.Phrases = tagPhrases
		}
		if cmd.Flags().Changed("offsets") {
			cfg.Tagger.TokenOffsets = tagOffsets
		}
	})
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := context.Background()
	if tagOccurrences {
		occs, err := a.Service.Tag(ctx, text)
		if err != nil {
			return err
		}
		if tagJSON {
			return printJSON(cmd.OutOrStdout(), occs)
		}
		fmt.Fprint(cmd.OutOrStdout(), formatOccurrences(occs))
		return nil
	}

	report, err := a.Service.Report(ctx, text)
	if err != nil {
		return err
	}
	if tagJSON {
		return printJSON(cmd.OutOrStdout(), report)
	}
	fmt.Fprint(cmd.OutOrStdout(), formatReport(report))
	return nil
}

// readInput joins args into the text to tag, or reads all of stdin when
// there are no args and stdin is piped.
func readInput(args []string, stdin io.Reader, piped bool) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	if !piped {
		return "", errors.New("no text: pass it as arguments or pipe it on stdin")
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}

// oneShotLogs keeps one-shot commands quiet unless a level was asked for.
func oneShotLogs(cmd *cobra.Command, cfg *config.Config) {
	if !cmd.Flags().Changed("log-level") && os.Getenv("CEFRTAG_LOG_LEVEL") == "" {
		cfg.Log.Level = "warn"
	}
}

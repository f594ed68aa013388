package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/corey/cefrtag/internal/adapters/bbolt"
)

var sourcesDelete string

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List vocabularies imported into the bbolt database",
	RunE:  runSources,
}

func init() {
	sourcesCmd.Flags().StringVar(&sourcesDelete, "delete", "", "delete the named vocabulary")
}

func runSources(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	store, err := bbolt.NewStore(cfg.Vocab.DBPath)
	if err != nil {
		if isDBLockError(err) {
			return fmt.Errorf("%w\n%s", err, dbLockHint(cfg.Vocab.DBPath))
		}
		return err
	}
	defer store.Close()

	out := cmd.OutOrStdout()
	if sourcesDelete != "" {
		if err := store.DeleteSource(sourcesDelete); err != nil {
			return err
		}
		fmt.Fprintf(out, "%s deleted %q\n", paint(colorBold, "⚡"), sourcesDelete)
		return nil
	}

	names, err := store.ListSources()
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Fprintf(out, "⚡ no vocabularies in %s (use: cefrtag import <file>)\n", cfg.Vocab.DBPath)
		return nil
	}

	fmt.Fprintf(out, "%s %d vocabularies in %s\n", paint(colorBold, "⚡"), len(names), cfg.Vocab.DBPath)
	for _, name := range names {
		_, meta, err := store.LoadSource(name)
		if err != nil || meta == nil {
			fmt.Fprintf(out, "  %s  %s\n", paint(colorCyan, name), paint(colorGray, "(unreadable)"))
			continue
		}
		fmt.Fprintf(out, "  %s  %d entries  %s  %s\n",
			paint(colorCyan, name), meta.Entries,
			paint(colorGray, meta.ImportedAt.Format("2006-01-02 15:04")),
			paint(colorGray, meta.Origin))
	}
	return nil
}

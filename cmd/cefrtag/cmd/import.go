package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/corey/cefrtag/internal/adapters/bbolt"
	"github.com/corey/cefrtag/internal/adapters/filesource"
	"github.com/corey/cefrtag/internal/domain/vocab"
)

var importCmd = &cobra.Command{
	Use:   "import <file.json|file.yaml>",
	Short: "Import a vocabulary file into the bbolt database",
	Long: "Parses a vocabulary file and stores it in the database under --name\n" +
		"(default from config), replacing any earlier import with that name.\n" +
		"Serve it with --source bolt.",
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	path, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}
	src, err := filesource.New(path, "").Load(context.Background())
	if err != nil {
		return fmt.Errorf("import %s: %w", args[0], err)
	}

	store, err := bbolt.NewStore(cfg.Vocab.DBPath)
	if err != nil {
		if isDBLockError(err) {
			return fmt.Errorf("%w\n%s", err, dbLockHint(cfg.Vocab.DBPath))
		}
		return err
	}
	defer store.Close()

	if err := store.SaveSource(cfg.Vocab.Name, src, path); err != nil {
		return err
	}

	idx := vocab.Compile(src)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s imported %s into %s as %q\n",
		paint(colorBold, "⚡"), path, cfg.Vocab.DBPath, cfg.Vocab.Name)
	fmt.Fprintf(out, "  %d levels │ %d entries │ %d keys", len(src), idx.EntryCount(), idx.KeyCount())
	if idx.MalformedCount() > 0 {
		fmt.Fprintf(out, " │ %s", paint(colorYellow, fmt.Sprintf("%d malformed", idx.MalformedCount())))
	}
	fmt.Fprintln(out)
	return nil
}

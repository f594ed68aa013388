package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/corey/cefrtag/internal/app"
	"github.com/corey/cefrtag/internal/config"
)

var (
	levelJSON  bool
	levelLimit int
)

var levelCmd = &cobra.Command{
	Use:   "level <A1|A2|B1|B2|C1>",
	Short: "List the entries of a level",
	Args:  cobra.ExactArgs(1),
	RunE:  runLevel,
}

func init() {
	levelCmd.Flags().BoolVar(&levelJSON, "json", false, "print JSON")
	levelCmd.Flags().IntVarP(&levelLimit, "limit", "n", app.DefaultLevelLimit, "maximum entries to list")
}

func runLevel(cmd *cobra.Command, args []string) error {
	a, _, err := openApp(cmd, func(cfg *config.Config) { oneShotLogs(cmd, cfg) })
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.Service.Level(context.Background(), args[0], levelLimit)
	if err != nil {
		return err
	}
	if levelJSON {
		return printJSON(cmd.OutOrStdout(), res)
	}
	fmt.Fprint(cmd.OutOrStdout(), formatLevel(res))
	return nil
}

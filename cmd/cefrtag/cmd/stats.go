package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/corey/cefrtag/internal/config"
)

var statsJSON bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show vocabulary statistics",
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "print JSON")
}

func runStats(cmd *cobra.Command, args []string) error {
	a, _, err := openApp(cmd, func(cfg *config.Config) { oneShotLogs(cmd, cfg) })
	if err != nil {
		return err
	}
	defer a.Close()

	stats, err := a.Service.Stats(context.Background())
	if err != nil {
		return err
	}
	if statsJSON {
		return printJSON(cmd.OutOrStdout(), stats)
	}
	fmt.Fprint(cmd.OutOrStdout(), formatStats(stats, a.Service.Health()))
	return nil
}

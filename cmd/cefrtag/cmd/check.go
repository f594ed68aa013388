package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/corey/cefrtag/internal/config"
)

var checkJSON bool

var checkCmd = &cobra.Command{
	Use:   "check <word or phrase>",
	Short: "Look up a word in the vocabulary",
	Long:  "Reports every level and entry a word belongs to, including slash alternatives and parenthetical entries.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "print JSON")
}

func runCheck(cmd *cobra.Command, args []string) error {
	a, _, err := openApp(cmd, func(cfg *config.Config) { oneShotLogs(cmd, cfg) })
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.Service.Check(context.Background(), strings.Join(args, " "))
	if err != nil {
		return err
	}
	if checkJSON {
		return printJSON(cmd.OutOrStdout(), res)
	}
	fmt.Fprint(cmd.OutOrStdout(), formatCheck(res))
	return nil
}

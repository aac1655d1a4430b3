package cmd

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Rana718/forge/internal/devtools"
)

var testCmd = &cobra.Command{
	Use:   "test [all|unit|integration|coverage|<package pattern>]",
	Short: "Run the project's tests",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return dispatch(cmd, devtools.TestTable, args)
	},
}

var formatCmd = &cobra.Command{
	Use:   "format [fix|check|lint|vet]",
	Short: "Format, check, lint or vet the project",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return dispatch(cmd, devtools.FormatTable, args)
	},
}

func init() {
	rootCmd.AddCommand(testCmd)
	rootCmd.AddCommand(formatCmd)
}

// dispatch runs the tool selected by the keyword and exits with its status.
func dispatch(cmd *cobra.Command, table devtools.Table, args []string) error {
	keyword := ""
	if len(args) > 0 {
		keyword = args[0]
	}
	inv, err := table.Resolve(keyword)
	if err != nil {
		return err
	}

	color.Cyan("▶ %s", inv)
	runner := devtools.NewRunner()
	if err := runner.Run(cmd.Context(), inv); err != nil {
		color.Red("❌ %v", err)
		os.Exit(devtools.ExitCode(err))
	}
	return nil
}

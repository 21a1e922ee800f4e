package cli

import "github.com/spf13/cobra"

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "xlsx-data-app",
		Short: "Spreadsheet-backed quiz service with AI answer grading",
	}
	cmd.AddCommand(newServeCmd())
	return cmd
}

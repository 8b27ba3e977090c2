// backend/src/cmd/root.go
package cmd

import (
	"github.com/spf13/cobra"
)

// SharedFlags holds the flags common to every conversion command.
var SharedFlags struct {
	Input  string
	Output string
}

var rootCmd = &cobra.Command{
	Use:   "bankvisor",
	Short: "Parse ISO 20022 bank statement files",
	Long: `bankvisor extracts structured records from ISO 20022 XML messages:
pain.001 credit transfer initiations and CAMT.053 account statements.
Records are printed to the console or exported as CSV, Excel or sqlite.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI. The caller decides the process exit code.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&SharedFlags.Input, "input", "i", "", "path to the input file (or folder for the folder command)")
	rootCmd.PersistentFlags().StringVarP(&SharedFlags.Output, "output", "o", "", "output path (.csv, .xlsx, .db/.sqlite); prints to the console when omitted")

	rootCmd.AddCommand(camtCmd)
	rootCmd.AddCommand(pain001Cmd)
	rootCmd.AddCommand(folderCmd)
	rootCmd.AddCommand(serveCmd)
}

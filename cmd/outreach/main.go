// Command outreach maps contact CSV files and renders message templates from
// the terminal, using the same engines as the HTTP server.
package main

import (
	"fmt"
	"os"

	"github.com/sangkips/outreach-engine/internal/logging"
	"github.com/spf13/cobra"
)

var (
	logLevel    string
	aliasesFile string
)

var rootCmd = &cobra.Command{
	Use:   "outreach",
	Short: "Contact import and template personalization tools",
	Long: `outreach maps contact spreadsheets onto canonical contact fields and
renders {{placeholder}} templates for individual contacts.

Available subcommands:
  import       - Map a CSV file into contact records
  fields       - Show the active header alias table
  render       - Render a template for one contact
  preview      - Render a template to preview HTML
  placeholders - List the placeholders a template uses`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Setup(logLevel, "console")
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&aliasesFile, "aliases", "", "YAML alias table (default: built-in table)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/sangkips/outreach-engine/internal/domains/contacts"
	"github.com/spf13/cobra"
)

var importSeparator string

// importCmd maps a CSV file into contact records
var importCmd = &cobra.Command{
	Use:   "import <file.csv>",
	Short: "Map a CSV file into contact records",
	Long: `Read a CSV file, match its header row against the alias table and print
the resulting contact records as JSON. Use "-" to read from stdin.

Rows without an email, phone, Instagram or TikTok value are dropped; the
summary on stderr shows how many.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

// fieldsCmd prints the alias table
var fieldsCmd = &cobra.Command{
	Use:   "fields",
	Short: "Show the active header alias table",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		table, err := contacts.ResolveAliasTable(aliasesFile)
		if err != nil {
			return err
		}
		for _, fa := range table.Fields {
			fmt.Fprintf(cmd.OutOrStdout(), "%-14s %v\n", fa.Field, fa.Aliases)
		}
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importSeparator, "separator", ",", "cell separator")
	rootCmd.AddCommand(importCmd, fieldsCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	if utf8.RuneCountInString(importSeparator) != 1 {
		return fmt.Errorf("separator must be a single character, got %q", importSeparator)
	}
	sep, _ := utf8.DecodeRuneInString(importSeparator)

	table, err := contacts.ResolveAliasTable(aliasesFile)
	if err != nil {
		return err
	}

	in := cmd.InOrStdin()
	if args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open csv: %w", err)
		}
		defer f.Close()
		in = f
	}

	svc := contacts.NewService(contacts.NewMapper(table, contacts.WithSeparator(sep)), nil)
	result, err := svc.ImportCSV(cmd.Context(), in, args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(result.Records); err != nil {
		return fmt.Errorf("write records: %w", err)
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "received %d rows, imported %d, dropped %d\n",
		result.Received, result.Imported, result.Dropped)
	return nil
}

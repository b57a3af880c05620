package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aurora/reproto/internal/parser"
)

// newParseCmd creates the parse command.
func newParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a .reproto file and display its AST",
		Long: `Parse a .reproto IDL file and display the resulting AST.

Reads the file, runs it through the lexer and parser, and prints the
parsed tree to stdout. A parse error, with its byte span, is returned
and reported on stderr.`,
		Args: cobra.ExactArgs(1),
		Example: `  reproto parse service.reproto
  reproto parse --output json service.reproto`,
		RunE: runParse,
	}
	return cmd
}

func runParse(cmd *cobra.Command, args []string) error {
	filename := args[0]
	printVerbose(cmd, "parsing file: %s\n", filename)

	buf, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("reading %s: %w", filename, err)
	}

	file, err := parser.ParseFile(filename, buf)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", filename, err)
	}

	switch outputFormat {
	case "json":
		return outputJSON(cmd, file)
	default:
		fmt.Fprintf(cmd.OutOrStdout(), "%+v\n", file)
		return nil
	}
}

func outputJSON(cmd *cobra.Command, v interface{}) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// Package cmd provides the CLI commands for reproto.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aurora/reproto/internal/ast"
)

var (
	verbose      bool
	outputFormat string
	maxDepth     int
)

// rootCmd is the base command when reproto is called without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "reproto",
	Short: "Parse and inspect .reproto IDL files",
	Long: `reproto is a debugging front-end for the reproto IDL parser.

It reads .reproto source files, runs them through the lexer and
recursive-descent parser, and prints the resulting AST or any parse
error. It does not check, generate code from, or otherwise act on the
files it parses.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		ast.MaxNestingDepth = maxDepth
	},
}

// Execute runs the root command. Called once from main.main.
func Execute() error {
	return rootCmd.Execute()
}

// NewRootCmd builds a fresh command tree, for tests that need isolation
// from the package-level rootCmd's accumulated flag state.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          rootCmd.Use,
		Short:        rootCmd.Short,
		Long:         rootCmd.Long,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			ast.MaxNestingDepth = maxDepth
		},
	}
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	cmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "plain", "output format (plain|json)")
	cmd.PersistentFlags().IntVar(&maxDepth, "max-depth", 64, "maximum type/declaration nesting depth")

	cmd.AddCommand(newParseCmd())
	cmd.AddCommand(newVersionCmd())
	return cmd
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "plain", "output format (plain|json)")
	rootCmd.PersistentFlags().IntVar(&maxDepth, "max-depth", ast.MaxNestingDepth, "maximum type/declaration nesting depth")

	rootCmd.AddCommand(newParseCmd())
	rootCmd.AddCommand(newVersionCmd())
}

func printVerbose(cmd *cobra.Command, format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(cmd.OutOrStdout(), format, args...)
	}
}

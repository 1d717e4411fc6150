// Package main provides the entry point for the typst-intern CLI tool.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/purpl3F0x/typst/cmd/typst-intern/commands"
	"github.com/purpl3F0x/typst/pkg/version"
)

func main() {
	rootCmd := commands.NewRootCommand()
	rootCmd.AddCommand(versionCmd())

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			printVersion(cmd.OutOrStdout(), version.Get())
		},
	}
}

func printVersion(w io.Writer, info version.Info) {
	dirty := ""
	if info.Dirty {
		dirty = ", dirty"
	}

	fmt.Fprintf(w, "typst-intern %s (commit: %s, %s%s)\n", info.Version, info.GitHash, info.GoVersion, dirty)
}

// Package main provides the streamtap binary.
//
// streamtap runs byte objects through the file-analysis pipeline. In a live
// deployment the reassembly layer feeds the pipeline; the analyze command
// feeds local files instead so results can be produced offline.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/streamtap/streamtap/pkg/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "streamtap",
		Short:         "streamtap - streaming file-content analysis for monitored traffic",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newAnalyzeCmd())
	rootCmd.AddCommand(newVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("streamtap version %s\n", version.Version)
			cmd.Printf("Git commit: %s\n", version.GitCommit)
			cmd.Printf("Build date: %s\n", version.BuildDate)
			cmd.Printf("Go version: %s\n", version.GoVersion)
		},
	}
}

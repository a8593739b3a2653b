package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version and GitCommit are injected at build time via -ldflags, e.g.
// -ldflags "-X main.Version=v0.1.0 -X main.GitCommit=abc123".
var (
	Version   = "dev"
	GitCommit = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("policyplan %s (%s)\n", Version, GitCommit)
	},
}

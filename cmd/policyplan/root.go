// Command policyplan is the ambient CLI front end: "plan" renders a
// dry-run evaluation plan for a policy document, "serve" exposes the same
// functionality over HTTP, and "version" prints the build version.
//
// Command-tree layout (flags and subcommands registered in init, SilenceUsage
// and SilenceErrors on the root command) is grounded on this retrieval
// pack's jeremyhahn-go-keychain/internal/cli package — see DESIGN.md.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "policyplan",
	Short:         "policyplan - ODRL policy evaluation planner",
	Long:          "policyplan builds a dry-run evaluation plan for an ODRL-style authorization policy: which functions would fire, and which rules or constraints would be filtered out, without evaluating anything.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

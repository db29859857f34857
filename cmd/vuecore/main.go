package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ╦  ╦┬ ┬┌─┐┌─┐┌─┐┬─┐┌─┐
  ╚╗╔╝│ │├┤ │  │ │├┬┘├┤
   ╚╝ └─┘└─┘└─┘└─┘┴└─└─┘
`

func main() {
	rootCmd := &cobra.Command{
		Use:   "vuecore",
		Short: "A reactive component template compiler for Go",
		Long: `vuecore compiles templates into a static-root-annotated AST and
exposes a reactive core (dependencies, watchers, a synchronous
scheduler) for driving component instances.

  • Mustache-style template parsing with directive attributes
  • Static node/static-root optimization
  • Option merging and instance lifecycle
  • Hot-reload dev server`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		compileCmd(),
		devCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		os.Exit(1)
	}
}

func printBanner() {
	fmt.Print(banner)
}

func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}

func errorMsg(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "\033[31m✗\033[0m %s\n", fmt.Sprintf(format, args...))
}

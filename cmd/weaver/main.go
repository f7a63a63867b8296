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
  ╦ ╦┌─┐┌─┐┬  ┬┌─┐┬─┐
  ║║║├┤ ├─┤└┐┌┘├┤ ├┬┘
  ╚╩╝└─┘┴ ┴ └┘ └─┘┴└─
`

func main() {
	rootCmd := &cobra.Command{
		Use:   "weaver",
		Short: "The isomorphic streaming runtime for Go",
		Long: `Weaver is a server-driven, streaming-first web runtime for Go.

Build applications whose reactive state lives in a content-addressable
signal graph on the server, rendered as streamed HTML and kept live by
a thin JavaScript client. Features include:

  • A content-addressable signal/registry/propagation graph
  • Streaming SSR with out-of-order suspense flushes
  • Logic modules executed server-side via a worker pool
  • A build-time transform that turns define*(...) call sites into
    addressable, bundled, optionally CDN-hosted modules
  • Hot reload development server`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		devCmd(),
		buildCmd(),
		genCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		os.Exit(1)
	}
}

// printBanner prints the Weaver ASCII art banner.
func printBanner() {
	fmt.Print(banner)
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(format string, args ...any) {
	fmt.Printf("\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}

// errorMsg prints an error message.
func errorMsg(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "\033[31m✗\033[0m %s\n", fmt.Sprintf(format, args...))
}

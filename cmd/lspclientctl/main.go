// Command lspclientctl is a demonstration caller for the sans-I/O client
// in package lspclient: it owns everything the client itself refuses to
// own, spawning the language server, piping its stdio, scheduling reads,
// and exposing a CLI and metrics around it.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "lspclientctl",
		Short: "Drive a language server through the sans-I/O lspclient core",
	}
	root.PersistentFlags().String("server", "", "language server command to spawn, e.g. \"gopls\"")
	root.PersistentFlags().String("root-uri", "", "workspace root URI, e.g. \"file:///home/me/project\"")
	root.PersistentFlags().Bool("debug", false, "enable debug logging")
	root.PersistentFlags().Bool("watch", false, "watch opened files and send didChange on write")
	root.PersistentFlags().Int("metrics-port", 9090, "port to serve Prometheus /metrics on, 0 to disable")

	root.AddCommand(newRunCmd())
	root.AddCommand(newOpenCmd())
	root.AddCommand(newCompletionAtCmd())
	return root
}

package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Spawn the language server and keep the session alive until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			serverCmd, _ := cmd.Flags().GetString("server")
			rootURI, _ := cmd.Flags().GetString("root-uri")
			debug, _ := cmd.Flags().GetBool("debug")
			metricsPort, _ := cmd.Flags().GetInt("metrics-port")

			sess, err := newSession(serverCmd, rootURI, debug, metricsPort)
			if err != nil {
				return err
			}
			defer sess.close()

			if err := sess.flush(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return sess.readLoop(ctx)
		},
	}
}

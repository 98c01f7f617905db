package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/sansio/lspclient"
	"github.com/sansio/lspclient/internal/rpc"
)

func newCompletionAtCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "completion-at <file> <line> <character>",
		Short: "Open a file, request completions at a position, and print them",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			serverCmd, _ := cmd.Flags().GetString("server")
			rootURI, _ := cmd.Flags().GetString("root-uri")
			debug, _ := cmd.Flags().GetBool("debug")
			metricsPort, _ := cmd.Flags().GetInt("metrics-port")

			path := args[0]
			line, err := strconv.ParseUint(args[1], 10, 32)
			if err != nil {
				return fmt.Errorf("invalid line %q: %w", args[1], err)
			}
			character, err := strconv.ParseUint(args[2], 10, 32)
			if err != nil {
				return fmt.Errorf("invalid character %q: %w", args[2], err)
			}

			content, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}

			sess, err := newSession(serverCmd, rootURI, debug, metricsPort)
			if err != nil {
				return err
			}
			defer sess.close()

			uri := rpc.DocumentURI("file://" + path)
			if err := sess.client.DidOpen(rpc.TextDocumentItem{
				URI:        uri,
				LanguageID: languageIDFor(path),
				Version:    1,
				Text:       string(content),
			}); err != nil {
				return fmt.Errorf("didOpen: %w", err)
			}

			var requestID int64
			var requested bool
			deadline := time.After(10 * time.Second)
			for {
				if err := sess.flush(); err != nil {
					return err
				}
				for _, ev := range sess.client.Events() {
					switch e := ev.(type) {
					case lspclient.InitializedEvent:
						id, err := sess.client.Completion(rpc.CompletionParams{
							TextDocumentPositionParams: rpc.TextDocumentPositionParams{
								TextDocument: rpc.TextDocumentIdentifier{URI: uri},
								Position:     rpc.Position{Line: uint32(line), Character: uint32(character)},
							},
						})
						if err != nil {
							return fmt.Errorf("completion: %w", err)
						}
						sess.metrics.RequestsSent.WithLabelValues("completion").Inc()
						requestID, requested = id, true
					case lspclient.CompletionEvent:
						if requested && e.ID == requestID {
							for _, item := range e.List.Items {
								fmt.Println(item.Label)
							}
							return nil
						}
					case lspclient.RPCErrorEvent:
						if requested && e.ID == requestID {
							return fmt.Errorf("server error: %s", e.Err.Message)
						}
					}
				}

				buf := make([]byte, 4096)
				n, readErr := sess.stdout.Read(buf)
				if n > 0 {
					if feedErr := sess.client.Feed(buf[:n]); feedErr != nil {
						return feedErr
					}
				}
				if readErr != nil {
					return fmt.Errorf("read server stdout: %w", readErr)
				}
				select {
				case <-deadline:
					return fmt.Errorf("timed out waiting for completion response")
				default:
				}
			}
		},
	}
}

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/sansio/lspclient/internal/rpc"
)

func newOpenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "open <file>",
		Short: "Open a file with the language server, optionally watching it for changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			serverCmd, _ := cmd.Flags().GetString("server")
			rootURI, _ := cmd.Flags().GetString("root-uri")
			debug, _ := cmd.Flags().GetBool("debug")
			watch, _ := cmd.Flags().GetBool("watch")
			metricsPort, _ := cmd.Flags().GetInt("metrics-port")

			path := args[0]
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

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if watch {
				if err := sess.watcher.Add(path); err != nil {
					return fmt.Errorf("watch %s: %w", path, err)
				}
				go sess.watchFile(path, uri)
			}

			if err := sess.flush(); err != nil {
				return err
			}
			return sess.readLoop(ctx)
		},
	}
}

// watchFile turns fsnotify write events on path into full-text didChange
// notifications. It runs until the session's watcher is closed.
func (s *session) watchFile(path string, uri rpc.DocumentURI) {
	version := int32(1)
	for {
		select {
		case ev, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&fsnotify.Write == 0 {
				continue
			}
			content, err := os.ReadFile(path)
			if err != nil {
				s.logger.Error("reread watched file", "path", path, "error", err)
				continue
			}
			version++
			err = s.client.DidChange(rpc.VersionedTextDocumentIdentifier{
				TextDocumentIdentifier: rpc.TextDocumentIdentifier{URI: uri},
				Version:                version,
			}, []rpc.TextDocumentContentChangeEvent{rpc.NewFullChange(string(content))})
			if err != nil {
				s.logger.Error("didChange", "error", err)
				continue
			}
			if err := s.flush(); err != nil {
				s.logger.Error("flush after didChange", "error", err)
			}
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.logger.Error("watcher error", "error", err)
		}
	}
}

func languageIDFor(path string) string {
	for _, ext := range []struct{ suffix, lang string }{
		{".go", "go"}, {".py", "python"}, {".rs", "rust"}, {".ts", "typescript"},
		{".js", "javascript"}, {".dot", "dot"}, {".gv", "dot"},
	} {
		if len(path) > len(ext.suffix) && path[len(path)-len(ext.suffix):] == ext.suffix {
			return ext.lang
		}
	}
	return "plaintext"
}

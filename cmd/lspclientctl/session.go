package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sansio/lspclient"
	"github.com/sansio/lspclient/internal/metrics"
	"github.com/sansio/lspclient/internal/rpc"
)

// session wires the sans-I/O client to a spawned language server process:
// it owns the subprocess, the stdio pipes, the read loop, the logger, and
// (optionally) a filesystem watcher and a metrics endpoint. None of this
// lives inside package lspclient itself.
type session struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout *bufio.Reader

	client *lspclient.Client
	logger *slog.Logger
	id     uuid.UUID

	metrics *metrics.Metrics
	watcher *fsnotify.Watcher
}

// newSession spawns serverCmd and constructs the client around its stdio,
// the same shape as a bufio.Reader-fed read loop over a child process's
// stdout pipe.
func newSession(serverCmd string, rootURI string, debug bool, metricsPort int) (*session, error) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	sessionID := uuid.New()
	logger = logger.With("session", sessionID.String())

	parts := strings.Fields(serverCmd)
	if len(parts) == 0 {
		return nil, fmt.Errorf("--server is required")
	}
	cmd := exec.Command(parts[0], parts[1:]...)
	cmd.Env = os.Environ()
	cmd.Stderr = os.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", serverCmd, err)
	}

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	if metricsPort > 0 {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		go func() {
			addr := fmt.Sprintf("127.0.0.1:%d", metricsPort)
			logger.Info("serving metrics", "addr", addr)
			if err := http.ListenAndServe(addr, mux); err != nil {
				logger.Error("metrics server exited", "error", err)
			}
		}()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("new watcher: %w", err)
	}

	var rootURIPtr *rpc.DocumentURI
	if rootURI != "" {
		u := rpc.DocumentURI(rootURI)
		rootURIPtr = &u
	}
	version := "lspclientctl/dev"
	client := lspclient.New(lspclient.Config{
		RootURI:    rootURIPtr,
		ClientInfo: &rpc.ClientInfo{Name: "lspclientctl", Version: &version},
	})

	return &session{
		cmd:     cmd,
		stdin:   stdin,
		stdout:  bufio.NewReader(stdout),
		client:  client,
		logger:  logger,
		id:      sessionID,
		metrics: m,
		watcher: watcher,
	}, nil
}

// flush writes any bytes the client has queued and logs a trace line for
// the bytes sent.
func (s *session) flush() error {
	b := s.client.SendBytes()
	if len(b) == 0 {
		return nil
	}
	s.logger.Debug("sending bytes", "n", len(b))
	_, err := s.stdin.Write(b)
	return err
}

// readLoop feeds bytes from the server's stdout into the client until ctx
// is cancelled or the pipe closes, logging every event handed back.
func (s *session) readLoop(ctx context.Context) error {
	buf := make([]byte, 4096)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		n, err := s.stdout.Read(buf)
		if n > 0 {
			if feedErr := s.client.Feed(buf[:n]); feedErr != nil {
				s.metrics.DecodeErrors.Inc()
				return fmt.Errorf("feed: %w", feedErr)
			}
			s.logEvents()
			if flushErr := s.flush(); flushErr != nil {
				return fmt.Errorf("flush: %w", flushErr)
			}
		}
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("read server stdout: %w", err)
		}
	}
}

func (s *session) logEvents() {
	for _, ev := range s.client.Events() {
		s.metrics.EventsDispatched.WithLabelValues(eventKind(ev)).Inc()
		s.logger.Info("event", "kind", eventKind(ev))
	}
}

func eventKind(ev lspclient.Event) string {
	switch ev.(type) {
	case lspclient.InitializedEvent:
		return "initialized"
	case lspclient.CompletionEvent:
		return "completion"
	case lspclient.HoverEvent:
		return "hover"
	case lspclient.PublishDiagnosticsEvent:
		return "publishDiagnostics"
	case lspclient.ShowMessageEvent:
		return "showMessage"
	case lspclient.LogMessageEvent:
		return "logMessage"
	case lspclient.ProgressBeginEvent:
		return "progressBegin"
	case lspclient.ProgressReportEvent:
		return "progressReport"
	case lspclient.ProgressEndEvent:
		return "progressEnd"
	case lspclient.RPCErrorEvent:
		return "rpcError"
	case lspclient.ProtocolErrorEvent:
		return "protocolError"
	default:
		return "other"
	}
}

// close tears down the watcher and the child process.
func (s *session) close() error {
	s.watcher.Close()
	if s.stdin != nil {
		s.stdin.Close()
	}
	if s.cmd.Process != nil {
		return s.cmd.Process.Kill()
	}
	return nil
}

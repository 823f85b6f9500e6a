// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// serve.go - Stub backend command for the dora CLI.
//
// Command: serve
// Short:   Run the stub backend server
//
// Examples:
//   dora serve                 Serve on the default port (8000)
//   dora serve --port 9000     Serve on a custom port
//
// The stub keeps documents in memory and streams canned answers. It
// exists so the TUI and CLI can be exercised without the real
// retrieval backend.
package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jeranaias/dora-tui/internal/server"
)

// HandleServeCommand runs the stub backend until interrupted.
func HandleServeCommand(args Args) error {
	srv := server.NewServer(args.Port)

	if !args.Quiet {
		fmt.Println(TitleStyle.Render("dora stub backend"))
		fmt.Printf("%s http://127.0.0.1:%d\n", RenderLabel("Listening on"), srv.Port())
		fmt.Println(DimStyle.Render("Press Ctrl+C to stop."))
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-interrupt:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	if !args.Quiet {
		fmt.Println(DimStyle.Render("Server stopped."))
	}
	return nil
}

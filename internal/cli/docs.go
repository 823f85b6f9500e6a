// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// docs.go - Document corpus command handlers for the dora CLI.
//
// Handles the "dora docs" command family and the "dora upload"
// shorthand.
//
// Commands:
//   dora docs list             List ingested documents
//   dora docs add FILE...      Upload one or more documents
//   dora docs clear --confirm  Remove all documents
//   dora upload FILE...        Alias for docs add
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jeranaias/dora-tui/internal/api"
)

// =============================================================================
// DOCS DISPATCH
// =============================================================================

// HandleDocsCommand dispatches the "docs" subcommands.
func HandleDocsCommand(args Args) error {
	parser := NewArgParser(args.Raw)

	switch parser.Subcommand() {
	case "", "list", "ls":
		return runDocsList(args)
	case "add", "upload":
		return runDocsAdd(args, parser.PositionalFrom(1))
	case "clear", "delete-all":
		return runDocsClear(args, parser.BoolFlag("confirm"))
	default:
		return fmt.Errorf("unknown docs subcommand: %s\n\nAvailable: list, add, clear", parser.Subcommand())
	}
}

// HandleUploadCommand handles "dora upload FILE...".
func HandleUploadCommand(args Args) error {
	return runDocsAdd(args, args.Raw)
}

// =============================================================================
// LIST
// =============================================================================

func runDocsList(args Args) error {
	client := newClient(args)

	docs, err := client.ListDocuments(context.Background())
	if err != nil {
		return describeBackendError(err, client)
	}

	if args.JSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(map[string][]string{"documents": docs})
	}

	if len(docs) == 0 {
		fmt.Println(DimStyle.Render("No documents uploaded. Chat is disabled until one is added."))
		fmt.Println(DimStyle.Render("Upload one: dora upload FILE"))
		return nil
	}

	fmt.Println(TitleStyle.Render(fmt.Sprintf("Documents (%d)", len(docs))))
	for _, name := range docs {
		fmt.Println("  " + ValueStyle.Render(name))
	}
	return nil
}

// =============================================================================
// ADD / UPLOAD
// =============================================================================

func runDocsAdd(args Args, paths []string) error {
	if len(paths) == 0 {
		return fmt.Errorf("no files specified\n\nUsage: dora upload FILE...")
	}

	client := newClient(args)
	ctx := context.Background()

	// Validate everything locally before sending anything, so a bad
	// path in the middle of the list does not leave a partial upload.
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("cannot access %s: %w", path, err)
		}
		if !api.AllowedExtension(path) {
			return fmt.Errorf("unsupported file type: %s (want .pdf, .txt, or .md)", path)
		}
	}

	uploaded := 0
	for _, path := range paths {
		result, err := client.Upload(ctx, path)
		if err != nil {
			// Report what succeeded before failing.
			if uploaded > 0 {
				fmt.Println(DimStyle.Render(fmt.Sprintf("%d of %d uploaded before the failure", uploaded, len(paths))))
			}
			return describeBackendError(err, client)
		}
		uploaded++

		if !args.Quiet {
			fmt.Printf("%s %s (%d chunks)\n",
				SuccessStyle.Render("uploaded"),
				ValueStyle.Render(result.Filename),
				result.Chunks)
		}
	}

	if !args.Quiet && uploaded > 1 {
		fmt.Println(DimStyle.Render(fmt.Sprintf("%d documents uploaded", uploaded)))
	}
	return nil
}

// =============================================================================
// CLEAR
// =============================================================================

func runDocsClear(args Args, confirmed bool) error {
	if !confirmed {
		return fmt.Errorf("clearing removes all documents and disables chat\n\nRe-run with: dora docs clear --confirm")
	}

	client := newClient(args)

	// Best effort: the backend may drop the request, but the corpus is
	// treated as cleared regardless.
	if err := client.ClearDocuments(context.Background()); err != nil && !args.Quiet {
		fmt.Println(WarningStyle.Render("backend clear failed: " + err.Error()))
	}

	if !args.Quiet {
		fmt.Println(SuccessStyle.Render("Document corpus cleared."))
	}
	return nil
}

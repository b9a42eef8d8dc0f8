// Package cli provides the quill command line interface.
// It implements a driving adapter following hexagonal architecture principles.
package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/quill/internal/core/ports/driven"
	"github.com/custodia-labs/quill/internal/core/ports/driving"
	"github.com/custodia-labs/quill/internal/logger"
)

// closeTimeout bounds the final save when a workspace is closed.
const closeTimeout = 10 * time.Second

// version is set at build time via -ldflags.
var version = "dev"

var (
	verbose   bool
	ephemeral bool
)

// Services injected by the composition root.
var (
	settingsService driving.SettingsService
	workspaceOpener WorkspaceOpener
)

// Workspace is an opened note collection.
type Workspace struct {
	Notes driving.NoteService

	// Watcher reports changes made to the store by other processes.
	// Nil when the backend cannot watch.
	Watcher driven.Watchable

	// Release frees the store and speech engine once the notes are closed.
	// Optional.
	Release func() error
}

// OpenOptions controls how a workspace is opened.
type OpenOptions struct {
	// Ephemeral keeps notes in memory for the lifetime of the process.
	Ephemeral bool

	// Script replaces the configured dictation engine with a transcript script.
	Script string
}

// WorkspaceOpener builds a workspace from the current settings.
type WorkspaceOpener func(ctx context.Context, opts OpenOptions) (*Workspace, error)

var rootCmd = &cobra.Command{
	Use:   "quill",
	Short: "Local notes with dictation",
	Long: `Quill keeps personal notes on this machine.

Notes can be created, edited, pinned, searched and deleted from the command
line or the interactive terminal UI. Dictation appends transcribed speech to
the selected note when a speech engine is configured.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print diagnostic output")
	rootCmd.PersistentFlags().BoolVar(&ephemeral, "ephemeral", false, "keep notes in memory only")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with ctx, which commands use for
// cancellation.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetSettingsService sets the settings service.
func SetSettingsService(s driving.SettingsService) {
	settingsService = s
}

// SetWorkspaceOpener sets the function used to open the note collection.
func SetWorkspaceOpener(o WorkspaceOpener) {
	workspaceOpener = o
}

// openWorkspace opens and loads the note collection. Callers must call
// closeWorkspace when done so pending edits are written.
func openWorkspace(cmd *cobra.Command, opts OpenOptions) (*Workspace, error) {
	if workspaceOpener == nil {
		return nil, errors.New("note service not configured")
	}
	opts.Ephemeral = opts.Ephemeral || ephemeral

	ctx := commandContext(cmd)
	ws, err := workspaceOpener(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open notes: %w", err)
	}
	if err := ws.Notes.Open(ctx); err != nil {
		return nil, fmt.Errorf("failed to load notes: %w", err)
	}
	return ws, nil
}

func closeWorkspace(cmd *cobra.Command, ws *Workspace) {
	// Pending edits are written even after Ctrl+C cancelled the command.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(commandContext(cmd)), closeTimeout)
	defer cancel()

	if err := ws.Notes.Close(ctx); err != nil {
		logger.Error("failed to save notes: %v", err)
	}
	if ws.Release != nil {
		if err := ws.Release(); err != nil {
			logger.Warn("release workspace: %v", err)
		}
	}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

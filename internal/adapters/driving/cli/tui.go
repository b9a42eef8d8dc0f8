package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/quill/internal/adapters/driving/tui"
	"github.com/custodia-labs/quill/internal/logger"
)

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for quill.

The note list sits on the left and the editor on the right. Edits are saved
as you type.

Controls:
  ↑/k, ↓/j - Move through notes
  Enter    - Edit the selected note
  /        - Search
  Tab      - Cycle focus
  ctrl+n   - New note
  ctrl+p   - Pin / unpin
  ctrl+d   - Delete
  ctrl+r   - Start / stop dictation
  Esc      - Back to the list
  ?        - Toggle help
  ctrl+c   - Quit`,
	RunE: runTUI,
}

// errNotTerminal is returned when stdout cannot host the TUI.
var errNotTerminal = errors.New("the terminal UI needs an interactive terminal")

// isTerminal reports whether stdout is interactive. Replaced in tests.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) (err error) {
	if !isTerminal() {
		return errNotTerminal
	}

	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("TUI panic: %v", r)
		}
	}()

	ws, err := openWorkspace(cmd, OpenOptions{})
	if err != nil {
		return err
	}
	defer closeWorkspace(cmd, ws)

	app, err := tui.NewApp(tui.NewPorts(ws.Notes, ws.Watcher))
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(commandContext(cmd))

	// Log lines would corrupt the alternate screen.
	logger.SetOutput(io.Discard)
	defer logger.SetOutput(os.Stderr)

	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

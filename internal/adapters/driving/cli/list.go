package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/quill/internal/core/domain"
	"github.com/custodia-labs/quill/internal/logger"
)

var (
	listJSON  bool
	listWatch bool
)

var listCmd = &cobra.Command{
	Use:   "list [query]",
	Short: "List notes",
	Long: `Lists notes with pinned notes first, then the most recently edited.

An optional query keeps only notes whose title or body contains it,
ignoring case. With --watch the list is printed again whenever another
quill process changes the notes.`,
	Aliases: []string{"ls"},
	Args:    cobra.MaximumNArgs(1),
	RunE:    runList,
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "output notes as JSON")
	listCmd.Flags().BoolVarP(&listWatch, "watch", "w", false, "print again when notes change")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	query := ""
	if len(args) > 0 {
		query = args[0]
	}

	ws, err := openWorkspace(cmd, OpenOptions{})
	if err != nil {
		return err
	}
	defer closeWorkspace(cmd, ws)

	if err := printNotes(cmd, ws.Notes.Search(query)); err != nil {
		return err
	}
	if !listWatch {
		return nil
	}

	if ws.Watcher == nil {
		return errors.New("this storage backend cannot be watched")
	}
	ctx := commandContext(cmd)
	changes, err := ws.Watcher.Watch(ctx)
	if err != nil {
		return fmt.Errorf("failed to watch notes: %w", err)
	}
	for range changes {
		if err := ws.Notes.Reload(ctx); err != nil {
			logger.Warn("reload notes: %v", err)
			continue
		}
		cmd.Println()
		if err := printNotes(cmd, ws.Notes.Search(query)); err != nil {
			return err
		}
	}
	return nil
}

func printNotes(cmd *cobra.Command, notes []domain.Note) error {
	if listJSON {
		return outputNotesJSON(cmd, notes)
	}
	outputNotesTable(cmd, notes)
	return nil
}

func outputNotesJSON(cmd *cobra.Command, notes []domain.Note) error {
	data, err := json.MarshalIndent(notes, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal notes: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputNotesTable(cmd *cobra.Command, notes []domain.Note) {
	if len(notes) == 0 {
		cmd.Println("No notes found.")
		return
	}

	for i := range notes {
		badge := ""
		if notes[i].Pinned {
			badge = "📌 "
		}
		cmd.Printf("  %s%s\n", badge, notes[i].DisplayTitle())
		cmd.Printf("      %s\n", notes[i].ID)
		cmd.Printf("      %s\n", notes[i].Preview())
		cmd.Printf("      Updated: %s\n", formatTime(notes[i]))
		cmd.Println()
	}

	if len(notes) == 1 {
		cmd.Println("1 note")
		return
	}
	cmd.Printf("%d notes\n", len(notes))
}

package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/quill/internal/core/domain"
)

// dateLayout formats note timestamps for display.
const dateLayout = "2006-01-02 15:04"

var (
	newTitle string
	newBody  string

	editTitle  string
	editBody   string
	editAppend bool
)

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Create a note",
	Long: `Creates a note titled "New note" with an empty body and prints its id.
Use --title and --body to fill it in straight away.`,
	Args: cobra.NoArgs,
	RunE: runNew,
}

var showCmd = &cobra.Command{
	Use:   "show [note-id]",
	Short: "Print a note",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

var editCmd = &cobra.Command{
	Use:   "edit [note-id]",
	Short: "Change a note's title or body",
	Long: `Replaces the title and/or body of a note.

Pass --body - to read the body from standard input, for example:
  pbpaste | quill edit 3f2a... --body -

With --append the body text is added to the end of the note instead of
replacing it.`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

var pinCmd = &cobra.Command{
	Use:   "pin [note-id]",
	Short: "Pin or unpin a note",
	Long:  `Toggles the pin on a note. Pinned notes are listed first.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runPin,
}

var deleteCmd = &cobra.Command{
	Use:   "delete [note-id]",
	Short: "Delete a note",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func init() {
	newCmd.Flags().StringVarP(&newTitle, "title", "t", "", "note title")
	newCmd.Flags().StringVarP(&newBody, "body", "b", "", "note body")

	editCmd.Flags().StringVarP(&editTitle, "title", "t", "", "new title")
	editCmd.Flags().StringVarP(&editBody, "body", "b", "", `new body, or "-" to read standard input`)
	editCmd.Flags().BoolVarP(&editAppend, "append", "a", false, "append the body instead of replacing it")

	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(pinCmd)
	rootCmd.AddCommand(deleteCmd)
}

func runNew(cmd *cobra.Command, _ []string) error {
	ws, err := openWorkspace(cmd, OpenOptions{})
	if err != nil {
		return err
	}
	defer closeWorkspace(cmd, ws)

	note, err := ws.Notes.Create(commandContext(cmd))
	if err != nil {
		return fmt.Errorf("failed to create note: %w", err)
	}
	if cmd.Flags().Changed("title") {
		if err := ws.Notes.SetTitle(newTitle); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("body") {
		if err := ws.Notes.SetBody(newBody); err != nil {
			return err
		}
	}

	cmd.Println(note.ID)
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace(cmd, OpenOptions{})
	if err != nil {
		return err
	}
	defer closeWorkspace(cmd, ws)

	note, err := ws.Notes.Get(args[0])
	if err != nil {
		return noteError(err)
	}

	cmd.Println(note.DisplayTitle())
	cmd.Printf("Last edited: %s\n", formatTime(note))
	if note.Pinned {
		cmd.Println("Pinned: yes")
	}
	cmd.Println()
	if note.Body == "" {
		cmd.Println(note.Preview())
		return nil
	}
	cmd.Println(note.Body)
	return nil
}

func runEdit(cmd *cobra.Command, args []string) error {
	titleSet := cmd.Flags().Changed("title")
	bodySet := cmd.Flags().Changed("body")
	if !titleSet && !bodySet {
		return errors.New("nothing to change: pass --title and/or --body")
	}
	if editAppend && !bodySet {
		return errors.New("--append needs --body")
	}

	body := editBody
	if bodySet && body == "-" {
		data, err := readPiped(cmd.InOrStdin())
		if err != nil {
			return err
		}
		body = data
	}

	ws, err := openWorkspace(cmd, OpenOptions{})
	if err != nil {
		return err
	}
	defer closeWorkspace(cmd, ws)

	if err := ws.Notes.Select(args[0]); err != nil {
		return noteError(err)
	}
	if titleSet {
		if err := ws.Notes.SetTitle(editTitle); err != nil {
			return err
		}
	}
	if bodySet {
		if editAppend {
			err = ws.Notes.AppendBody(body)
		} else {
			err = ws.Notes.SetBody(body)
		}
		if err != nil {
			return err
		}
	}

	note, _ := ws.Notes.Selected()
	cmd.Printf("Updated %s\n", note.DisplayTitle())
	return nil
}

func runPin(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace(cmd, OpenOptions{})
	if err != nil {
		return err
	}
	defer closeWorkspace(cmd, ws)

	if err := ws.Notes.Select(args[0]); err != nil {
		return noteError(err)
	}
	pinned, err := ws.Notes.TogglePin(commandContext(cmd))
	if err != nil {
		return err
	}

	note, _ := ws.Notes.Selected()
	if pinned {
		cmd.Printf("Pinned %s\n", note.DisplayTitle())
	} else {
		cmd.Printf("Unpinned %s\n", note.DisplayTitle())
	}
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace(cmd, OpenOptions{})
	if err != nil {
		return err
	}
	defer closeWorkspace(cmd, ws)

	if err := ws.Notes.Select(args[0]); err != nil {
		return noteError(err)
	}
	note, _ := ws.Notes.Selected()
	if err := ws.Notes.Delete(commandContext(cmd)); err != nil {
		return err
	}

	cmd.Printf("Deleted %s\n", note.DisplayTitle())
	return nil
}

// readPiped reads r to the end. A terminal is refused so the command never
// sits waiting for input nobody is going to type.
func readPiped(r io.Reader) (string, error) {
	if f, ok := r.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return "", errors.New("--body - expects input on a pipe")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read body: %w", err)
	}
	return strings.TrimSuffix(string(data), "\n"), nil
}

func noteError(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("%s: %w", domain.UserMessage(err), err)
	}
	return err
}

func formatTime(n domain.Note) string {
	if n.UpdatedAt.IsZero() {
		return "never"
	}
	return n.UpdatedAt.Local().Format(dateLayout)
}

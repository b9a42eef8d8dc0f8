package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/quill/internal/core/domain"
)

var dictateScript string

var dictateCmd = &cobra.Command{
	Use:   "dictate [note-id]",
	Short: "Append dictated speech to a note",
	Long: `Starts the configured speech engine and appends what it hears to the
note. Dictation runs until the engine stops or the command is interrupted.

Configure an engine first:
  quill settings set dictation.engine command
  quill settings set dictation.command "my-recogniser --json"

or replay a transcript script:
  quill dictate 3f2a... --script demo.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runDictate,
}

func init() {
	dictateCmd.Flags().StringVarP(&dictateScript, "script", "s", "", "replay a YAML transcript script instead of the configured engine")
	rootCmd.AddCommand(dictateCmd)
}

func runDictate(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace(cmd, OpenOptions{Script: dictateScript})
	if err != nil {
		return err
	}
	defer closeWorkspace(cmd, ws)

	notes := ws.Notes
	if err := notes.Select(args[0]); err != nil {
		return noteError(err)
	}

	ctx := commandContext(cmd)
	if err := notes.StartRecording(ctx); err != nil {
		return errors.New(notes.RecordingStatus().Message)
	}
	cmd.PrintErrln(notes.RecordingStatus().Message)

	events := notes.RecognitionEvents()
	done := ctx.Done()
	for events != nil {
		select {
		case <-done:
			done = nil
			if err := notes.StopRecording(); err != nil {
				return fmt.Errorf("failed to stop dictation: %w", err)
			}
		case ev, ok := <-events:
			if !ok {
				events = nil
				break
			}
			notes.HandleRecognition(ev)
			if ev.Type == domain.RecognitionEnd &&
				notes.RecordingStatus().State != domain.RecordingListening {
				events = nil
			}
		}
	}

	status := notes.RecordingStatus()
	note, err := notes.Get(args[0])
	if err != nil {
		return noteError(err)
	}
	cmd.Println(note.Body)
	if status.State == domain.RecordingError {
		return errors.New(status.Message)
	}
	return nil
}

package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure storage, editor and dictation settings.

Settings live in ~/.quill/config.toml.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change a setting",
	Long: `Change a single setting.

Available keys:
  storage.backend                    json | sqlite | memory
  storage.data_dir                   directory holding the notes
  editor.save_delay_ms               debounce window for edits, in milliseconds
  dictation.engine                   none | script | command
  dictation.language                 language tag passed to the engine
  dictation.command                  recogniser command line
  dictation.script                   path of a YAML transcript script
  dictation.discard_interim_on_stop  true | false`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Storage]")
	cmd.Printf("  Backend: %s\n", settings.Storage.Backend.Description())
	dataDir := settings.Storage.DataDir
	if dataDir == "" {
		dataDir = "(default)"
	}
	cmd.Printf("  Data dir: %s\n", dataDir)
	cmd.Println()

	cmd.Println("[Editor]")
	cmd.Printf("  Save delay: %s\n", settings.Editor.SaveDelay)
	cmd.Println()

	d := settings.Dictation
	cmd.Println("[Dictation]")
	cmd.Printf("  Engine: %s\n", d.Engine.Description())
	cmd.Printf("  Language: %s\n", d.Language)
	if len(d.Command) > 0 {
		cmd.Printf("  Command: %s\n", strings.Join(d.Command, " "))
	}
	if d.Script != "" {
		cmd.Printf("  Script: %s\n", d.Script)
	}
	cmd.Printf("  Discard interim on stop: %t\n", d.DiscardInterimOnStop)
	status := "configured"
	if !d.IsConfigured() {
		status = "not configured"
	}
	cmd.Printf("  Status: %s\n", status)

	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key, value := args[0], args[1]
	if err := settingsService.Set(key, value); err != nil {
		return err
	}
	cmd.Printf("%s = %s\n", key, value)
	return nil
}

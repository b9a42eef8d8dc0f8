// Command quill keeps personal notes on this machine, with dictation.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/quill/internal/adapters/driven/config/file"
	"github.com/custodia-labs/quill/internal/adapters/driving/cli"
	"github.com/custodia-labs/quill/internal/core/services"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	configDir, err := file.DefaultDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "quill: locating config directory: %v\n", err)
		return err
	}
	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "quill: loading config: %v\n", err)
		return err
	}
	settingsService := services.NewSettingsService(configStore)

	cli.SetVersion(version)
	cli.SetSettingsService(settingsService)
	cli.SetWorkspaceOpener(newWorkspaceOpener(configDir, settingsService))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// cobra prints the error.
	return cli.ExecuteContext(ctx)
}

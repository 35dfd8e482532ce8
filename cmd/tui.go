package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/nibzard/studyplan/internal/config"
	"github.com/nibzard/studyplan/internal/kv"
	"github.com/nibzard/studyplan/internal/logging"
	"github.com/nibzard/studyplan/internal/ui"
)

// tuiCommand launches the TUI.
func tuiCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("studyplan tui", flag.ContinueOnError)
	watch := fs.Bool("watch", true, "Reload when the task file changes on disk")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if !ui.IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}

	// Keep log output off the alt screen.
	var logw io.Writer = io.Discard
	if cfg.Backend == string(kv.BackendFile) {
		sink, err := logging.OpenFile(cfg.DataDir)
		if err == nil {
			defer sink.Close()
			logw = sink.Writer()
		}
	}

	a, err := openApp(cfg, logw)
	if err != nil {
		return err
	}
	defer a.Close()

	opts := []ui.TUIOption{ui.WithDateLayout(cfg.DateFormat)}
	if fileStore, ok := a.backend.(*kv.FileStore); ok && *watch {
		opts = append(opts, ui.WithWatcher(fileStore))
	}
	return ui.RunTUI(ctx, a.store, a.engine, opts...)
}

// Package main is the entry point for the png-scan application.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term" //nolint:depguard // Required for TTY detection

	"github.com/joe/png-scan/internal/config"
	"github.com/joe/png-scan/internal/logger"
	"github.com/joe/png-scan/internal/scanengine"
	"github.com/joe/png-scan/internal/tui"
	"github.com/joe/png-scan/internal/tui/screens"
	"github.com/joe/png-scan/pkg/cpufeatures"
)

var errNoRoot = errors.New("a root path is required when not running the terminal UI")

func main() {
	cfg, err := config.ParseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if cfg.About {
		fmt.Println(screens.RenderFeatures(cpufeatures.Detect()))

		return
	}

	tty := term.IsTerminal(int(os.Stdout.Fd()))

	if cfg.Plain || !tty {
		err = runConsole(cfg)
	} else {
		err = runTUI(cfg)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runConsole checks the root one file per interval, logging each result.
// Ctrl+C stops after the current file.
func runConsole(cfg *config.Config) error {
	if cfg.Path == "" {
		return errNoRoot
	}

	log := logger.NewConsoleLogger(os.Stdout, cfg.LogLevel)

	engine, err := scanengine.Open(cfg, cfg.Path, scanengine.WithEventEmitter(scanengine.NewLogEmitter(log)))
	if err != nil {
		return err
	}
	defer engine.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err = engine.Run(ctx, cfg.Interval)
	if errors.Is(err, context.Canceled) {
		stats := engine.Status().Stats
		log.Logf(logger.LevelWarn, "interrupted after %d files", stats.All)

		return nil
	}

	return err
}

func runTUI(cfg *config.Config) error {
	program := tea.NewProgram(tui.NewAppModel(cfg), tea.WithAltScreen())

	final, err := program.Run()
	if app, ok := final.(tui.AppModel); ok {
		app.Close()
	}

	return err
}

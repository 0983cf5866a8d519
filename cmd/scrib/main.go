package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/xonecas/scrib/internal/config"
	"github.com/xonecas/scrib/internal/editor"
	"github.com/xonecas/scrib/internal/history"
	"github.com/xonecas/scrib/internal/shell"
	"github.com/xonecas/scrib/internal/terminal"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "scrib: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", config.DefaultPath(), "path to the config file")
	showVersion := flag.Bool("version", false, "print the version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("scrib", editor.Version)
		return nil
	}
	if flag.NArg() > 1 {
		return fmt.Errorf("expected at most one file argument, got %d", flag.NArg())
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	setupLogging(cfg)

	hist := openHistory(cfg)
	defer hist.Close()

	term, err := terminal.Open()
	if err != nil {
		return err
	}
	// Raw mode must be undone on every exit path, including errors below.
	defer term.Restore()

	ed, err := editor.New(term, cfg, shell.New(""), hist)
	if err != nil {
		return err
	}
	if flag.NArg() == 1 {
		if err := ed.Open(flag.Arg(0)); err != nil {
			return err
		}
	}
	return ed.Run()
}

// setupLogging wires the global zerolog logger to the configured file.
// Stdout belongs to the editor screen, so with no log file configured the
// logs go nowhere.
func setupLogging(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	var w io.Writer = io.Discard
	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err == nil {
			if f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644); err == nil {
				w = f
			}
		}
	}
	log.Logger = zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// openHistory opens the cursor-position store. Failure is logged and
// ignored: the editor works fine without position restore.
func openHistory(cfg *config.Config) *history.Store {
	if cfg.HistoryFile == "" {
		return nil
	}
	hist, err := history.Open(cfg.HistoryFile)
	if err != nil {
		log.Warn().Err(err).Str("path", cfg.HistoryFile).Msg("cursor history unavailable")
		return nil
	}
	return hist
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/chr1sbest/ironrun/internal/commands"
	"github.com/chr1sbest/ironrun/internal/config"
	"github.com/chr1sbest/ironrun/internal/logger"
	"github.com/chr1sbest/ironrun/internal/roster"
	"github.com/chr1sbest/ironrun/internal/runstate"
	"github.com/chr1sbest/ironrun/internal/status"
	"github.com/chr1sbest/ironrun/internal/tracker"
)

func serveCmd(args []string) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	configFile := fs.String("config", filepath.Join(config.DefaultDir, "config.json"), "Path to config file")
	rosterFile := fs.String("roster", "", "Roster file (overrides roster_file)")
	exportDir := fs.String("export-dir", "", "Export directory (overrides export_dir)")
	noExport := fs.Bool("no-export", false, "Disable the JSON export")
	logLevel := fs.String("log-level", "", "Log level: debug, info, warn, error")
	showStatus := fs.Bool("status", false, "Draw a progress line on stderr")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg, err := config.NewLoader(config.DefaultDir).Load(*configFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *rosterFile != "" {
		cfg.RosterFile = *rosterFile
	}
	if *exportDir != "" {
		cfg.ExportDir = *exportDir
	}
	if *noExport {
		cfg.ExportDir = ""
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if err := config.ValidateConfig(cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	// With -status the progress line owns stderr and console logs are
	// printed above it.
	var progress *status.Writer
	var console io.Writer = os.Stderr
	if *showStatus {
		progress = status.NewWithWriter(os.Stderr)
		console = progress.LogWriter()
		defer progress.Clear()
	}

	log, closeLog, err := buildLogger(cfg, console)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer closeLog()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case sig := <-sigCh:
			log.Info("shutting down", logger.F("signal", sig.String()))
			cancel()
		case <-ctx.Done():
		}
	}()

	return serve(ctx, cfg, os.Stdin, os.Stdout, progress, log)
}

// serve wires the roster, exporter and run manager together and answers
// commands from in until EOF or ctx is cancelled. A non-nil progress
// writer is redrawn after every transition.
func serve(ctx context.Context, cfg *config.Config, in io.Reader, out io.Writer, progress *status.Writer, log logger.Logger) int {
	r, err := roster.Load(cfg.RosterFile)
	if err != nil {
		log.Error("failed to load roster", logger.F("error", err.Error()))
		return 1
	}
	store := roster.NewStore(r)
	log.Info("roster loaded", logger.F("name", r.Name), logger.F("characters", len(r.Characters)))

	if cfg.WatchRoster && cfg.RosterFile != "" {
		stopWatch, err := watchRoster(ctx, cfg.RosterFile, store, log)
		if err != nil {
			log.Error("failed to watch roster", logger.F("error", err.Error()))
			return 1
		}
		defer stopWatch()
	}

	opts := []runstate.Option{runstate.WithLogger(log)}
	if progress != nil {
		opts = append(opts, runstate.WithObserver(progress))
	}

	if cfg.ExportDir != "" {
		trk := tracker.NewWriter(cfg.ExportDir)
		if err := trk.EnsureDir(); err != nil {
			log.Error("failed to prepare export", logger.F("error", err.Error()))
			return 1
		}
		sessionID := tracker.NewSessionID()
		releaseLock, err := trk.AcquireLock(sessionID)
		if err != nil {
			log.Error("failed to acquire export lock", logger.F("error", err.Error()))
			return 1
		}
		defer func() { _ = releaseLock() }()

		exp := tracker.NewExporter(trk, sessionID,
			tracker.WithExportLogger(log.WithFields(logger.F("component", "export"))))
		exportCtx, stopExport := context.WithCancel(context.Background())
		go exp.Run(exportCtx)
		defer func() {
			stopExport()
			<-exp.Done()
		}()

		opts = append(opts, runstate.WithObserver(exp))
		log.Info("exporting run state", logger.F("dir", cfg.ExportDir), logger.F("session_id", sessionID))
	}

	svc := &commands.Service{
		Runs:   runstate.New(opts...),
		Roster: store,
		Seed:   cfg.Seed,
		Now:    time.Now,
	}
	host := commands.NewHost(commands.NewServiceRegistry(svc), log)

	if err := host.Serve(ctx, in, out); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("host stopped", logger.F("error", err.Error()))
		return 1
	}
	return 0
}

func watchRoster(ctx context.Context, path string, store *roster.Store, log logger.Logger) (func(), error) {
	w, err := roster.NewWatcher(path, store)
	if err != nil {
		return nil, err
	}
	watchCtx, cancel := context.WithCancel(ctx)
	if err := w.Start(watchCtx); err != nil {
		cancel()
		_ = w.Stop()
		return nil, err
	}

	go func() {
		for ev := range w.Events() {
			if ev.Error != nil {
				log.Warn("roster reload failed", logger.F("path", ev.Path), logger.F("error", ev.Error.Error()))
				continue
			}
			log.Info("roster reloaded", logger.F("path", ev.Path), logger.F("characters", len(ev.Roster.Characters)))
		}
	}()

	return func() {
		cancel()
		_ = w.Stop()
	}, nil
}

func buildLogger(cfg *config.Config, stderr io.Writer) (logger.Logger, func(), error) {
	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	console := logger.NewStreamLogger(stderr, level)
	if cfg.LogFile == "" {
		return console, func() {}, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	file, err := logger.NewFileLogger(cfg.LogFile, level)
	if err != nil {
		return nil, nil, err
	}
	return logger.NewMultiLogger(console, file), func() { _ = file.Close() }, nil
}

// ABOUTME: CLI entrypoint for the frond markup checker with file, DOT-export, and server modes.
// ABOUTME: Wires the template front end, the matcher pass, diagnostic printing, and signal handling.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frond-lang/frond/dot"
	"github.com/frond-lang/frond/matcher"
	"github.com/frond-lang/frond/server"
	"github.com/frond-lang/frond/template"
)

var version = "dev"

// Exit codes: 0 clean, 1 diagnostics found, 2 usage/parse/internal error.
const (
	exitOK          = 0
	exitDiagnostics = 1
	exitError       = 2
)

// config holds all CLI configuration parsed from flags and positional arguments.
type config struct {
	serverMode  bool
	addr        string
	emitDot     bool
	configFile  string
	noColor     bool
	showVersion bool
	files       []string
}

func main() {
	cfg := parseFlags()

	if cfg.showVersion {
		fmt.Printf("frondc %s\n", version)
		os.Exit(exitOK)
	}

	os.Exit(run(cfg))
}

// parseFlags parses command-line flags and returns a populated config.
func parseFlags() config {
	var cfg config

	fs := flag.NewFlagSet("frondc", flag.ContinueOnError)
	fs.BoolVar(&cfg.serverMode, "server", false, "Start HTTP check service")
	fs.StringVar(&cfg.addr, "addr", ":8460", "Listen address for -server")
	fs.BoolVar(&cfg.emitDot, "dot", false, "Print each template's control-flow graph as Graphviz DOT")
	fs.StringVar(&cfg.configFile, "config", "", "Path to frond.yaml project config")
	fs.BoolVar(&cfg.noColor, "no-color", false, "Disable styled diagnostic output")
	fs.BoolVar(&cfg.showVersion, "version", false, "Print version and exit")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: frondc [flags] template-file...\n\n")
		fmt.Fprintf(os.Stderr, "Validates that every control-flow path through each template\n")
		fmt.Fprintf(os.Stderr, "produces balanced markup.\n\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(exitOK)
		}
		os.Exit(exitError)
	}

	cfg.files = fs.Args()
	return cfg
}

// run dispatches to the appropriate mode based on the config.
func run(cfg config) int {
	projCfg, err := loadConfig(cfg.configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return exitError
	}

	if cfg.serverMode {
		return runServer(cfg, projCfg)
	}

	if len(cfg.files) == 0 {
		fmt.Fprintln(os.Stderr, "error: no template files given (try -h)")
		return exitError
	}

	return checkFiles(cfg, projCfg)
}

// checkFiles validates each file in turn, printing all diagnostics. The
// worst outcome across files decides the exit code.
func checkFiles(cfg config, projCfg *projectConfig) int {
	printer := newDiagnosticPrinter(os.Stdout, cfg.noColor)

	var opts []template.Option
	if len(projCfg.VoidTags) > 0 {
		opts = append(opts, template.WithVoidElements(projCfg.VoidTags...))
	}

	exit := exitOK
	for _, file := range cfg.files {
		source, err := os.ReadFile(file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			exit = exitError
			continue
		}

		result, err := matcher.CheckSource(file, string(source), opts...)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: error: %v\n", file, err)
			exit = exitError
			continue
		}

		if cfg.emitDot {
			fmt.Print(dot.Serialize(result.Graph))
		}

		for _, d := range result.Diagnostics {
			printer.print(d)
		}
		if !result.OK() && exit == exitOK {
			exit = exitDiagnostics
		}
	}

	return exit
}

// runServer starts the HTTP check service and blocks until interrupted.
func runServer(cfg config, projCfg *projectConfig) int {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	addr := cfg.addr
	if projCfg.Addr != "" && cfg.addr == ":8460" {
		addr = projCfg.Addr
	}

	var opts []server.Option
	if len(projCfg.VoidTags) > 0 {
		opts = append(opts, server.WithVoidElements(projCfg.VoidTags...))
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           server.New(logger, opts...).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("check service listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			return exitError
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed", "error", err)
			return exitError
		}
	}

	return exitOK
}

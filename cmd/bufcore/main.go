// Package main is the entry point for the bufcore stream viewer.
//
// It opens the given files into buffers and, when -fifo is set, streams
// a pipe into the *fifo* buffer, mirroring each burst to stdout.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/dshills/bufcore/internal/buffer"
	"github.com/dshills/bufcore/internal/bufstore"
	"github.com/dshills/bufcore/internal/config"
	"github.com/dshills/bufcore/internal/diag"
	"github.com/dshills/bufcore/internal/evloop"
	"github.com/dshills/bufcore/internal/fifo"
	"github.com/dshills/bufcore/internal/hook"
	"github.com/dshills/bufcore/internal/log"
	"github.com/dshills/bufcore/internal/snapshot"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

const fifoBufferName = "*fifo*"

func main() {
	os.Exit(run())
}

type options struct {
	configPath string
	logLevel   string
	fifoPath   string
	scroll     bool
	hookScript string
	files      []string
}

func run() int {
	opts := parseFlags()

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	level := cfg.Log.Level
	if opts.logLevel != "" {
		level = opts.logLevel
	}
	logger := log.New(log.Config{
		Level:  log.ParseLevel(level),
		Output: os.Stderr,
		Prefix: "bufcore",
	})

	store := bufstore.New(bufstore.WithDefaultTabWidth(cfg.TabWidth))
	hooks := hook.NewManager()
	sink := diag.New(store)

	if opts.hookScript != "" {
		script, err := os.ReadFile(opts.hookScript)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		h, err := hook.NewLuaHandler("user", 0, string(script), "on_hook",
			hook.WithLuaErrorFunc(func(e error) {
				logger.Warn("hook script: %v", e)
			}))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		defer h.Close()
		for _, ev := range []hook.Event{
			hook.BufOpenFile, hook.BufNewFile,
			hook.BufOpenFifo, hook.BufReadFifo, hook.BufCloseFifo,
		} {
			hooks.Register(ev, h)
		}
	}

	loader := snapshot.NewLoader(store,
		snapshot.WithHooks(hooks), snapshot.WithLogger(logger))
	for _, path := range opts.files {
		if _, err := loader.OpenOrCreate(path, buffer.FlagNone); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		sink.Write(fmt.Sprintf("opened %s", path))
	}

	if opts.fifoPath == "" {
		logger.Info("%d buffer(s) open, no stream requested", store.Count())
		return 0
	}

	return stream(opts, cfg, store, hooks, logger, sink)
}

// stream attaches the fifo path and runs the event loop until the
// stream closes or a signal arrives.
func stream(opts options, cfg config.Settings, store *bufstore.Store,
	hooks *hook.Manager, logger *log.Logger, sink *diag.Sink) int {

	fd, err := unix.Open(opts.fifoPath, unix.O_RDONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: opening %s: %v\n", opts.fifoPath, err)
		return 1
	}

	loop := evloop.New()
	ingester := fifo.New(store, loop,
		fifo.WithHooks(hooks), fifo.WithLogger(logger))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hooks.RegisterFunc(hook.BufReadFifo, "mirror", -10,
		func(ev hook.Event, bufName, payload string) {
			fmt.Print(payload)
		})
	hooks.RegisterFunc(hook.BufCloseFifo, "shutdown", -10,
		func(ev hook.Event, bufName, payload string) {
			cancel()
		})

	scroll := opts.scroll || cfg.Fifo.Scroll
	if _, err := ingester.Attach(fifoBufferName, fd, buffer.FlagNone, scroll); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	sink.Write(fmt.Sprintf("streaming %s", opts.fifoPath))

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signals
		cancel()
	}()

	if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	// A signal may land while the stream is still attached.
	if err := ingester.Detach(fifoBufferName); err != nil && !errors.Is(err, fifo.ErrNotAttached) {
		logger.Warn("detach: %v", err)
	}
	return 0
}

func parseFlags() options {
	var opts options
	var showVersion bool

	flag.StringVar(&opts.configPath, "config", "", "Path to configuration file")
	flag.StringVar(&opts.configPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.StringVar(&opts.fifoPath, "fifo", "", "Stream this pipe into the *fifo* buffer")
	flag.BoolVar(&opts.scroll, "scroll", false, "Let the stream buffer scroll away from its first line")
	flag.StringVar(&opts.hookScript, "hooks", "", "Lua script whose on_hook function receives buffer events")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "bufcore - buffer and stream utility\n\n")
		fmt.Fprintf(os.Stderr, "Usage: bufcore [options] [files...]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  bufcore file.txt                 Open a file into a buffer\n")
		fmt.Fprintf(os.Stderr, "  bufcore -fifo /tmp/out           Follow a pipe\n")
		fmt.Fprintf(os.Stderr, "  bufcore -hooks hooks.lua file.txt  Run a hook script\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("bufcore %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	opts.files = flag.Args()
	return opts
}

// Package main is a demonstration client for the tessera rendering
// engine: it drives the same layer stack over either backend.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	clog "github.com/charmbracelet/log"
	xterm "golang.org/x/term"

	"github.com/tessera-ui/tessera/internal/compositor"
	"github.com/tessera-ui/tessera/internal/config"
	"github.com/tessera-ui/tessera/internal/native"
	"github.com/tessera-ui/tessera/internal/render"
	"github.com/tessera-ui/tessera/internal/term"
	"github.com/tessera-ui/tessera/internal/theme"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

const (
	menuToggleOverlay = "view.overlay"
	menuQuit          = "view.quit"
)

const pollInterval = 50 * time.Millisecond

func main() {
	os.Exit(run())
}

func run() int {
	var (
		configPath  = flag.String("config", config.DefaultPath(), "path to tessera.toml")
		backendFlag = flag.String("backend", "", "renderer backend: auto, terminal, or native")
		themeFlag   = flag.String("theme", "", "path to a scheme file (.json or .lua)")
		logLevel    = flag.String("log-level", "warn", "log level (debug, info, warn, error)")
		showVersion = flag.Bool("version", false, "show version information")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("tessera-demo %s (%s)\n", version, commit)
		return 0
	}

	logger := newLogger(*logLevel)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Warn("using default configuration", "err", err)
	}
	if *backendFlag != "" {
		cfg.Backend = *backendFlag
	}
	if *themeFlag != "" {
		cfg.Theme = *themeFlag
	}

	scheme, err := loadScheme(cfg.Theme, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	r, isNative, err := newRenderer(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize renderer: %v\n", err)
		return 1
	}
	defer r.Shutdown()

	if err := theme.Apply(scheme, r); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	demo := newDemoLayer(scheme)
	stack := compositor.New(demo, logger)

	// Live theme reload: the watcher delivers on its own goroutine, so
	// the loop applies schemes on the render thread.
	schemes := make(chan *theme.Scheme, 1)
	if cfg.Theme != "" {
		w := theme.NewWatcher(cfg.Theme, func(s *theme.Scheme, err error) {
			if err != nil {
				return
			}
			select {
			case schemes <- s:
			default:
			}
		}, theme.WithWatchLogger(logger))
		w.Start()
		defer w.Stop()
	}

	quit := make(chan struct{})
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signals
		close(quit)
	}()

	loop := func() {
		eventLoop(r, stack, demo, schemes, quit, logger)
	}

	if isNative {
		nb := r.(*native.Backend)
		nb.SetMenu(demoMenu())
		// The windowing event loop owns the main goroutine; ours runs
		// beside it and ends the process when it returns.
		nb.Run(loop)
	} else {
		loop()
	}
	return 0
}

// eventLoop is the single render thread: poll, dispatch through the
// stack, apply pending theme reloads, then composite.
func eventLoop(r render.Renderer, stack *compositor.Stack, demo *demoLayer, schemes <-chan *theme.Scheme, quit <-chan struct{}, logger *clog.Logger) {
	stack.Render(r)
	for {
		select {
		case <-quit:
			return
		case s := <-schemes:
			if err := theme.Apply(s, r); err != nil {
				logger.Warn("theme reload rejected", "err", err)
				break
			}
			demo.SetScheme(s)
			logger.Info("theme reloaded", "scheme", s.Name)
		default:
		}

		if ev, ok := r.PollEvent(pollInterval); ok {
			switch e := ev.(type) {
			case render.KeyEvent:
				stack.HandleKey(e)
			case render.CharEvent:
				stack.HandleChar(e)
			case render.MouseEvent:
				demo.NoteMouse(e)
			case render.SystemEvent:
				if e.Kind == render.SystemClose {
					return
				}
				stack.HandleSystem(e)
			case render.MenuEvent:
				switch e.ItemID {
				case menuToggleOverlay:
					stack.Push(newOverlayLayer())
				case menuQuit:
					return
				}
			}
		}

		if demo.TakeOverlayRequest() {
			stack.Push(newOverlayLayer())
		}
		for stack.CloseRequested() {
			if _, err := stack.Pop(); err != nil {
				// The bottom layer asked to close: the session is over.
				return
			}
		}

		stack.Render(r)
	}
}

// newRenderer builds and initializes the configured backend. Auto
// prefers the native window and falls back to the terminal when the
// window cannot come up, as long as stdout is a real terminal.
func newRenderer(cfg config.Config, logger *clog.Logger) (render.Renderer, bool, error) {
	newNative := func() (render.Renderer, bool, error) {
		nb := native.New(
			native.WithTitle("tessera demo"),
			native.WithFontSize(cfg.Font.Size),
			native.WithGridSize(cfg.Window.Rows, cfg.Window.Cols),
			native.WithAcceleration(cfg.Accelerated),
			native.WithLogger(logger),
		)
		err := nb.Init()
		return nb, true, err
	}
	newTerminal := func() (render.Renderer, bool, error) {
		tb := term.New()
		err := tb.Init()
		return tb, false, err
	}

	switch cfg.Backend {
	case config.BackendNative:
		return newNative()
	case config.BackendTerminal:
		return newTerminal()
	default:
		r, isNative, err := newNative()
		if err == nil {
			return r, isNative, nil
		}
		if !xterm.IsTerminal(int(os.Stdout.Fd())) {
			return nil, false, fmt.Errorf("native backend failed (%v) and stdout is not a terminal", err)
		}
		logger.Warn("native backend unavailable, falling back to terminal", "err", err)
		return newTerminal()
	}
}

func loadScheme(path string, logger *clog.Logger) (*theme.Scheme, error) {
	if path == "" {
		return theme.Default(), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) && filepath.Ext(path) == ".json" {
		logger.Info("seeding default scheme", "path", path)
		if err := theme.WriteDefault(path); err != nil {
			return nil, fmt.Errorf("write default scheme: %w", err)
		}
	}
	return theme.Load(path)
}

func demoMenu() *render.Menu {
	return &render.Menu{
		Groups: []render.MenuGroup{
			{
				Title: "View",
				Items: []render.MenuItem{
					{ID: menuToggleOverlay, Label: "Show Overlay"},
					{Separator: true},
					{ID: menuQuit, Label: "Quit"},
				},
			},
		},
	}
}

func newLogger(level string) *clog.Logger {
	logger := clog.NewWithOptions(os.Stderr, clog.Options{
		ReportTimestamp: true,
		Prefix:          "tessera",
	})
	switch level {
	case "debug":
		logger.SetLevel(clog.DebugLevel)
	case "info":
		logger.SetLevel(clog.InfoLevel)
	case "error":
		logger.SetLevel(clog.ErrorLevel)
	default:
		logger.SetLevel(clog.WarnLevel)
	}
	return logger
}

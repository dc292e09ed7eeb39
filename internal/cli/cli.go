package cli

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/catatsuy/listdict/internal/config"
	"github.com/catatsuy/listdict/internal/queue"
	"github.com/catatsuy/listdict/internal/server"
	"github.com/catatsuy/listdict/internal/textutil"
)

var Version string

func version() string {
	if Version != "" {
		return Version
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "(devel)"
	}

	return info.Main.Version
}

type CLI struct {
	stdout io.Writer
	stderr io.Writer
	stdin  io.Reader

	isTerminal bool
}

// NewCLI returns a CLI writing to stdout and stderr. isTerminal tells
// whether stderr is a terminal, which selects the log format in auto mode.
func NewCLI(stdout, stderr io.Writer, stdin io.Reader, isTerminal bool) *CLI {
	return &CLI{
		stdout:     stdout,
		stderr:     stderr,
		stdin:      stdin,
		isTerminal: isTerminal,
	}
}

func (c *CLI) Run(args []string) int {
	opts, err := parseFlags(args[1:], c.stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(c.stderr, "failed to parse flags: %v\n", err)
		return 2
	}
	if opts.showVersion {
		fmt.Fprintf(c.stdout, "listdict version %s; %s\n", version(), runtime.Version())
		return 0
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(c.stderr, "failed to load config: %v\n", err)
		return 2
	}
	applyFlags(cfg, opts)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(c.stderr, "invalid configuration: %v\n", err)
		return 2
	}

	if opts.printConfig {
		b, err := cfg.TOML()
		if err != nil {
			fmt.Fprintf(c.stderr, "failed to print config: %v\n", err)
			return 1
		}
		_, _ = c.stdout.Write(b)
		return 0
	}

	logger := c.newLogger(cfg)
	srv := server.NewServer(server.Config{
		ListenAddr:   cfg.Server.Listen,
		KeepFragment: cfg.URL.KeepFragment,
		MaxItemBytes: cfg.Server.MaxItemBytes,
		Version:      version(),
		Logger:       logger,
	})

	if opts.seedPath != "" {
		n, err := c.seed(srv.Queue(), opts.seedPath, logger)
		if err != nil {
			fmt.Fprintf(c.stderr, "failed to seed queue: %v\n", err)
			return 1
		}
		logger.Info("queue seeded", "path", opts.seedPath, "added", n)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Serve(ctx); err != nil {
		fmt.Fprintf(c.stderr, "server failed: %v\n", err)
		return 1
	}
	return 0
}

// applyFlags lets flags given on the command line win over the config.
func applyFlags(cfg *config.Config, opts options) {
	if opts.set["listen"] {
		cfg.Server.Listen = opts.listenAddr
	}
	if opts.set["max-item-bytes"] {
		cfg.Server.MaxItemBytes = opts.maxItemBytes
	}
	if opts.set["verbose"] {
		cfg.Server.Verbose = opts.verbose
	}
	if opts.set["keep-fragment"] {
		cfg.URL.KeepFragment = opts.keepFragment
	}
	if opts.set["log-format"] {
		cfg.Log.Format = opts.logFormat
	}
}

func (c *CLI) newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	if cfg.Server.Verbose {
		level = slog.LevelDebug
	}
	hopts := &slog.HandlerOptions{Level: level}

	format := cfg.Log.Format
	if format == "auto" {
		format = "json"
		if c.isTerminal {
			format = "text"
		}
	}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(c.stderr, hopts))
	}
	return slog.New(slog.NewTextHandler(c.stderr, hopts))
}

// seed queues every non-empty, non-comment line of path as a URL.
func (c *CLI) seed(q *queue.Queue, path string, logger *slog.Logger) (int, error) {
	var r io.Reader = c.stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return 0, err
		}
		defer f.Close()
		r = f
	}

	added := 0
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		_, ok, err := q.AddURL(line, false)
		if err != nil {
			short, _ := textutil.Truncate(line, 200)
			logger.Warn("skip seed line", "line", short, "err", err)
			continue
		}
		if ok {
			added++
		}
	}
	if err := sc.Err(); err != nil {
		return added, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return added, nil
}

package cli

import (
	"flag"
	"io"
)

type options struct {
	configPath   string
	listenAddr   string
	maxItemBytes int
	keepFragment bool
	logFormat    string
	seedPath     string
	verbose      bool
	printConfig  bool
	showVersion  bool

	// set holds the names of flags given on the command line.
	set map[string]bool
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	opt := options{set: make(map[string]bool)}
	fs := flag.NewFlagSet("listdict", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opt.configPath, "config", "", "path to a TOML config file")
	fs.StringVar(&opt.listenAddr, "listen", "127.0.0.1:11211", "TCP address to listen on")
	fs.IntVar(&opt.maxItemBytes, "max-item-bytes", 1<<20, "largest data chunk accepted by one command")
	fs.BoolVar(&opt.keepFragment, "keep-fragment", false, "keep URL fragments in keys built by addurl")
	fs.StringVar(&opt.logFormat, "log-format", "auto", "log format: auto, text or json")
	fs.StringVar(&opt.seedPath, "seed", "", "file with one URL per line to queue before serving; - reads stdin")
	fs.BoolVar(&opt.verbose, "verbose", false, "verbose logging")
	fs.BoolVar(&opt.printConfig, "print-config", false, "print the effective config as TOML and exit")
	fs.BoolVar(&opt.showVersion, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	fs.Visit(func(f *flag.Flag) {
		opt.set[f.Name] = true
	})

	return opt, nil
}

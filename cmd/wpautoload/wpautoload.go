package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/rs/zerolog"

	"github.com/quadlayers/wp-autoload/pkg/autoload"
	"github.com/quadlayers/wp-autoload/pkg/composer"
	"github.com/quadlayers/wp-autoload/pkg/plugin"
	"github.com/quadlayers/wp-autoload/pkg/procutil"
)

// wpautoload is the build step of quadlayers/wp-autoload. It is meant to run
// after every 'composer dump-autoload':
//
//	wpautoload dump      generate the manifest and loader, patch vendor/autoload.php
//	wpautoload remove    delete the generated files
//	wpautoload resolve   report which file each symbol resolves to

type config struct {
	command      string
	projectDir   string
	composerFile string
	strict       bool
	debug        bool
	symbols      []string
}

func main() {
	log.SetPrefix("wpautoload: ")
	log.SetFlags(0) // don't print timestamps

	cfg, err := parseFlags(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	if err := run(cfg, os.Stdout, newLogger(os.Stderr, cfg.debug)); err != nil {
		log.Fatal(err)
	}
}

func parseFlags(args []string) (*config, error) {
	if len(args) == 0 {
		return nil, errors.New("usage: wpautoload dump|remove|resolve [OPTIONS] [SYMBOL...]")
	}
	cfg := &config{command: args[0]}

	fs := flag.NewFlagSet(cfg.command, flag.ContinueOnError)
	composerFile, ok := procutil.LookupEnv(procutil.COMPOSER)
	if !ok {
		composerFile = composer.Filename
	}
	fs.StringVar(&cfg.projectDir, "project_dir", ".", "the directory holding composer.json")
	fs.StringVar(&cfg.composerFile, "composer_file", composerFile, "the project file, relative to -project_dir")
	fs.BoolVar(&cfg.strict, "strict", procutil.LookupBoolEnv(procutil.WP_AUTOLOAD_STRICT, false), "if true, resolve fails on the first owned symbol without a file")
	fs.BoolVar(&cfg.debug, "debug", procutil.LookupBoolEnv(procutil.WP_AUTOLOAD_DEBUG, false), "if true, log at debug level")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: wpautoload %s OPTIONS\n", cfg.command)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args[1:]); err != nil {
		return nil, err
	}
	cfg.symbols = fs.Args()

	switch cfg.command {
	case "dump", "remove":
	case "resolve":
		if len(cfg.symbols) == 0 {
			return nil, errors.New("resolve: at least one symbol is required")
		}
	default:
		return nil, fmt.Errorf("unknown command %q", cfg.command)
	}
	return cfg, nil
}

func newLogger(w io.Writer, debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: true}).
		Level(level).
		With().Timestamp().Logger()
}

func run(cfg *config, out io.Writer, logger zerolog.Logger) error {
	options := []plugin.Option{plugin.WithLogger(logger), plugin.WithOutput(out)}
	if cfg.composerFile != "" {
		options = append(options, plugin.WithComposerFile(cfg.composerFile))
	}
	p := plugin.New(cfg.projectDir, options...)

	switch cfg.command {
	case "dump":
		if err := p.PostAutoloadDump(); err != nil {
			return fmt.Errorf("an error occurred while generating the autoloader files: %w", err)
		}
		return nil
	case "remove":
		return p.Uninstall()
	default:
		return resolve(cfg, p, out, logger)
	}
}

func resolve(cfg *config, p *plugin.Plugin, out io.Writer, logger zerolog.Logger) error {
	policy := autoload.Lenient
	if cfg.strict {
		policy = autoload.Strict
	}

	registry := autoload.NewRegistry()
	defer registry.Clear()

	loader := &autoload.RecordingLoader{}
	resolvers, err := p.Boot(registry, autoload.WithLoader(loader), autoload.WithPolicy(policy))
	if err != nil {
		return err
	}
	if cfg.debug {
		logger.Debug().Msg("resolvers:\n" + spew.Sdump(resolvers))
	}

	var unresolved []string
	for _, symbol := range cfg.symbols {
		before := len(loader.Loaded())
		ok, err := registry.Resolve(symbol)
		if err != nil {
			return err
		}
		if !ok {
			owners := len(registry.Owners(symbol))
			fmt.Fprintf(out, "%s: not found (%d owning resolvers)\n", symbol, owners)
			unresolved = append(unresolved, symbol)
			continue
		}
		fmt.Fprintf(out, "%s: %s\n", symbol, loader.Loaded()[before])
	}
	if cfg.strict && len(unresolved) > 0 {
		return fmt.Errorf("unresolved symbols: %s", strings.Join(unresolved, ", "))
	}
	return nil
}

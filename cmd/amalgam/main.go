// Command amalgam loads the Amalgam library and drives entities from the
// command line.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/amalgam-lang/amalgam-go/domain/entities"
	"github.com/amalgam-lang/amalgam-go/host"
	"github.com/amalgam-lang/amalgam-go/log"
)

const appName = "amalgam"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := os.Args[1]
	args := os.Args[2:]
	var code int
	switch cmd {
	case "version":
		code = cmdVersion(ctx, args)
	case "info":
		code = cmdInfo(ctx, args)
	case "verify":
		code = cmdVerify(ctx, args)
	case "exec":
		code = cmdExec(ctx, args)
	case "get":
		code = cmdGet(ctx, args)
	case "set":
		code = cmdSet(ctx, args)
	case "entities":
		code = cmdEntities(ctx, args)
	case "schema":
		code = cmdSchema(args)
	case "repl":
		code = cmdRepl(ctx, args)
	case "-h", "--help", "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", appName, cmd)
		usage()
		code = 2
	}
	stop()
	os.Exit(code)
}

func usage() {
	fmt.Printf(`Amalgam command line

Usage:
  %[1]s version                                   Print the library version and concurrency type
  %[1]s info                                      Print the resolved library and its settings
  %[1]s verify <file.amlg>                        Check that an entity source loads
  %[1]s exec [-handle h] <file.amlg> <label> [json] Load an entity and execute a label
  %[1]s get <file.amlg> <label>                   Print the JSON value of a label
  %[1]s set [-store out] <file.amlg> <label> <json> Assign a label, optionally storing the entity
  %[1]s entities <file.amlg>...                   Load entities and list the library's handles
  %[1]s schema                                    Print the JSON schema of the config file
  %[1]s repl                                      Start an interactive session

Runtime flags (every command but schema):
  -config file     YAML config file
  -library path    Explicit library path
  -postfix -mt|-st Library build variant
  -arch name       Library architecture directory
  -trace dir       Write an execution trace into dir
  -log-level lvl   debug, info, warn or error
  -log-format fmt  text or json

`, appName)
}

// runtimeFlags are shared by every command that opens the library.
type runtimeFlags struct {
	config    string
	library   string
	postfix   string
	arch      string
	traceDir  string
	logLevel  string
	logFormat string
}

func newFlagSet(name string) (*flag.FlagSet, *runtimeFlags) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	rf := &runtimeFlags{}
	fs.StringVar(&rf.config, "config", os.Getenv("AMALGAM_CONFIG"), "YAML config file")
	fs.StringVar(&rf.library, "library", "", "explicit library path")
	fs.StringVar(&rf.postfix, "postfix", "", "library postfix (-mt or -st)")
	fs.StringVar(&rf.arch, "arch", "", "library architecture")
	fs.StringVar(&rf.traceDir, "trace", "", "write an execution trace into this directory")
	fs.StringVar(&rf.logLevel, "log-level", "", "log level")
	fs.StringVar(&rf.logFormat, "log-format", "text", "log format (text or json)")
	return fs, rf
}

// configure loads the config file and applies the flags over it.
func (rf *runtimeFlags) configure() (entities.Config, *slog.Logger, error) {
	cfg, err := host.NewLoader().LoadFile(rf.config)
	if err != nil {
		return entities.Config{}, nil, err
	}

	var opts []entities.ConfigOption
	if rf.library != "" {
		opts = append(opts, entities.WithLibraryPath(rf.library))
	}
	if rf.postfix != "" {
		opts = append(opts, entities.WithLibraryPostfix(rf.postfix))
	}
	if rf.arch != "" {
		opts = append(opts, entities.WithArch(rf.arch))
	}
	if rf.traceDir != "" {
		opts = append(opts, entities.WithTrace(rf.traceDir, ""))
	}
	if rf.logLevel != "" {
		opts = append(opts, entities.WithLogLevel(rf.logLevel))
	}
	for _, opt := range opts {
		opt(cfg)
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return entities.Config{}, nil, err
	}
	format, err := log.ParseFormat(rf.logFormat)
	if err != nil {
		return entities.Config{}, nil, err
	}
	return *cfg, log.New(os.Stderr, log.WithLevel(level), log.WithFormat(format)), nil
}

// open builds a runtime from the flags. The caller closes it.
func (rf *runtimeFlags) open(ctx context.Context) (*host.Runtime, error) {
	cfg, logger, err := rf.configure()
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)
	return host.NewRuntime(ctx, host.WithConfig(cfg), host.WithLogger(logger))
}

func fail(err error) int {
	fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
	return 1
}

// namehash prints EIP-137 namehashes of domain names.
//
//	namehash domain <name>
//	namehash file <input> [-o FILE] [--workers N] [--cache N] [--index DIR]
//	namehash verify <results>
//	namehash lookup --index DIR <0xhex>
//
// Results are printed as "{domain}: 0x{hex}", one per line.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/supleed2/namehash/config"
	"github.com/supleed2/namehash/keccak"
	"github.com/supleed2/namehash/log"
)

const version = "0.2.0"

// usageError is a bad invocation; it exits with status 2.
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

func (e *usageError) ExitCode() int { return 2 }

func usagef(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

// errMismatch makes verify exit 1 after it has printed its report.
var errMismatch = errors.New("verification failed")

type command struct {
	name    string
	summary string
	run     func(args []string, stdout io.Writer) error
}

var commands = []command{
	{"domain", "Get the namehash of a single domain", runDomain},
	{"file", "Get the namehashes of many domains at once", runFile},
	{"verify", "Check a file of previously printed namehashes", runVerify},
	{"lookup", "Find the domain recorded for a namehash in an index", runLookup},
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			printUsage(os.Stderr)
			os.Exit(coder.ExitCode())
		}
		if !errors.Is(err, errMismatch) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	if len(args) == 0 {
		return usagef("missing command")
	}
	switch args[0] {
	case "-h", "--help", "help":
		printUsage(stdout)
		return nil
	case "--version", "version":
		fmt.Fprintf(stdout, "namehash %s (keccak: %s)\n", version, keccak.Backend)
		return nil
	}
	for _, c := range commands {
		if c.name == args[0] {
			return c.run(args[1:], stdout)
		}
	}
	return usagef("unknown command %q", args[0])
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, "Usage: namehash <command> [flags] [args]\n\nCommands:\n")
	for _, c := range commands {
		fmt.Fprintf(w, "  %-8s %s\n", c.name, c.summary)
	}
	fmt.Fprintf(w, "\nRun 'namehash <command> --help' for command flags.\n")
}

// globalFlags are accepted by every command.
type globalFlags struct {
	configPath string
	logLevel   string
	logJSON    bool
}

func (g *globalFlags) add(fs *pflag.FlagSet) {
	fs.StringVar(&g.configPath, "config", "", "path to YAML config file (default: $NAMEHASH_CONFIG)")
	fs.StringVar(&g.logLevel, "log-level", "", "log level: debug, info, warn, error")
	fs.BoolVar(&g.logJSON, "log-json", false, "write JSON log records to stderr")
}

// parseFlags parses args and reports whether help was requested.
func parseFlags(fs *pflag.FlagSet, args []string, stdout io.Writer) (bool, error) {
	fs.SetOutput(io.Discard)
	fs.BoolP("help", "h", false, "show help")
	if err := fs.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			printFlags(fs, stdout)
			return true, nil
		}
		return false, usagef("%s: %v", fs.Name(), err)
	}
	if help, _ := fs.GetBool("help"); help {
		printFlags(fs, stdout)
		return true, nil
	}
	return false, nil
}

func printFlags(fs *pflag.FlagSet, w io.Writer) {
	fmt.Fprintf(w, "Usage of namehash %s:\n%s", fs.Name(), fs.FlagUsages())
}

// initLogging applies the logging flags on top of cfg, validates the
// result and sets up the global logger.
func initLogging(fs *pflag.FlagSet, g *globalFlags, cfg *config.Config) error {
	if fs.Changed("log-level") {
		cfg.Log.Level = g.logLevel
	}
	if fs.Changed("log-json") {
		cfg.Log.JSON = g.logJSON
	}
	if err := cfg.Validate(); err != nil {
		return usagef("%s: %v", fs.Name(), err)
	}
	log.Init(cfg.Log.Level, cfg.Log.JSON)
	log.CLI.Debug().Str("keccak", keccak.Backend).Msg("logging initialized")
	return nil
}

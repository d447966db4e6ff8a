// Package cli parses command-line arguments into an app.Config.
package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/kensei-te/automatic-arc-melting-system-fork/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated Config, a
// boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	flagSet := flag.NewFlagSet("arcline", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
arcline - sequence controller for the arc melting process line.

Usage:
  arcline [options] [SEQUENCE_PATH]

Arguments:
  SEQUENCE_PATH
    Path to the process sequence file. When missing or unreadable, a
    built-in fallback sequence is used.

Options:
`)
		flagSet.PrintDefaults()
	}

	sequenceFlag := flagSet.String("sequence", "", "Path to the process sequence file.")
	sFlag := flagSet.String("s", "", "Path to the process sequence file (shorthand).")
	configFlag := flagSet.String("config", "", "Path to the line configuration file (.hcl).")
	initialCommandFlag := flagSet.String("initial-command", "", "Command dispatched before the sequence starts. Defaults to 'init'.")
	statusPortFlag := flagSet.Int("status-port", 0, "Port for the HTTP line status server. 0 is disabled.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	sequencePath := ""
	if *sequenceFlag != "" {
		sequencePath = *sequenceFlag
	} else if *sFlag != "" {
		sequencePath = *sFlag
	} else if flagSet.NArg() > 0 {
		sequencePath = flagSet.Arg(0)
	}

	if sequencePath == "" && *configFlag == "" {
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	config, err := app.NewConfig(app.Config{
		SequencePath:   sequencePath,
		ConfigPath:     *configFlag,
		InitialCommand: *initialCommandFlag,
		StatusPort:     *statusPortFlag,
		LogFormat:      logFormat,
		LogLevel:       logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	return config, false, nil
}

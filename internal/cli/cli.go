package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/specialistvlad/patternindex/internal/app"
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

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("patternindex", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
patternindex - Builds the pattern catalog from a tree of RLE documents.

Usage:
  patternindex [options] [PATTERN_ROOT]

Arguments:
  PATTERN_ROOT
    Directory holding the rle/<category>/*.rle tree. Overrides the config file.

Options:
`)
		flagSet.PrintDefaults()
	}

	configFlag := flagSet.String("config", "", "Path to the build config file (.hcl, .yaml or .yml).")
	cFlag := flagSet.String("c", "", "Path to the build config file (shorthand).")
	cellLimitFlag := flagSet.Int("cell-limit", 0, "Hard live-cell limit per pattern. 0 keeps the configured value.")
	dbFlag := flagSet.String("db", "", "Path of the SQLite catalog to write.")
	dryRunFlag := flagSet.Bool("dry-run", false, "Build and report without writing any output.")
	nFlag := flagSet.Bool("n", false, "Build and report without writing any output (shorthand).")
	watchFlag := flagSet.Bool("watch", false, "Rebuild whenever pattern files change.")
	wFlag := flagSet.Bool("w", false, "Rebuild whenever pattern files change (shorthand).")
	notifyFlag := flagSet.String("notify-url", "", "socket.io endpoint notified after each successful build.")
	healthPortFlag := flagSet.Int("healthcheck-port", 0, "Port for the HTTP health check server in watch mode. 0 is disabled.")
	logFormatFlag := flagSet.String("log-format", "json", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	if flagSet.NArg() > 1 {
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("expected at most one PATTERN_ROOT, got %d arguments", flagSet.NArg())}
	}

	configPath := *configFlag
	if configPath == "" {
		configPath = *cFlag
	}
	root := flagSet.Arg(0)
	slog.Debug("Inputs determined.", "config", configPath, "root", root)

	if configPath == "" && root == "" {
		slog.Debug("No pattern root or config file provided, printing usage and exiting.")
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
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		ConfigPath:      configPath,
		PatternRoot:     root,
		CellLimit:       *cellLimitFlag,
		SQLitePath:      *dbFlag,
		NotifyURL:       *notifyFlag,
		DryRun:          *dryRunFlag || *nFlag,
		Watch:           *watchFlag || *wFlag,
		HealthcheckPort: *healthPortFlag,
		LogFormat:       logFormat,
		LogLevel:        logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}

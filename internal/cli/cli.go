package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/specialistvlad/pluginui/internal/app"
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
// Only flags given explicitly override configuration files.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("pluginui", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
pluginui - host for sandboxed UI plugins.

Usage:
  pluginui [options] [CONFIG_PATH ...]

Arguments:
  CONFIG_PATH
    Path to a .hcl file or a directory containing .hcl files.

Options:
`)
		flagSet.PrintDefaults()
	}

	var configPaths []string
	flagSet.Func("config", "Path to a config file or directory (repeatable).", func(s string) error {
		configPaths = append(configPaths, s)
		return nil
	})
	logFormatFlag := flagSet.String("log-format", "json", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	httpPortFlag := flagSet.Int("http-port", 0, "Port for the inspection HTTP server. 0 is disabled.")
	strictFlag := flagSet.Bool("strict", false, "Reject component registrations owned by another plugin.")
	transportFlag := flagSet.String("transport", "local", "Bridge transport. Options: 'local' or 'socketio'.")
	bridgeURLFlag := flagSet.String("bridge-url", "", "URL of the socket.io plugin runtime.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	configPaths = append(configPaths, flagSet.Args()...)

	set := map[string]bool{}
	flagSet.Visit(func(f *flag.Flag) { set[f.Name] = true })

	var overrides app.Overrides
	if set["log-format"] {
		logFormat := strings.ToLower(*logFormatFlag)
		if logFormat != "text" && logFormat != "json" {
			return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
		}
		overrides.LogFormat = &logFormat
	}
	if set["log-level"] {
		logLevel := strings.ToLower(*logLevelFlag)
		switch logLevel {
		case "debug", "info", "warn", "error":
			// valid
		default:
			return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
		}
		overrides.LogLevel = &logLevel
	}
	if set["http-port"] {
		if *httpPortFlag < 0 || *httpPortFlag > 65535 {
			return nil, false, &ExitError{Code: 2, Message: "invalid http-port: must be between 0 and 65535"}
		}
		overrides.HTTPPort = httpPortFlag
	}
	if set["strict"] {
		overrides.StrictOwnership = strictFlag
	}
	if set["transport"] {
		overrides.Transport = transportFlag
	}
	if set["bridge-url"] {
		overrides.BridgeURL = bridgeURLFlag
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		ConfigPaths: configPaths,
		Overrides:   overrides,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config_paths", configPaths)
	return config, false, nil
}

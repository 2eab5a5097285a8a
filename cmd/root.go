package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sshagain/sshagain/config"
	"github.com/sshagain/sshagain/internal/shell"
	"github.com/sshagain/sshagain/util/conf"
	"github.com/sshagain/sshagain/util/logging"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

const appName = "sshagain"

var rootApp = &cli.App{
	Name:      appName,
	Usage:     "keep an ssh connection alive by reconnecting it",
	ArgsUsage: "[ssh arguments]",
	Description: "Launches ssh with the given arguments and restarts it " +
		"whenever the connection fails, waiting between attempts. " +
		"Arguments that are not listed below are forwarded to ssh " +
		"unchanged and in order. A literal \"--\" stops option " +
		"parsing and forwards everything after it.",
	Args:            true,
	HideHelpCommand: true,
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:     "max-connection-attempts",
			Usage:    "give up after this many failed attempts (0 = retry forever)",
			Value:    0,
			Category: "session",
			EnvVars:  []string{"SSHAGAIN_MAX_CONNECTION_ATTEMPTS"},
		},
		&cli.Float64Flag{
			Name:     "reconnect-delay",
			Usage:    "seconds to wait before reconnecting",
			Value:    1.0,
			Category: "session",
			EnvVars:  []string{"SSHAGAIN_RECONNECT_DELAY"},
		},
		&cli.Float64Flag{
			Name:     "backoff",
			Usage:    "multiply the reconnect delay by this factor after each failure",
			Value:    1.0,
			Category: "session",
			EnvVars:  []string{"SSHAGAIN_BACKOFF"},
		},
		&cli.Float64Flag{
			Name:     "session-timeout",
			Usage:    "seconds a connection must survive to count as established",
			Value:    30.0,
			Category: "session",
			EnvVars:  []string{"SSHAGAIN_SESSION_TIMEOUT"},
		},
		&cli.StringFlag{
			Name:     "ssh",
			Usage:    "name or path of the ssh client to launch",
			Value:    "ssh",
			Category: "session",
			EnvVars:  []string{"SSHAGAIN_SSH"},
		},
		&cli.PathFlag{
			Name:     "config",
			Usage:    "path to a config file",
			Category: "general",
			EnvVars:  []string{"SSHAGAIN_CONFIG"},
		},
		&cli.StringFlag{
			Name:     "log-level",
			Usage:    "set the log level",
			Category: "general",
			EnvVars:  []string{"SSHAGAIN_LOG_LEVEL"},
		},
		&cli.StringFlag{
			Name:     "log-format",
			Usage:    "set the log format",
			Category: "general",
			EnvVars:  []string{"SSHAGAIN_LOG_FORMAT"},
		},
		&cli.BoolFlag{
			Name:     "verbose",
			Usage:    "enable debug logging",
			Category: "general",
			EnvVars:  []string{"SSHAGAIN_VERBOSE"},
		},
	},
	Before: initApp,
	Action: connectAction,
	After: func(ctx *cli.Context) error {
		if log, err := logging.LoggerFromContext(ctx.Context); err == nil {
			_ = log.Sync()
		}
		return nil
	},
}

func init() {
	// No -v alias: ssh uses -v for its own verbosity, and short
	// options are forwarded to the client.
	cli.VersionFlag = &cli.BoolFlag{
		Name:  "version",
		Usage: "print the version",
	}
}

type ExecuteParams struct {
	Version  string
	Compiled time.Time
}

// Execute runs the cli application and returns the process exit code.
// Exiting is left to the caller so deferred cleanup still runs.
func Execute(params ExecuteParams) int {
	rootApp.Version = params.Version
	rootApp.Compiled = params.Compiled

	return run(context.Background(), os.Args)
}

func run(ctx context.Context, args []string) int {
	supervisorArgs, forwardedArgs := SplitArgs(rootApp.Flags, args[1:])

	// Reassemble argv with an explicit separator so the forwarded
	// arguments survive flag parsing untouched.
	cliArgs := make([]string, 0, len(args)+1)
	cliArgs = append(cliArgs, args[0])
	cliArgs = append(cliArgs, supervisorArgs...)
	cliArgs = append(cliArgs, "--")
	cliArgs = append(cliArgs, forwardedArgs...)

	err := rootApp.RunContext(ctx, cliArgs)
	if err == nil {
		return shell.ExitCodeOK
	}

	var exitErr *shell.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode
	}

	fmt.Fprintf(os.Stderr, "%s: %s\n", appName, err)

	return shell.ExitCodeError
}

// initApp creates the logger and parses the configuration, attaching
// both to the cli context for the action to pick up.
func initApp(ctx *cli.Context) error {
	log, err := createLogger(ctx)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	ctx.Context = logging.ContextWithLogger(ctx.Context, log)

	cfg, err := conf.Parse[config.Config](conf.ParseOptions{
		Cli: ctx,
		CliMap: map[string]string{
			"max-connection-attempts": "session.max_attempts",
			"reconnect-delay":         "session.delay",
			"backoff":                 "session.backoff",
			"session-timeout":         "session.timeout",
			"ssh":                     "session.client",
			"log-level":               "log_level",
			"log-format":              "log_format",
			"verbose":                 "verbose",
		},
		Defaults:  config.DefaultConfig,
		EnvPrefix: "SSHAGAIN_",
		FileName:  ctx.Path("config"),
		Log:       log,
	})
	if err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	ctx.Context = conf.ContextWithConfig(ctx.Context, cfg)

	return nil
}

func createLogger(ctx *cli.Context) (*zap.Logger, error) {
	var config zap.Config

	level, err := getLogLevelFromCLI(ctx)
	if err != nil {
		return nil, err
	}

	if getLogFormatFromCLI(ctx) == "production" {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
	}

	config.Level = level

	// Logs share the terminal with the ssh client, so keep them off
	// stdout.
	config.OutputPaths = []string{"stderr"}
	config.InitialFields = map[string]any{
		"app": appName,
	}

	return config.Build()
}

func getLogFormatFromCLI(ctx *cli.Context) string {
	if format := ctx.String("log-format"); format != "" {
		return format
	}

	return "production"
}

func getLogLevelFromCLI(ctx *cli.Context) (zap.AtomicLevel, error) {
	if ctx.Bool("verbose") {
		return zap.NewAtomicLevelAt(zap.DebugLevel), nil
	}

	if level := ctx.String("log-level"); level != "" {
		return zap.ParseAtomicLevel(level)
	}

	return zap.NewAtomicLevelAt(zap.InfoLevel), nil
}

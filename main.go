package main

import (
	"log"
	"os"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/sshagain/sshagain/cmd"
	"github.com/sshagain/sshagain/util"
)

var (
	Version   string
	Buildtime string
	Commit    string
)

func main() {
	if err := setupSentry(); err != nil {
		log.Fatalf("error setting up sentry: %s", err)
	}

	appVersion := "local"
	if Version != "" {
		appVersion = Version
	}

	var appBuildtime time.Time
	if buildtime, err := time.Parse(time.RFC3339, Buildtime); err == nil {
		appBuildtime = buildtime
	}

	code := cmd.Execute(cmd.ExecuteParams{
		Version:  appVersion,
		Compiled: appBuildtime,
	})

	// os.Exit skips deferred functions, so flush explicitly before
	// exiting.
	flushSentry()

	os.Exit(code)
}

func setupSentry() error {
	dsn, ok := os.LookupEnv("SENTRY_DSN")
	if !ok {
		return nil
	}

	environment := "local"
	if env, ok := os.LookupEnv("SENTRY_ENVIRONMENT"); ok {
		environment = env
	}

	debug := false
	if debugStr, ok := os.LookupEnv("SENTRY_DEBUG"); ok {
		debug = util.Truthy(debugStr)
	}

	return sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Debug:            debug,
		Environment:      environment,
		Release:          Commit,
		TracesSampleRate: 1.0,
		EnableTracing:    true,
	})
}

func flushSentry() {
	sentry.Flush(2 * time.Second)
}

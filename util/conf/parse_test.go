package conf_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/sshagain/sshagain/util/conf"
)

type testConfig struct {
	Level  string       `conf:"level"`
	Client string       `conf:"client"`
	Nested nestedConfig `conf:"nested"`
}

type nestedConfig struct {
	Count int     `conf:"count"`
	Rate  float64 `conf:"rate"`
}

var testDefaults = conf.DefaultConfig{
	"level":        "info",
	"client":       "ssh",
	"nested.count": 1,
	"nested.rate":  1.5,
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := conf.Parse[testConfig](conf.ParseOptions{
		Defaults: testDefaults,
	})
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, "ssh", cfg.Client)
	assert.Equal(t, 1, cfg.Nested.Count)
	assert.Equal(t, 1.5, cfg.Nested.Rate)
}

func TestParse_JsonFileOverridesDefaults(t *testing.T) {
	cfg, err := conf.Parse[testConfig](conf.ParseOptions{
		Defaults: testDefaults,
		FileName: writeFile(t, "config.json", `{"level":"warn","nested":{"count":7}}`),
	})
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Level)
	assert.Equal(t, 7, cfg.Nested.Count)

	// untouched keys keep their defaults
	assert.Equal(t, "ssh", cfg.Client)
	assert.Equal(t, 1.5, cfg.Nested.Rate)
}

func TestParse_DotenvFile(t *testing.T) {
	cfg, err := conf.Parse[testConfig](conf.ParseOptions{
		Defaults: testDefaults,
		FileName: writeFile(t, "config.env", "LEVEL=warn\nNESTED__COUNT=7\n"),
	})
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Level)
	assert.Equal(t, 7, cfg.Nested.Count)
}

func TestParse_MissingFileFails(t *testing.T) {
	_, err := conf.Parse[testConfig](conf.ParseOptions{
		Defaults: testDefaults,
		FileName: filepath.Join(t.TempDir(), "nope.json"),
	})

	assert.Error(t, err)
}

func TestParse_EnvOverridesFile(t *testing.T) {
	t.Setenv("TEST__LEVEL", "debug")
	t.Setenv("TEST__NESTED__COUNT", "9")

	cfg, err := conf.Parse[testConfig](conf.ParseOptions{
		Defaults:  testDefaults,
		EnvPrefix: "TEST_",
		FileName:  writeFile(t, "config.json", `{"level":"warn","nested":{"count":7}}`),
	})
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Level)
	assert.Equal(t, 9, cfg.Nested.Count)
}

func TestParse_EnvVarsWithoutNestedKeyAreIgnored(t *testing.T) {
	// single-underscore vars belong to the cli layer, not the env layer
	t.Setenv("TEST_LEVEL", "debug")

	cfg, err := conf.Parse[testConfig](conf.ParseOptions{
		Defaults:  testDefaults,
		EnvPrefix: "TEST_",
	})
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Level)
}

func TestParse_CliFlagsOverrideEnv(t *testing.T) {
	t.Setenv("TEST__LEVEL", "debug")

	var cfg testConfig

	app := &cli.App{
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "log-level"},
			&cli.IntFlag{Name: "count"},
		},
		Action: func(ctx *cli.Context) error {
			var err error
			cfg, err = conf.Parse[testConfig](conf.ParseOptions{
				Cli: ctx,
				CliMap: map[string]string{
					"log-level": "level",
					"count":     "nested.count",
				},
				Defaults:  testDefaults,
				EnvPrefix: "TEST_",
			})
			return err
		},
	}

	err := app.Run([]string{"test", "--log-level", "error", "--count", "3"})
	require.NoError(t, err)

	assert.Equal(t, "error", cfg.Level)
	assert.Equal(t, 3, cfg.Nested.Count)
}

func TestParse_UnsetCliFlagsKeepLowerLayers(t *testing.T) {
	t.Setenv("TEST__LEVEL", "debug")

	var cfg testConfig

	app := &cli.App{
		Flags: []cli.Flag{
			// carries a default, but is never passed
			&cli.StringFlag{Name: "log-level", Value: "info"},
		},
		Action: func(ctx *cli.Context) error {
			var err error
			cfg, err = conf.Parse[testConfig](conf.ParseOptions{
				Cli: ctx,
				CliMap: map[string]string{
					"log-level": "level",
				},
				Defaults:  testDefaults,
				EnvPrefix: "TEST_",
			})
			return err
		},
	}

	err := app.Run([]string{"test"})
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Level)
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

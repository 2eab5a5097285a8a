package cmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sshagain/sshagain/internal/shell"
)

// runCapture runs the cli app with the given args, capturing its
// output and returning the exit code.
func runCapture(t *testing.T, args ...string) (int, string) {
	t.Helper()

	var out bytes.Buffer
	prevWriter, prevErrWriter := rootApp.Writer, rootApp.ErrWriter
	rootApp.Writer = &out
	rootApp.ErrWriter = &out
	t.Cleanup(func() {
		rootApp.Writer, rootApp.ErrWriter = prevWriter, prevErrWriter
	})

	code := run(context.Background(), append([]string{"sshagain"}, args...))

	return code, out.String()
}

func TestRun_NoArgsPrintsUsageAndFails(t *testing.T) {
	code, out := runCapture(t)

	assert.Equal(t, shell.ExitCodeError, code)
	assert.Contains(t, out, "USAGE")
}

func TestRun_HelpSucceeds(t *testing.T) {
	code, out := runCapture(t, "--help")

	assert.Equal(t, shell.ExitCodeOK, code)
	assert.Contains(t, out, "forwarded to ssh")
}

func TestRun_VersionSucceeds(t *testing.T) {
	code, out := runCapture(t, "--version")

	assert.Equal(t, shell.ExitCodeOK, code)
	assert.Contains(t, out, "version")
}

func TestRun_InvalidFlagValueFails(t *testing.T) {
	code, _ := runCapture(t, "--reconnect-delay", "nope", "host")

	assert.Equal(t, shell.ExitCodeError, code)
}

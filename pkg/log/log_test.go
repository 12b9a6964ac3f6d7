package log

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitWithDirectoryAddsFileOutput(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")

	Init("info", "json", dir)
	Info("file output check")
	Sync()

	_, err := os.Stat(filepath.Join(dir, "app.log"))
	assert.NoError(t, err)
}

func TestInitTreatsStreamNamesAsStreams(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	defer func() { _ = os.Chdir(wd) }()

	for _, name := range []string{"", "stdout", "stderr"} {
		Init("info", "json", name)
		Info("stream output check")

		_, err := os.Stat(name + "/app.log")
		assert.True(t, os.IsNotExist(err), "output_path %q must not create a log directory", name)
	}
}

func TestInitFallsBackToInfoOnBadLevel(t *testing.T) {
	assert.NotPanics(t, func() {
		Init("not-a-level", "console", "")
		Info("still logging")
	})
}

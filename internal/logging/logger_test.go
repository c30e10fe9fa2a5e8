package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	Configure(Options{ConsoleLevel: WARN, FileLevel: DEBUG, Console: &buf})
	defer Configure(Options{ConsoleLevel: INFO, FileLevel: DEBUG})

	l, err := NewLogger("test")
	require.NoError(t, err)
	defer l.Close()

	l.Info("не должно попасть в консоль")
	l.Warn("чанк %d не найден", 7)

	out := buf.String()
	assert.NotContains(t, out, "не должно попасть")
	assert.Contains(t, out, "[WARN] [test] чанк 7 не найден")
}

func TestLoggerWritesFile(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	Configure(Options{Dir: dir, ConsoleLevel: ERROR, FileLevel: DEBUG, Console: &buf})
	defer Configure(Options{ConsoleLevel: INFO, FileLevel: DEBUG})

	l, err := NewLogger("storage")
	require.NoError(t, err)
	l.Debug("сохранено %d байт", 42)
	require.NoError(t, l.Close())

	files, err := filepath.Glob(filepath.Join(dir, "storage_*.log"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	data, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), "сохранено 42 байт")
	assert.Empty(t, buf.String())
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("debug", INFO)
	assert.NoError(t, err)
	assert.Equal(t, DEBUG, lvl)

	lvl, err = ParseLevel("", WARN)
	assert.NoError(t, err)
	assert.Equal(t, WARN, lvl)

	_, err = ParseLevel("loud", INFO)
	assert.Error(t, err)
}

func TestManagerReusesLoggers(t *testing.T) {
	a := GetComponentLogger("world-test")
	b := GetComponentLogger("world-test")
	assert.Same(t, a, b, "логгер компонента создаётся один раз")
	assert.Contains(t, GetLoggerManager().ListComponents(), "world-test")
}

func TestConfigureUpdatesExistingLoggers(t *testing.T) {
	var buf bytes.Buffer
	Configure(Options{ConsoleLevel: INFO, FileLevel: DEBUG, Console: &buf})
	defer Configure(Options{ConsoleLevel: INFO, FileLevel: DEBUG})

	l := GetComponentLogger("levels-test")
	l.Debug("скрыто")
	assert.Empty(t, buf.String())

	Configure(Options{ConsoleLevel: TRACE, FileLevel: DEBUG, Console: &buf})
	l.Trace("видно")
	assert.Contains(t, buf.String(), "[TRACE] [levels-test] видно")
}

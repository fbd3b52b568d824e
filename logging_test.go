package sparks

import (
	"bytes"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingLogger keeps every formatted line, tagged by level.
type recordingLogger struct {
	mu    sync.Mutex
	debug bool
	lines []string
}

func (l *recordingLogger) DebugEnabled() bool    { return l.debug }
func (l *recordingLogger) SetDebug(enabled bool) { l.debug = enabled }
func (l *recordingLogger) Debugf(format string, args ...any) {
	l.add("DEBUG", format, args...)
}
func (l *recordingLogger) Infof(format string, args ...any)  { l.add("INFO", format, args...) }
func (l *recordingLogger) Warnf(format string, args ...any)  { l.add("WARN", format, args...) }
func (l *recordingLogger) Errorf(format string, args ...any) { l.add("ERROR", format, args...) }

func (l *recordingLogger) add(level, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, level+" "+fmt.Sprintf(format, args...))
}

func (l *recordingLogger) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.lines...)
}

func TestDefaultLogger_Levels(t *testing.T) {
	var out, errOut bytes.Buffer
	l := NewDefaultLoggerTo("test", false, &out, &errOut)

	l.Debugf("hidden %d", 1)
	l.Infof("info %d", 2)
	l.Warnf("warn %d", 3)
	l.Errorf("error %d", 4)

	assert.NotContains(t, out.String(), "hidden")
	assert.Contains(t, out.String(), "[test] INFO: info 2")
	assert.Contains(t, errOut.String(), "[test] WARN: warn 3")
	assert.Contains(t, errOut.String(), "[test] ERROR: error 4")

	l.SetDebug(true)
	assert.True(t, l.DebugEnabled())
	l.Debugf("shown %d", 5)
	assert.Contains(t, out.String(), "[test] DEBUG: shown 5")
}

func TestDefaultLogger_NoPrefix(t *testing.T) {
	var out bytes.Buffer
	l := NewDefaultLoggerTo("", false, &out, &out)
	l.Infof("plain")
	assert.Contains(t, out.String(), "INFO: plain")
	assert.NotContains(t, out.String(), "[")
}

func TestApp_LoggerFallsBackToNop(t *testing.T) {
	var app *App
	require.NotNil(t, app.Logger())
	require.NotNil(t, NewApp().Logger())
	assert.False(t, NewApp().Logger().DebugEnabled())
}

func TestLoggingModule_CustomLogger(t *testing.T) {
	rec := &recordingLogger{}
	app := NewAppBuilder().UseModule(LoggingModule{Logger: rec}).Build()

	app.Logger().Infof("hello %s", "world")
	app.callSystem(func(log Logger) { log.Warnf("from system") })

	assert.Equal(t, []string{"INFO hello world", "WARN from system"}, rec.Lines())
}

func TestLoggingModule_Default(t *testing.T) {
	app := NewAppBuilder().UseModule(LoggingModule{Prefix: "p", Debug: true}).Build()

	l, ok := app.Logger().(*DefaultLogger)
	require.True(t, ok)
	assert.True(t, l.DebugEnabled())
}

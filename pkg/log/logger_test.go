package log

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitComponentLoggers(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{LogLevel: zerolog.DebugLevel, Type: JSONLogger, Out: &buf})
	t.Cleanup(func() { Init(Options{LogLevel: zerolog.Disabled, Out: &bytes.Buffer{}}) })

	DB.Debug().Str("name", "example.db").Msg("opened")
	assert.Contains(t, buf.String(), `"component":"db"`)
	assert.Contains(t, buf.String(), `"name":"example.db"`)

	buf.Reset()
	Init(Options{LogLevel: zerolog.InfoLevel, Type: ConsoleLogger, Out: &buf})
	Registry.Debug().Msg("hidden")
	assert.Empty(t, buf.String())
	Registry.Info().Msg("shown")
	assert.Contains(t, buf.String(), `message: "shown"`)
	assert.Contains(t, buf.String(), `"component": "registry" |`)
}

func TestParse(t *testing.T) {
	lvl, err := ParseLogLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, zerolog.DebugLevel, lvl)

	typ, err := ParseLoggerType("JSON")
	require.NoError(t, err)
	assert.Equal(t, JSONLogger, typ)

	_, err = ParseLoggerType("xml")
	assert.Error(t, err)
}

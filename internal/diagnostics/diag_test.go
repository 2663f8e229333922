package diagnostics

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerLevelsAndFields(t *testing.T) {
	var buf bytes.Buffer
	l := Logger{Log: zerolog.New(&buf)}
	l.Report(Diagnostic{
		Severity: Warn,
		Code:     CodeThermal,
		Summary:  "output throttled",
		Evidence: map[string]any{"gain": 0.5},
	})

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "warn", rec["level"])
	assert.Equal(t, CodeThermal, rec["code"])
	assert.Equal(t, "output throttled", rec["message"])
	assert.Equal(t, 0.5, rec["gain"])
}

func TestFanout(t *testing.T) {
	var got []string
	rec := ReporterFunc(func(d Diagnostic) { got = append(got, d.Code) })
	Fanout{rec, Nop, rec}.Report(Diagnostic{Code: CodeScene})
	assert.Equal(t, []string{CodeScene, CodeScene}, got)
}

func TestDiagnosticJSONOmitsEmpty(t *testing.T) {
	b, err := json.Marshal(Diagnostic{Severity: Info, Code: CodeStartup, Summary: "up"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"severity":"info","code":"STARTUP","summary":"up"}`, string(b))
}

// Package diagnostics carries structured operator-facing records: what
// happened, why it might have happened and what to try.
package diagnostics

import (
	"github.com/rs/zerolog"
)

type Severity string

const (
	Info Severity = "info"
	Warn Severity = "warning"
	Err  Severity = "error"
)

type Diagnostic struct {
	Severity       Severity       `json:"severity"`
	Code           string         `json:"code"`
	Summary        string         `json:"summary"`
	Detail         string         `json:"detail,omitempty"`
	LikelyCauses   []string       `json:"likely_causes,omitempty"`
	SuggestedFixes []string       `json:"suggested_fixes,omitempty"`
	Evidence       map[string]any `json:"evidence,omitempty"`
}

// Codes raised by the controller.
const (
	CodeThermal   = "THERMAL.THROTTLE"
	CodeSink      = "SINK.WRITE"
	CodeScene     = "SCENE.CHANGE"
	CodeLevel     = "LEVEL.CHANGE"
	CodeRemote    = "REMOTE.CODE"
	CodeStartup   = "STARTUP"
	CodeNoHW      = "HW.FALLBACK"
	CodeInputDown = "INPUT.DISABLED"
)

// Reporter receives diagnostics. Implementations must not block.
type Reporter interface {
	Report(d Diagnostic)
}

type ReporterFunc func(d Diagnostic)

func (f ReporterFunc) Report(d Diagnostic) { f(d) }

// Nop drops everything.
var Nop Reporter = ReporterFunc(func(Diagnostic) {})

// Fanout reports to each reporter in order.
type Fanout []Reporter

func (f Fanout) Report(d Diagnostic) {
	for _, r := range f {
		r.Report(d)
	}
}

// Logger writes diagnostics as structured log lines.
type Logger struct {
	Log zerolog.Logger
}

func (l Logger) Report(d Diagnostic) {
	var e *zerolog.Event
	switch d.Severity {
	case Err:
		e = l.Log.Error()
	case Warn:
		e = l.Log.Warn()
	default:
		e = l.Log.Info()
	}
	e = e.Str("code", d.Code)
	if d.Detail != "" {
		e = e.Str("detail", d.Detail)
	}
	if len(d.Evidence) > 0 {
		e = e.Fields(d.Evidence)
	}
	if len(d.SuggestedFixes) > 0 {
		e = e.Strs("fixes", d.SuggestedFixes)
	}
	e.Msg(d.Summary)
}

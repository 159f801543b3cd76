package logfields

import "log/slog"

// Canonical log field names shared by the build and watch packages.
const (
	KeySource     = "source"
	KeyObject     = "object"
	KeyOutput     = "output"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyExitCode   = "exit_code"
	KeyError      = "error"
	KeyPath       = "path"
	KeyOp         = "op"
	KeyField      = "field"
	KeyCycle      = "cycle"
)

func Source(p string) slog.Attr     { return slog.String(KeySource, p) }
func Object(p string) slog.Attr     { return slog.String(KeyObject, p) }
func Output(p string) slog.Attr     { return slog.String(KeyOutput, p) }
func Stage(s string) slog.Attr      { return slog.String(KeyStage, s) }
func ExitCode(c int) slog.Attr      { return slog.Int(KeyExitCode, c) }
func Path(p string) slog.Attr       { return slog.String(KeyPath, p) }
func Op(op string) slog.Attr        { return slog.String(KeyOp, op) }
func Field(name string) slog.Attr   { return slog.String(KeyField, name) }
func Cycle(id string) slog.Attr     { return slog.String(KeyCycle, id) }

// DurationMS truncates to whole milliseconds, matching what operators read in logs.
func DurationMS(ms int64) slog.Attr { return slog.Int64(KeyDurationMS, ms) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}

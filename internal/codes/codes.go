package codes

import "errors"

const (
	// SpawnFailure is reported when a process could not be started at all
	SpawnFailure = -1

	// Terminated is reported when a process was killed by a signal
	Terminated = 128
)

// ErrorCodes maps toolchain process exit codes to their descriptions
var ErrorCodes = map[int]string{
	SpawnFailure: "Process could not be started",
	0:            "Success",
	1:            "Errors reported",
	2:            "Invalid usage or fatal error",
	126:          "Command found but not executable",
	Terminated:   "Terminated by signal",
	127:          "Command not found",
	130:          "Interrupted",
	134:          "Aborted",
	137:          "Killed",
	139:          "Segmentation fault",
}

// IsSuccess returns true if the exit code indicates a successful run
func IsSuccess(code int) bool {
	return code == 0
}

// GetErrorMessage returns the error message for a given exit code, or a generic message if unknown
func GetErrorMessage(code int) string {
	if msg, ok := ErrorCodes[code]; ok {
		return msg
	}

	return "Unknown error"
}

// exitCoder is satisfied by *exec.ExitError
type exitCoder interface {
	ExitCode() int
}

// ExitCode extracts a process exit code from the error returned by Run.
// A nil error is 0; an error carrying an exit code yields that code;
// a process killed by a signal yields Terminated; anything else means the
// process never ran and yields SpawnFailure.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}

	var ec exitCoder
	if errors.As(err, &ec) {
		if code := ec.ExitCode(); code >= 0 {
			return code
		}

		return Terminated
	}

	return SpawnFailure
}

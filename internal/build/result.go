package build

import (
	"errors"
	"fmt"
	"time"

	"github.com/Norgate-AV/wcc/internal/cache"
	"github.com/Norgate-AV/wcc/internal/codes"
)

var (
	// ErrCompileFailed is reported when at least one unit failed to compile
	ErrCompileFailed = errors.New("compile failed")

	// ErrLinkFailed is reported when the linker exited non-zero
	ErrLinkFailed = errors.New("link failed")
)

// Unit is one source file and its object artifact within a cycle
type Unit struct {
	Source string
	Object string

	// Prior is the artifact before compiling; nil if never built or unreadable
	Prior *cache.Snapshot

	// Fresh is the artifact after compiling; nil if none was produced
	Fresh *cache.Snapshot

	ExitCode int

	// Err is set when the compiler could not be started
	Err error

	Changed bool
}

// Failed reports a compile failure: the compiler did not start, exited
// non-zero, or produced no object artifact.
func (u *Unit) Failed() bool {
	return u.Err != nil || !codes.IsSuccess(u.ExitCode) || u.Fresh == nil
}

// Result aggregates one build cycle
type Result struct {
	// ID identifies the cycle in logs
	ID string

	Units []Unit

	// Failed counts units that failed to compile
	Failed int

	// Changed is true when any unit's artifact changed bytes
	Changed bool

	Decision Decision

	// LinkExitCode is nil when the link stage was skipped
	LinkExitCode *int

	CompileDuration time.Duration
	LinkDuration    time.Duration

	// Unexpected holds an error that aborted the cycle before or between stages
	Unexpected error
}

// Linked reports whether the linker ran and succeeded
func (r *Result) Linked() bool {
	return r.LinkExitCode != nil && codes.IsSuccess(*r.LinkExitCode)
}

// Failure returns nil for a successful or no-op cycle, otherwise the reason
// the cycle failed.
func (r *Result) Failure() error {
	switch {
	case r.Unexpected != nil:
		return fmt.Errorf("build error: %w", r.Unexpected)
	case r.Failed > 0:
		return fmt.Errorf("%w: %d of %d unit(s)", ErrCompileFailed, r.Failed, len(r.Units))
	case r.LinkExitCode != nil && !codes.IsSuccess(*r.LinkExitCode):
		return fmt.Errorf("%w: exit code %d (%s)", ErrLinkFailed, *r.LinkExitCode, codes.GetErrorMessage(*r.LinkExitCode))
	default:
		return nil
	}
}

// Objects returns the object artifact paths in source order
func (r *Result) Objects() []string {
	objects := make([]string, len(r.Units))
	for i := range r.Units {
		objects[i] = r.Units[i].Object
	}

	return objects
}

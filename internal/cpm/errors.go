package cpm

import (
	"errors"
	"strings"
)

// Error kinds. Every scheduling failure is a *ScheduleError whose Kind is one
// of these, so callers can test with errors.Is.
var (
	ErrValidation          = errors.New("invalid task list")
	ErrCyclicDependency    = errors.New("circular dependency")
	ErrOrdering            = errors.New("unable to determine task order")
	ErrMultipleStarts      = errors.New("multiple starting points")
	ErrIsolatedTasks       = errors.New("isolated tasks")
	ErrDanglingEnd         = errors.New("tasks end early")
	ErrDummyOnCriticalPath = errors.New("dummy task on critical path")
)

var kindNames = map[error]string{
	ErrValidation:          "validation",
	ErrCyclicDependency:    "cyclic_dependency",
	ErrOrdering:            "ordering",
	ErrMultipleStarts:      "multiple_starts",
	ErrIsolatedTasks:       "isolated_tasks",
	ErrDanglingEnd:         "dangling_end",
	ErrDummyOnCriticalPath: "dummy_on_critical_path",
}

// ScheduleError carries every human-readable message of one failed scheduling
// attempt. TaskIDs names the offending tasks when the check can single them out.
type ScheduleError struct {
	Kind     error
	Messages []string
	TaskIDs  []string
}

func (e *ScheduleError) Error() string {
	if e == nil {
		return ""
	}
	if len(e.Messages) == 0 {
		return e.Kind.Error()
	}
	return e.Kind.Error() + ": " + strings.Join(e.Messages, "; ")
}

func (e *ScheduleError) Unwrap() error { return e.Kind }

func newError(kind error, ids []string, msgs ...string) error {
	return &ScheduleError{Kind: kind, Messages: msgs, TaskIDs: ids}
}

// Messages returns the message list of a scheduling failure, or the error text
// for any other error.
func Messages(err error) []string {
	if err == nil {
		return nil
	}
	var se *ScheduleError
	if errors.As(err, &se) && len(se.Messages) > 0 {
		return se.Messages
	}
	return []string{err.Error()}
}

// KindName returns a stable machine-readable name for the failure kind, or
// "internal" for errors that did not come from scheduling.
func KindName(err error) string {
	var se *ScheduleError
	if errors.As(err, &se) {
		if name, ok := kindNames[se.Kind]; ok {
			return name
		}
	}
	return "internal"
}

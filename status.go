package jobpipe

import "fmt"

// StatusCode is the lifecycle state of a task
type StatusCode int

const (
	// CodeNone is the code of a status that has not been registered yet
	CodeNone StatusCode = iota
	// CodeNew the task has just been created
	CodeNew
	// CodeScheduled the task has been scheduled for execution
	CodeScheduled
	// CodeRunning the task is executing
	CodeRunning
	// CodeRetry the task is about to be executed again after a failure
	CodeRetry
	// CodeFinished the task has completed successfully
	CodeFinished
	// CodeSkipped the output for this task already exists
	CodeSkipped
	// CodeErrorNoInput input to this task did not exist
	CodeErrorNoInput
	// CodeErrorExecute the task failed while executing
	CodeErrorExecute
	// CodeErrorDependency a dependency has failed which also failed this task
	CodeErrorDependency
	// CodeErrorAborted an observer aborted the task
	CodeErrorAborted
	// CodeErrorSigterm the pipeline was terminated by a signal
	CodeErrorSigterm
)

var codeNames = map[StatusCode]string{
	CodeNone:            "NONE",
	CodeNew:             "NEW",
	CodeScheduled:       "SCHEDULED",
	CodeRunning:         "RUNNING",
	CodeRetry:           "RETRY",
	CodeFinished:        "FINISHED",
	CodeSkipped:         "SKIPPED",
	CodeErrorNoInput:    "ERROR_NO_INPUT",
	CodeErrorExecute:    "ERROR_EXECUTE",
	CodeErrorDependency: "ERROR_DEPENDENCY",
	CodeErrorAborted:    "ERROR_ABORTED",
	CodeErrorSigterm:    "ERROR_SIGTERM",
}

func (c StatusCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("StatusCode(%d)", int(c))
}

// IsDone reports whether a task with this code will not run again
// unless it is retried.
func (c StatusCode) IsDone() bool {
	switch c {
	case CodeNone, CodeNew, CodeScheduled, CodeRunning, CodeRetry:
		return false
	default:
		return true
	}
}

// HasFailed reports whether the code is one of the failure codes.
// CodeRetry is not a failure, which is what lets a failed task recover.
func (c StatusCode) HasFailed() bool {
	switch c {
	case CodeErrorNoInput, CodeErrorExecute, CodeErrorDependency, CodeErrorAborted, CodeErrorSigterm:
		return true
	default:
		return false
	}
}

// ParseStatusCode is the inverse of StatusCode.String
func ParseStatusCode(name string) (StatusCode, error) {
	for code, n := range codeNames {
		if n == name {
			return code, nil
		}
	}
	return CodeNone, NewErr(fmt.Sprintf("unknown status code %q", name))
}

func (c StatusCode) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *StatusCode) UnmarshalText(text []byte) error {
	code, err := ParseStatusCode(string(text))
	if err != nil {
		return err
	}
	*c = code
	return nil
}

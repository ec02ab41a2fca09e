package jobpipe

import (
	"sync"
	"sync/atomic"
	"time"
)

// TaskStatus holds the lifecycle of one task in a job. The scheduler drives
// it through transitions and uses the boolean result of each transition to
// decide whether to keep scheduling the dependents of the task.
//
// Failure codes are sticky: once a task has failed, every transition except
// Retry is refused.
//
// A TaskStatus is safe for concurrent use.
type TaskStatus struct {
	context  TaskContext
	observer Observer
	clock    func() time.Time
	dbg      debugSink

	mu         sync.RWMutex
	code       StatusCode
	failReason error
	failedDep  TaskContext
	lastUpdate time.Time
	retries    atomic.Int64
}

// NewTaskStatus creates the status of a task. The status starts at CodeNone,
// call NewTask to register it. A nil context is rendered as an empty id.
func NewTaskStatus(context TaskContext, opts ...Option) *TaskStatus {
	return newTaskStatus(context, buildOptions(opts))
}

func newTaskStatus(context TaskContext, options *Options) *TaskStatus {
	return &TaskStatus{
		context:  context,
		observer: options.Observer,
		clock:    options.Clock,
		dbg:      debugSink{logger: options.Logger, verbose: options.Verbose},
	}
}

// setCode applies a transition. apply runs under the lock right before the
// code changes, so data attached to a failure is only recorded when the
// failure itself is accepted.
func (s *TaskStatus) setCode(code StatusCode, apply func()) bool {
	s.mu.Lock()

	// retry is the only way out of a failure, so it skips the sticky check
	if code == CodeRetry {
		s.code = CodeRetry
		retries := s.retries.Add(1)
		s.lastUpdate = s.clock()
		s.mu.Unlock()
		s.dbg.debug("task status changed", "task", s.context, "code", code, "retries", retries)
		return s.notify()
	}

	if s.code.HasFailed() {
		s.mu.Unlock()
		return false
	}
	if s.code == code {
		s.mu.Unlock()
		return true
	}

	if apply != nil {
		apply()
	}
	s.code = code
	s.lastUpdate = s.clock()
	failReason := s.failReason
	s.mu.Unlock()

	s.dbg.debug("task status changed", "task", s.context, "code", code)
	if code == CodeErrorExecute {
		s.dbg.debugErr("task failed", failReason, "task", s.context)
	}
	return s.notify()
}

// notify calls the observer outside the lock so that it can read the status.
func (s *TaskStatus) notify() (ok bool) {
	if s.observer == nil {
		return true
	}
	defer recoverPanic(func(cause error) {
		s.dbg.debugErr("observer failed", cause, "task", s.context)
		ok = false
	})
	return s.observer.Notify(s)
}

func (s *TaskStatus) NewTask() bool {
	return s.setCode(CodeNew, nil)
}

func (s *TaskStatus) Scheduled() bool {
	return s.setCode(CodeScheduled, nil)
}

func (s *TaskStatus) Running() bool {
	return s.setCode(CodeRunning, nil)
}

// Retry moves the task to CodeRetry from any code, including failures, and
// increments the retry counter.
func (s *TaskStatus) Retry() bool {
	return s.setCode(CodeRetry, nil)
}

func (s *TaskStatus) Finished() bool {
	return s.setCode(CodeFinished, nil)
}

func (s *TaskStatus) Skipped() bool {
	return s.setCode(CodeSkipped, nil)
}

// Failed records err as the fail reason and moves the task to
// CodeErrorExecute. A nil err is replaced by a generic error.
func (s *TaskStatus) Failed(err error) bool {
	if err == nil {
		err = NewErr("task failed without a reason")
	}
	return s.setCode(CodeErrorExecute, func() {
		s.failReason = err
	})
}

// FailedDep records dep as the failed upstream task and moves the task to
// CodeErrorDependency.
func (s *TaskStatus) FailedDep(dep TaskContext) bool {
	return s.setCode(CodeErrorDependency, func() {
		s.failedDep = dep
	})
}

// FailedDepNoInput records dep as the upstream task that produced no input
// and moves the task to CodeErrorNoInput.
func (s *TaskStatus) FailedDepNoInput(dep TaskContext) bool {
	return s.setCode(CodeErrorNoInput, func() {
		s.failedDep = dep
	})
}

func (s *TaskStatus) Abort() bool {
	return s.setCode(CodeErrorAborted, nil)
}

// Sigterm marks the task as failed because the pipeline is shutting down
func (s *TaskStatus) Sigterm() bool {
	return s.setCode(CodeErrorSigterm, nil)
}

// FailReason returns the error of the last accepted Failed call, or nil
func (s *TaskStatus) FailReason() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.failReason
}

// FailedDependency returns the upstream task of the last accepted FailedDep
// or FailedDepNoInput call, or nil
func (s *TaskStatus) FailedDependency() TaskContext {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.failedDep
}

func (s *TaskStatus) Retries() int64 {
	return s.retries.Load()
}

func (s *TaskStatus) Code() StatusCode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.code
}

func (s *TaskStatus) Context() TaskContext {
	return s.context
}

// LastUpdate returns the time of the last accepted transition, zero if none
func (s *TaskStatus) LastUpdate() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastUpdate
}

func (s *TaskStatus) IsDone() bool {
	return s.Code().IsDone()
}

func (s *TaskStatus) HasFailed() bool {
	return s.Code().HasFailed()
}

func (s *TaskStatus) String() string {
	return contextString(s.context) + " -> " + s.Code().String()
}

// Snapshot is a point in time copy of a TaskStatus
type Snapshot struct {
	ID               string     `json:"id"`
	Context          string     `json:"context"`
	Code             StatusCode `json:"code"`
	Retries          int64      `json:"retries"`
	LastUpdate       time.Time  `json:"last_update"`
	FailReason       string     `json:"fail_reason,omitempty"`
	FailedDependency string     `json:"failed_dependency,omitempty"`
}

// Snapshot copies the status under a single read lock
func (s *TaskStatus) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := Snapshot{
		ID:         contextID(s.context),
		Context:    contextString(s.context),
		Code:       s.code,
		Retries:    s.retries.Load(),
		LastUpdate: s.lastUpdate,
	}
	if s.failReason != nil {
		snap.FailReason = s.failReason.Error()
	}
	if s.failedDep != nil {
		snap.FailedDependency = contextID(s.failedDep)
	}
	return snap
}

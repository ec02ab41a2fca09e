package jobpipe

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"sync"
	"syscall"

	"github.com/hashicorp/go-multierror"
	"github.com/xhofe/gsync"
)

// Registry keeps the statuses of every task of a job. Statuses created by a
// registry share its observer, logger and verbosity, and every accepted
// transition refreshes the status report when persistence is configured.
type Registry struct {
	statuses        gsync.MapOf[string, *TaskStatus]
	opts            *Options
	statusOpts      *Options
	debouncePersist func()
	persistMu       sync.Mutex

	logger *slog.Logger
}

// NewRegistry create a new registry
func NewRegistry(opts ...Option) *Registry {
	options := buildOptions(opts)
	r := &Registry{
		opts:   options,
		logger: options.Logger,
	}
	statusOpts := *options
	statusOpts.Observer = ObserverFunc(r.notify)
	r.statusOpts = &statusOpts

	if options.PersistPath != "" {
		r.debouncePersist = r.persistAndLog
		if options.PersistDebounce != nil {
			r.debouncePersist = newDebounce(r.persistAndLog, *options.PersistDebounce)
		}
	} else {
		r.debouncePersist = func() {}
	}
	return r
}

// notify forwards to the configured observer. The report is refreshed even
// when the observer panics.
func (r *Registry) notify(status *TaskStatus) bool {
	defer r.debouncePersist()
	if r.opts.Observer == nil {
		return true
	}
	return r.opts.Observer.Notify(status)
}

// Add creates the status of a task. The status starts at CodeNone.
func (r *Registry) Add(context TaskContext) (*TaskStatus, error) {
	if context == nil || context.GetID() == "" {
		return nil, WithStackTrace(ErrInvalidContext)
	}
	status := newTaskStatus(context, r.statusOpts)
	if _, loaded := r.statuses.LoadOrStore(context.GetID(), status); loaded {
		return nil, WithStackTrace(fmt.Errorf("%w: %s", ErrDuplicateTask, context))
	}
	r.logger.Debug("task registered", "task", context)
	return status, nil
}

// GetAll get all statuses ordered by task id
func (r *Registry) GetAll() []*TaskStatus {
	return r.GetByCondition(func(*TaskStatus) bool { return true })
}

// GetByID get status by task id
func (r *Registry) GetByID(id string) (*TaskStatus, bool) {
	return r.statuses.Load(id)
}

// GetByCode get statuses currently at one of the given codes
func (r *Registry) GetByCode(codes ...StatusCode) []*TaskStatus {
	return r.GetByCondition(func(status *TaskStatus) bool {
		return sliceContains(codes, status.Code())
	})
}

// GetByCondition get statuses under specific condition given by a function
func (r *Registry) GetByCondition(condition func(status *TaskStatus) bool) []*TaskStatus {
	var statuses []*TaskStatus
	r.statuses.Range(func(key string, value *TaskStatus) bool {
		if condition(value) {
			statuses = append(statuses, value)
		}
		return true
	})
	sort.Slice(statuses, func(i, j int) bool {
		return statuses[i].Context().GetID() < statuses[j].Context().GetID()
	})
	return statuses
}

// Remove a status by task id
func (r *Registry) Remove(id string) {
	r.statuses.Delete(id)
	r.debouncePersist()
}

// RemoveByCode remove statuses currently at one of the given codes
func (r *Registry) RemoveByCode(codes ...StatusCode) {
	for _, status := range r.GetByCode(codes...) {
		r.Remove(status.Context().GetID())
	}
}

// Done reports whether every registered task is done
func (r *Registry) Done() bool {
	return len(r.GetByCondition(func(status *TaskStatus) bool { return !status.IsDone() })) == 0
}

// Failed get all failed statuses
func (r *Registry) Failed() []*TaskStatus {
	return r.GetByCondition(func(status *TaskStatus) bool { return status.HasFailed() })
}

// Err aggregates the failures of every failed task, nil if none failed.
func (r *Registry) Err() error {
	var result *multierror.Error
	for _, status := range r.Failed() {
		context := status.Context()
		switch status.Code() {
		case CodeErrorExecute:
			result = multierror.Append(result, fmt.Errorf("task %s failed: %w", context, status.FailReason()))
		case CodeErrorDependency:
			result = multierror.Append(result, fmt.Errorf("task %s failed: dependency %s failed", context, status.FailedDependency()))
		case CodeErrorNoInput:
			result = multierror.Append(result, fmt.Errorf("task %s failed: no input from %s", context, status.FailedDependency()))
		case CodeErrorAborted:
			result = multierror.Append(result, fmt.Errorf("task %s aborted", context))
		case CodeErrorSigterm:
			result = multierror.Append(result, fmt.Errorf("task %s terminated", context))
		}
	}
	return result.ErrorOrNil()
}

// Retry a task by id
func (r *Registry) Retry(id string) (bool, error) {
	status, ok := r.statuses.Load(id)
	if !ok {
		return false, WithStackTrace(fmt.Errorf("%w: %s", ErrTaskNotFound, id))
	}
	return status.Retry(), nil
}

// RetryAllFailed retry all failed tasks and return the retried statuses
func (r *Registry) RetryAllFailed() []*TaskStatus {
	failed := r.Failed()
	for _, status := range failed {
		status.Retry()
	}
	return failed
}

// AbortAll abort every task that is not done
func (r *Registry) AbortAll() {
	for _, status := range r.GetByCondition(func(status *TaskStatus) bool { return !status.IsDone() }) {
		status.Abort()
	}
}

// Sigterm marks every task that is not done as terminated
func (r *Registry) Sigterm() {
	for _, status := range r.GetByCondition(func(status *TaskStatus) bool { return !status.IsDone() }) {
		status.Sigterm()
	}
}

// TrapSignals calls Sigterm when one of sigs is received, SIGTERM and
// interrupt by default. Only the first signal is trapped, later ones get the
// default behaviour again. The returned function stops listening.
func (r *Registry) TrapSignals(sigs ...os.Signal) (stop func()) {
	if len(sigs) == 0 {
		sigs = []os.Signal{syscall.SIGTERM, os.Interrupt}
	}
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, sigs...)

	done := make(chan struct{})
	go func() {
		select {
		case sig := <-sigCh:
			signal.Stop(sigCh)
			r.logger.Warn("received signal, terminating tasks", "signal", sig)
			r.Sigterm()
		case <-done:
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			signal.Stop(sigCh)
			close(done)
		})
	}
}

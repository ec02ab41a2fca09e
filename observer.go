package jobpipe

// Observer is notified on every accepted status transition. Returning false
// tells the caller to stop scheduling the branch of the task. A panic inside
// Notify counts as false.
type Observer interface {
	Notify(status *TaskStatus) bool
}

// ObserverFunc adapts a function to the Observer interface
type ObserverFunc func(status *TaskStatus) bool

func (f ObserverFunc) Notify(status *TaskStatus) bool {
	return f(status)
}

// Observers fans a notification out to several observers. Every observer is
// called, and the result is true only if all of them returned true.
func Observers(observers ...Observer) Observer {
	return ObserverFunc(func(status *TaskStatus) bool {
		ok := true
		for _, o := range observers {
			if o == nil {
				continue
			}
			if !o.Notify(status) {
				ok = false
			}
		}
		return ok
	})
}

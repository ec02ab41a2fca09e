package jobpipe

import (
	nanoid "github.com/matoous/go-nanoid/v2"
)

// TaskContext identifies a task within a job. A TaskStatus only compares
// and prints it, it never changes it.
type TaskContext interface {
	// GetID gets the id of the task, unique within a job
	GetID() string
	// String renders the task for diagnostics
	String() string
}

// Context is a plain TaskContext
type Context struct {
	ID     string            `json:"id"`
	Name   string            `json:"name"`
	Params map[string]string `json:"params,omitempty"`
}

// NewContext creates a context with a generated id
func NewContext(name string) *Context {
	return &Context{
		ID:   nanoid.Must(),
		Name: name,
	}
}

func (c *Context) GetID() string {
	return c.ID
}

func (c *Context) String() string {
	if c.Name == "" {
		return c.ID
	}
	return c.Name + "[" + c.ID + "]"
}

var _ TaskContext = (*Context)(nil)

func contextID(c TaskContext) string {
	if c == nil {
		return ""
	}
	return c.GetID()
}

func contextString(c TaskContext) string {
	if c == nil {
		return ""
	}
	return c.String()
}

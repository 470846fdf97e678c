// Package module is the composition layer every processing stage of the
// toolbox is built on. A Module exposes named Tasks; a Task declares typed,
// buffer-backed Sockets and a codelet. Callers bind sockets between stage
// instances and call Exec, which is gated on every socket holding a buffer.
//
// Nothing here locks: a Task's statistics and buffers belong to a single
// goroutine at a time.
package module

import "fmt"

// Module owns one or more tasks and carries the logical frame count shared
// by its sockets. It owns no buffers itself.
type Module struct {
	name    string
	nFrames int
	tasks   []*Task
}

// New creates a module processing nFrames logical frames per task call.
// nFrames values below 1 are clamped to 1.
func New(name string, nFrames int) *Module {
	if nFrames < 1 {
		nFrames = 1
	}
	return &Module{name: name, nFrames: nFrames}
}

func (m *Module) Name() string { return m.name }
func (m *Module) NFrames() int { return m.nFrames }

// CreateTask registers a new task on the module.
func (m *Module) CreateTask(name string) *Task {
	t := newTask(m, name)
	m.tasks = append(m.tasks, t)
	return t
}

// Tasks returns the module's tasks in creation order.
func (m *Module) Tasks() []*Task { return m.tasks }

// Task looks a task up by name.
func (m *Module) Task(name string) (*Task, error) {
	for _, t := range m.tasks {
		if t.name == name {
			return t, nil
		}
	}
	return nil, fmt.Errorf("%w: %q on module %q", ErrUnknownTask, name, m.name)
}

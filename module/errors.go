package module

import "errors"

// Sentinel errors returned by the port framework. Callers match them with
// errors.Is; the returned errors carry the module/task/socket names.
var (
	// ErrEmptySocketName is returned when a socket is created with an empty name.
	ErrEmptySocketName = errors.New("module: empty socket name")

	// ErrDuplicateSocket is returned when a task already owns a socket with
	// the requested name.
	ErrDuplicateSocket = errors.New("module: duplicate socket name")

	// ErrUnknownSocket is returned by socket lookups for names that were
	// never created on the task.
	ErrUnknownSocket = errors.New("module: unknown socket")

	// ErrUnknownTask is returned by task lookups for names that were never
	// created on the module.
	ErrUnknownTask = errors.New("module: unknown task")

	// ErrNoCodelet is returned by Exec when no codelet has been bound.
	ErrNoCodelet = errors.New("module: no codelet bound")

	// ErrNotReady is returned by Exec when at least one socket has no buffer.
	ErrNotReady = errors.New("module: task not ready, unbound socket")

	// ErrSizeMismatch is returned when binding sockets or slices whose
	// element counts differ.
	ErrSizeMismatch = errors.New("module: socket size mismatch")

	// ErrDatatypeMismatch is returned when binding sockets or slices whose
	// element types differ.
	ErrDatatypeMismatch = errors.New("module: socket datatype mismatch")

	// ErrUnknownPhase is returned when updating or querying a phase timer
	// that was never registered.
	ErrUnknownPhase = errors.New("module: unknown phase")
)

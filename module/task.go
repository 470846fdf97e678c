package module

import (
	"fmt"
	"io"
	"os"
	"time"
)

// PhaseStats accumulates timing for one named sub-phase of a task,
// independently of the task's own totals.
type PhaseStats struct {
	NCalls uint64
	Total  time.Duration
	Min    time.Duration
	Max    time.Duration
}

// Avg returns the mean duration per recorded phase update.
func (p PhaseStats) Avg() time.Duration {
	if p.NCalls == 0 {
		return 0
	}
	return p.Total / time.Duration(p.NCalls)
}

// Task is a named operation of a Module. It owns an ordered set of sockets,
// a codelet bound once, call statistics and debug settings. A task is not
// safe for concurrent Exec calls; give each worker its own module instances
// or serialize externally.
type Task struct {
	module *Module
	name   string

	autoAlloc bool
	stats     bool
	debug     bool
	debugLim  int // -1: print whole frames
	debugPrec int
	debugW    io.Writer

	codelet func() error
	sockets []*Socket

	nCalls   uint64
	durTotal time.Duration
	durMin   time.Duration
	durMax   time.Duration

	phaseKeys []string
	phases    map[string]*PhaseStats
}

func newTask(m *Module, name string) *Task {
	return &Task{
		module:    m,
		name:      name,
		autoAlloc: true,
		stats:     true,
		debugLim:  -1,
		debugPrec: 2,
		debugW:    os.Stdout,
		phases:    map[string]*PhaseStats{},
	}
}

func (t *Task) Name() string    { return t.name }
func (t *Task) Module() *Module { return t.module }

// Sockets returns the task's sockets in creation order.
func (t *Task) Sockets() []*Socket { return t.sockets }

// Socket looks a socket up by name.
func (t *Task) Socket(name string) (*Socket, error) {
	for _, s := range t.sockets {
		if s.name == name {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: %q on %s.%s", ErrUnknownSocket, name, t.module.name, t.name)
}

func (t *Task) createSocket(name string, dir SocketDir, dt Datatype, nElmts int) (*Socket, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: on %s.%s", ErrEmptySocketName, t.module.name, t.name)
	}
	for _, s := range t.sockets {
		if s.name == name {
			return nil, fmt.Errorf("%w: %q on %s.%s", ErrDuplicateSocket, name, t.module.name, t.name)
		}
	}
	s := &Socket{task: t, name: name, dir: dir, dtype: dt, nElmts: nElmts}
	if dir == DirOut && t.autoAlloc {
		s.buf = dt.alloc(nElmts)
	}
	t.sockets = append(t.sockets, s)
	return s, nil
}

// CreateSocketIn declares an input port of nElmts elements.
func (t *Task) CreateSocketIn(name string, dt Datatype, nElmts int) (*Socket, error) {
	return t.createSocket(name, DirIn, dt, nElmts)
}

// CreateSocketOut declares an output port. Under the auto-alloc policy the
// buffer is allocated immediately and owned by the task.
func (t *Task) CreateSocketOut(name string, dt Datatype, nElmts int) (*Socket, error) {
	return t.createSocket(name, DirOut, dt, nElmts)
}

// CreateSocketInOut declares a port that is both read and written by the codelet.
func (t *Task) CreateSocketInOut(name string, dt Datatype, nElmts int) (*Socket, error) {
	return t.createSocket(name, DirInOut, dt, nElmts)
}

// SetCodelet binds the operation's body. Exec fails until this is called.
func (t *Task) SetCodelet(fn func() error) { t.codelet = fn }

// SetAutoAlloc switches the allocation policy. Switching to external drops
// the task's owned output buffers, making the task non-executable until the
// caller binds them; switching back to owned allocates fresh output buffers.
func (t *Task) SetAutoAlloc(autoAlloc bool) {
	if autoAlloc == t.autoAlloc {
		return
	}
	t.autoAlloc = autoAlloc
	for _, s := range t.sockets {
		if s.dir != DirOut {
			continue
		}
		if autoAlloc {
			s.buf = s.dtype.alloc(s.nElmts)
		} else {
			s.buf = nil
		}
	}
}

func (t *Task) IsAutoAlloc() bool { return t.autoAlloc }

func (t *Task) SetStats(on bool) { t.stats = on }
func (t *Task) IsStats() bool    { return t.stats }

func (t *Task) SetDebug(on bool)          { t.debug = on }
func (t *Task) IsDebug() bool             { return t.debug }
func (t *Task) SetDebugLimit(n int)       { t.debugLim = n }
func (t *Task) SetDebugPrecision(p int)   { t.debugPrec = p }
func (t *Task) SetDebugWriter(w io.Writer) { t.debugW = w }

// CanExec reports whether every socket holds a buffer.
func (t *Task) CanExec() bool {
	for _, s := range t.sockets {
		if s.buf == nil {
			return false
		}
	}
	return true
}

// Exec runs the codelet once. It fails if no codelet is bound or any socket
// is unbound. With stats enabled it updates the duration accumulators; the
// first call seeds min and max. With debug enabled it traces input socket
// contents before the call and output contents plus the status after.
func (t *Task) Exec() error {
	if t.codelet == nil {
		return fmt.Errorf("%w: %s.%s", ErrNoCodelet, t.module.name, t.name)
	}
	if !t.CanExec() {
		for _, s := range t.sockets {
			if s.buf == nil {
				return fmt.Errorf("%w: %s", ErrNotReady, s.path())
			}
		}
	}

	if t.debug {
		t.traceHeader()
		t.traceSockets(DirIn, DirInOut)
	}

	var err error
	if t.stats {
		start := time.Now()
		err = t.codelet()
		d := time.Since(start)
		t.durTotal += d
		if t.nCalls == 0 {
			t.durMin, t.durMax = d, d
		} else {
			if d < t.durMin {
				t.durMin = d
			}
			if d > t.durMax {
				t.durMax = d
			}
		}
	} else {
		err = t.codelet()
	}
	t.nCalls++

	if t.debug {
		t.traceSockets(DirOut, DirInOut)
		if err != nil {
			fmt.Fprintf(t.debugW, "# Returned status: %v\n#\n", err)
		} else {
			fmt.Fprintf(t.debugW, "# Returned status: ok\n#\n")
		}
	}
	return err
}

func (t *Task) NCalls() uint64               { return t.nCalls }
func (t *Task) DurationTotal() time.Duration { return t.durTotal }
func (t *Task) DurationMin() time.Duration   { return t.durMin }
func (t *Task) DurationMax() time.Duration   { return t.durMax }

func (t *Task) DurationAvg() time.Duration {
	if t.nCalls == 0 {
		return 0
	}
	return t.durTotal / time.Duration(t.nCalls)
}

// RegisterPhase declares a named sub-phase timer. Registering the same key
// twice resets it.
func (t *Task) RegisterPhase(key string) {
	if _, ok := t.phases[key]; !ok {
		t.phaseKeys = append(t.phaseKeys, key)
	}
	t.phases[key] = &PhaseStats{}
}

// UpdatePhase adds one measurement to a registered phase timer.
func (t *Task) UpdatePhase(key string, d time.Duration) error {
	p, ok := t.phases[key]
	if !ok {
		return fmt.Errorf("%w: %q on %s.%s", ErrUnknownPhase, key, t.module.name, t.name)
	}
	p.Total += d
	if p.NCalls == 0 {
		p.Min, p.Max = d, d
	} else {
		if d < p.Min {
			p.Min = d
		}
		if d > p.Max {
			p.Max = d
		}
	}
	p.NCalls++
	return nil
}

// Phases returns the registered phase keys in registration order.
func (t *Task) Phases() []string { return t.phaseKeys }

// PhaseStats returns a snapshot of one phase timer.
func (t *Task) PhaseStats(key string) (PhaseStats, error) {
	p, ok := t.phases[key]
	if !ok {
		return PhaseStats{}, fmt.Errorf("%w: %q on %s.%s", ErrUnknownPhase, key, t.module.name, t.name)
	}
	return *p, nil
}

// ResetStats clears the call counter, the duration accumulators and every
// registered phase timer.
func (t *Task) ResetStats() {
	t.nCalls = 0
	t.durTotal, t.durMin, t.durMax = 0, 0, 0
	for _, p := range t.phases {
		*p = PhaseStats{}
	}
}

package module

import "fmt"

// Datatype tags the element type carried by a socket buffer.
type Datatype int

const (
	UInt8 Datatype = iota
	Int32
	Int64
	Float32
	Float64
)

// Size returns the element size in bytes.
func (d Datatype) Size() int {
	switch d {
	case UInt8:
		return 1
	case Int32, Float32:
		return 4
	case Int64, Float64:
		return 8
	}
	return 0
}

func (d Datatype) String() string {
	switch d {
	case UInt8:
		return "uint8"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	}
	return "unknown"
}

// alloc returns a fresh zeroed buffer of n elements.
func (d Datatype) alloc(n int) any {
	switch d {
	case UInt8:
		return make([]uint8, n)
	case Int32:
		return make([]int32, n)
	case Int64:
		return make([]int64, n)
	case Float32:
		return make([]float32, n)
	case Float64:
		return make([]float64, n)
	}
	return nil
}

// SocketDir is the direction of a socket relative to its task.
type SocketDir int

const (
	DirIn SocketDir = iota
	DirOut
	DirInOut
)

func (d SocketDir) String() string {
	switch d {
	case DirIn:
		return "in"
	case DirOut:
		return "out"
	case DirInOut:
		return "in_out"
	}
	return "unknown"
}

// Socket is a named, typed, fixed-size port on a Task. Its buffer is either
// allocated by the owning task (auto-alloc policy, outputs only) or supplied
// by the caller through Bind. A nil buffer makes the task non-executable.
type Socket struct {
	task   *Task
	name   string
	dir    SocketDir
	dtype  Datatype
	nElmts int
	buf    any // typed slice ([]uint8, []float32, ...), nil while unbound
}

func (s *Socket) Name() string       { return s.name }
func (s *Socket) Dir() SocketDir     { return s.dir }
func (s *Socket) Datatype() Datatype { return s.dtype }
func (s *Socket) NElmts() int        { return s.nElmts }
func (s *Socket) Bytes() int         { return s.nElmts * s.dtype.Size() }
func (s *Socket) IsBound() bool      { return s.buf != nil }

// Data returns the socket's buffer as its typed slice, or nil when unbound.
// Codelets type-assert the result to the slice type matching Datatype.
func (s *Socket) Data() any { return s.buf }

// Bind aliases this socket's buffer to another socket's buffer. The two
// sockets must carry the same datatype and element count and the source must
// already hold a buffer.
func (s *Socket) Bind(src *Socket) error {
	if src.dtype != s.dtype {
		return fmt.Errorf("%w: %s (%s) <- %s (%s)",
			ErrDatatypeMismatch, s.path(), s.dtype, src.path(), src.dtype)
	}
	if src.nElmts != s.nElmts {
		return fmt.Errorf("%w: %s (%d elmts) <- %s (%d elmts)",
			ErrSizeMismatch, s.path(), s.nElmts, src.path(), src.nElmts)
	}
	if src.buf == nil {
		return fmt.Errorf("%w: bind source %s", ErrNotReady, src.path())
	}
	s.buf = src.buf
	return nil
}

// BindSlice supplies an external buffer. The slice type must match the
// socket's datatype and its length the socket's element count. The caller
// keeps ownership: the task never reallocates or drops external buffers
// except when the auto-alloc policy reallocates its own outputs over them.
func (s *Socket) BindSlice(v any) error {
	n, ok := sliceLen(s.dtype, v)
	if !ok {
		return fmt.Errorf("%w: %s expects []%s", ErrDatatypeMismatch, s.path(), s.dtype)
	}
	if n != s.nElmts {
		return fmt.Errorf("%w: %s wants %d elmts, got %d", ErrSizeMismatch, s.path(), s.nElmts, n)
	}
	s.buf = v
	return nil
}

func (s *Socket) path() string {
	return s.task.module.name + "." + s.task.name + "." + s.name
}

func sliceLen(d Datatype, v any) (int, bool) {
	switch d {
	case UInt8:
		if t, ok := v.([]uint8); ok {
			return len(t), true
		}
	case Int32:
		if t, ok := v.([]int32); ok {
			return len(t), true
		}
	case Int64:
		if t, ok := v.([]int64); ok {
			return len(t), true
		}
	case Float32:
		if t, ok := v.([]float32); ok {
			return len(t), true
		}
	case Float64:
		if t, ok := v.([]float64); ok {
			return len(t), true
		}
	}
	return 0, false
}

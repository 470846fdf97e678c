package module

import "fmt"

// Debug tracing. The layout is a content contract only: per bound socket, up
// to debugLim elements per logical frame at debugPrec digits.

func (t *Task) traceHeader() {
	fmt.Fprintf(t.debugW, "# %s::%s(", t.module.name, t.name)
	for i, s := range t.sockets {
		perFrame := s.nElmts / t.module.nFrames
		if i > 0 {
			fmt.Fprint(t.debugW, ", ")
		}
		if t.module.nFrames > 1 {
			fmt.Fprintf(t.debugW, "%s %s[%dx%d]", s.dtype, s.name, t.module.nFrames, perFrame)
		} else {
			fmt.Fprintf(t.debugW, "%s %s[%d]", s.dtype, s.name, perFrame)
		}
	}
	fmt.Fprintln(t.debugW, ")")
}

func (t *Task) traceSockets(dirs ...SocketDir) {
	for _, s := range t.sockets {
		match := false
		for _, d := range dirs {
			if s.dir == d {
				match = true
			}
		}
		if !match || s.buf == nil {
			continue
		}
		tag := "{IN} "
		if dirs[0] == DirOut {
			tag = "{OUT}"
		}
		nFra := t.module.nFrames
		perFrame := s.nElmts / nFra
		limit := perFrame
		if t.debugLim >= 0 && t.debugLim < perFrame {
			limit = t.debugLim
		}
		fmt.Fprintf(t.debugW, "# %s %s = [", tag, s.name)
		for f := 0; f < nFra; f++ {
			if f > 0 {
				fmt.Fprint(t.debugW, " | ")
			}
			for i := 0; i < limit; i++ {
				if i > 0 {
					fmt.Fprint(t.debugW, ", ")
				}
				t.traceElmt(s, f*perFrame+i)
			}
			if limit < perFrame {
				fmt.Fprint(t.debugW, ", ...")
			}
		}
		fmt.Fprintln(t.debugW, "]")
	}
}

func (t *Task) traceElmt(s *Socket, i int) {
	switch v := s.buf.(type) {
	case []uint8:
		fmt.Fprintf(t.debugW, "%d", v[i])
	case []int32:
		fmt.Fprintf(t.debugW, "%d", v[i])
	case []int64:
		fmt.Fprintf(t.debugW, "%d", v[i])
	case []float32:
		fmt.Fprintf(t.debugW, "%.*f", t.debugPrec, v[i])
	case []float64:
		fmt.Fprintf(t.debugW, "%.*f", t.debugPrec, v[i])
	}
}

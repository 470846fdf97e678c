package main

import (
	"flag"
	"fmt"
	mrand "math/rand"
	"os"
	"strings"
	"time"

	"github.com/paulcautereels/aff3ct/erasure"
)

type agg struct {
	trials   int
	okCount  int
	encTotal time.Duration
	decTotal time.Duration
}

func main() {
	var (
		N      = flag.Int("N", 32, "total symbols per generation")
		K      = flag.Int("K", 26, "source symbols per generation")
		L      = flag.Int("L", 1500, "bytes per symbol")
		pList  = flag.String("p", "0,0.01,0.05,0.10,0.15", "comma-separated loss probabilities")
		trials = flag.Int("trials", 10000, "trials per loss probability")
		seed   = flag.Int64("seed", 1337, "PRNG seed for payload and loss generation")
	)
	flag.Parse()

	if *K <= 0 || *N < *K || *L <= 0 {
		fatalf("invalid N=%d K=%d L=%d", *N, *K, *L)
	}
	losses, err := parsePList(*pList)
	if err != nil {
		fatalf("%v", err)
	}

	rng := mrand.New(mrand.NewSource(*seed))
	payload := make([]byte, *K**L)
	for i := range payload {
		payload[i] = byte(rng.Intn(256))
	}

	fmt.Printf("# N=%d K=%d L=%d trials=%d seed=%d\n", *N, *K, *L, *trials, *seed)
	fmt.Printf("%8s %10s %14s %14s\n", "p", "ok_rate", "enc_total", "dec_total")
	for _, p := range losses {
		a := runTrials(payload, *N, *K, *L, p, *trials, rng)
		rate := float64(a.okCount) / float64(a.trials)
		fmt.Printf("%8.4f %10.4f %14v %14v\n", p, rate, a.encTotal, a.decTotal)
	}
}

func runTrials(payload []byte, N, K, L int, p float64, trials int, rng *mrand.Rand) agg {
	a := agg{trials: trials}
	for t := 0; t < trials; t++ {
		t0 := time.Now()
		gen, err := erasure.NewGeneration(payload, N, K, L)
		if err != nil {
			fatalf("encode: %v", err)
		}
		syms := gen.Symbols()
		a.encTotal += time.Since(t0)

		recv := syms[:0:0]
		for _, s := range syms {
			if rng.Float64() < p {
				continue
			}
			recv = append(recv, s)
		}

		t1 := time.Now()
		got, err := erasure.Recover(recv, len(payload), L)
		a.decTotal += time.Since(t1)
		if err == nil && bytesEqual(got, payload) {
			a.okCount++
		}
	}
	return a
}

func parsePList(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		var v float64
		if _, err := fmt.Sscanf(p, "%f", &v); err != nil {
			return nil, fmt.Errorf("bad loss %q: %w", p, err)
		}
		if v < 0 || v >= 1 {
			return nil, fmt.Errorf("loss %v out of range", v)
		}
		out = append(out, v)
	}
	return out, nil
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func fatalf(f string, a ...any) {
	fmt.Fprintf(os.Stderr, f+"\n", a...)
	os.Exit(1)
}

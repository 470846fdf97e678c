package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"go.uber.org/zap"

	"github.com/paulcautereels/aff3ct/polar"
	"github.com/paulcautereels/aff3ct/simulation"
)

func main() {
	var (
		N        = flag.Int("N", 2048, "codeword size (power of the kernel size)")
		K        = flag.Int("K", 1024, "information bits per frame")
		kernel   = flag.String("kernel", "arikan", "polar kernel: arikan|ternary1|ternary2")
		eps      = flag.Float64("eps", 0.5, "BEC design erasure probability for the frozen mask")
		nFrames  = flag.Int("frames", 8, "frames per chain execution")
		ebn0Min  = flag.Float64("ebn0-min", 0.0, "first Eb/N0 point (dB)")
		ebn0Max  = flag.Float64("ebn0-max", 4.0, "last Eb/N0 point (dB)")
		ebn0Step = flag.Float64("ebn0-step", 0.5, "Eb/N0 step (dB)")
		maxFE    = flag.Uint64("max-fe", 100, "frame errors per point before moving on")
		maxFra   = flag.Uint64("max-frames", 10_000_000, "frame cap per point")
		seed     = flag.Int64("seed", 42, "random seed")
		outPath  = flag.String("out", "", "optional JSON report path")
		verbose  = flag.Bool("v", false, "log each point as it completes")
	)
	flag.Parse()

	var kern [][]uint8
	switch *kernel {
	case "arikan":
		kern = polar.KernelArikan
	case "ternary1":
		kern = polar.KernelTernary1
	case "ternary2":
		kern = polar.KernelTernary2
	default:
		fatalf("unknown kernel %q", *kernel)
	}

	code, err := polar.NewMonoKernelCode(*N, kern)
	if err != nil {
		fatalf("code: %v", err)
	}
	frozen, err := frozenMask(*N, *K, *eps, len(kern))
	if err != nil {
		fatalf("frozen mask: %v", err)
	}

	log := zap.NewNop()
	if *verbose {
		if log, err = zap.NewDevelopment(); err != nil {
			fatalf("logger: %v", err)
		}
		defer log.Sync()
	}

	sim, err := simulation.NewBFER(simulation.Params{
		K:              *K,
		N:              *N,
		Code:           code,
		FrozenBits:     frozen,
		NFrames:        *nFrames,
		EbN0Min:        *ebn0Min,
		EbN0Max:        *ebn0Max,
		EbN0Step:       *ebn0Step,
		MaxFrameErrors: *maxFE,
		MaxFrames:      *maxFra,
		Seed:           *seed,
	}, simulation.WithLogger(log))
	if err != nil {
		fatalf("simulation: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := sim.Run(ctx)
	if err != nil && ctx.Err() == nil {
		fatalf("run: %v", err)
	}

	fmt.Printf("# K=%d N=%d kernel=%s frames/exec=%d seed=%d\n", *K, *N, *kernel, *nFrames, *seed)
	fmt.Printf("%10s %10s %12s %12s %12s\n", "Eb/N0", "sigma", "frames", "BER", "FER")
	for _, p := range report.Points {
		fmt.Printf("%10.2f %10.4f %12d %12.3e %12.3e\n", p.EbN0, p.Sigma, p.FramesAnalyzed, p.BER, p.FER)
	}

	if *outPath != "" {
		if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
			fatalf("mkdir: %v", err)
		}
		f, err := os.Create(*outPath)
		if err != nil {
			fatalf("create: %v", err)
		}
		if err := report.WriteJSON(f); err != nil {
			fatalf("write json: %v", err)
		}
		if err := f.Close(); err != nil {
			fatalf("close: %v", err)
		}
		fmt.Printf("JSON: %s\n", *outPath)
	}
}

// frozenMask selects the mask builder for the kernel size: the BEC
// Bhattacharyya recursion only applies to the binary kernel, so ternary
// codes fall back to the natural lane order.
func frozenMask(N, K int, eps float64, base int) ([]bool, error) {
	if base == 2 {
		return polar.FrozenBitsBEC(N, K, eps)
	}
	order := make([]int, N)
	for i := range order {
		order[i] = N - 1 - i
	}
	return polar.FrozenBitsFromReliability(order, N, K)
}

func fatalf(f string, a ...any) {
	fmt.Fprintf(os.Stderr, f+"\n", a...)
	os.Exit(1)
}

// scope-bench exercises the trace builder and phosphor kernel headlessly:
// it pulls samples from a generator source, builds frames, and reports
// per-stage timings. Useful for sizing resolutions and worker counts
// without a window.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"time"

	"glowie/internal/scope"
	"glowie/internal/signal"
	"glowie/internal/trace"
)

func main() {
	source := flag.String("source", "lissajous", "generator source to trace")
	frames := flag.Int("frames", 600, "frames to render")
	width := flag.Int("width", 720, "buffer width in pixels")
	height := flag.Int("height", 720, "buffer height in pixels")
	fps := flag.Int("fps", 60, "simulated display rate (samples per frame)")
	workers := flag.Int("workers", runtime.NumCPU(), "kernel worker goroutines")
	realtime := flag.Bool("realtime", false, "pace frames at the display rate")
	flag.Parse()

	if *frames <= 0 {
		fmt.Fprintln(os.Stderr, "nothing to do")
		return
	}

	factory, ok := signal.Sources()[*source]
	if !ok {
		log.Fatalf("unknown source %q", *source)
	}
	src := factory(nil)

	cfg := scope.DefaultConfig()
	builder := trace.NewBuilder(cfg)
	renderer := scope.NewRenderer(cfg, *width, *height, *workers)

	perFrame := src.SampleRate() / *fps
	if perFrame < 2 {
		perFrame = 2
	}
	scratch := make([][2]float32, perFrame)

	pacer := signal.NewFixedStep(*fps)
	var buildTotal, stepTotal time.Duration
	var lineTotal int

	for i := 0; i < *frames; i++ {
		if *realtime {
			for !pacer.ShouldStep() {
				time.Sleep(time.Millisecond)
			}
		}

		n := src.Read(scratch)
		builder.Extend(scratch[:n])

		t0 := time.Now()
		frame := builder.BuildFrame()
		t1 := time.Now()
		renderer.Step(&frame)
		t2 := time.Now()

		buildTotal += t1.Sub(t0)
		stepTotal += t2.Sub(t1)
		lineTotal += len(frame.Lines)
	}

	n := time.Duration(*frames)
	fmt.Printf("source=%s  %dx%d  workers=%d  frames=%d\n",
		src.Name(), *width, *height, *workers, *frames)
	fmt.Printf("build: %v/frame  kernel: %v/frame  lines: %d/frame\n",
		buildTotal/n, stepTotal/n, lineTotal / *frames)
	fmt.Printf("mean brightness: %.4f\n", meanBrightness(renderer.Brightness()))
}

func meanBrightness(b *scope.FrameBuffer) float64 {
	sum := 0.0
	for _, v := range b.Pixels() {
		sum += float64(v)
	}
	return sum / float64(len(b.Pixels()))
}

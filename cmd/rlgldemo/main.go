// Command rlgldemo renders a batching demo offscreen and saves it as PNG.
//
//	rlgldemo -config demo.yml -output demo.png
//	rlgldemo -dry-run
//
// With -dry-run the scene is drawn on the recording device and the issued
// device commands are summarized instead of rendered.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"log"
	"log/slog"
	"maps"
	"os"
	"slices"

	"github.com/gogpu/rlgl"
	_ "github.com/gogpu/rlgl/backend/native"
	"github.com/gogpu/rlgl/recording"
)

func main() {
	var (
		configPath = flag.String("config", "", "YAML config file")
		device     = flag.String("device", "", "device name (overrides config)")
		width      = flag.Int("width", 0, "image width (overrides config)")
		height     = flag.Int("height", 0, "image height (overrides config)")
		output     = flag.String("output", "", "output file (overrides config)")
		dryRun     = flag.Bool("dry-run", false, "record device commands instead of rendering")
		verbose    = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *device != "" {
		cfg.Device = *device
	}
	if *width > 0 {
		cfg.Width = *width
	}
	if *height > 0 {
		cfg.Height = *height
	}
	if *output != "" {
		cfg.Output = *output
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	opts := append(cfg.options(), rlgl.WithLogger(logger))

	if *dryRun {
		if err := record(cfg, opts); err != nil {
			log.Fatalf("dry run: %v", err)
		}
		return
	}
	if err := render(cfg, opts); err != nil {
		log.Fatalf("render: %v", err)
	}
	log.Printf("Demo saved to %s (%dx%d, %s)\n", cfg.Output, cfg.Width, cfg.Height, cfg.Device)
}

// render draws the scene on the configured device and writes the PNG.
func render(cfg Config, opts []rlgl.Option) error {
	dev, err := rlgl.NewDevice(cfg.Device, cfg.Width, cfg.Height)
	if err != nil {
		return fmt.Errorf("%w (registered: %v)", err, rlgl.Devices())
	}
	defer dev.Destroy()

	ctx, err := rlgl.New(dev, cfg.Width, cfg.Height, opts...)
	if err != nil {
		return err
	}
	defer ctx.Close()

	if err := drawScene(ctx, cfg); err != nil {
		return err
	}
	pix, err := ctx.ReadScreenPixels(cfg.Width, cfg.Height)
	if err != nil {
		return err
	}
	return savePNG(cfg.Output, pix, cfg.Width, cfg.Height)
}

// record draws the scene on a recorder and prints the command counts.
func record(cfg Config, opts []rlgl.Option) error {
	rec := recording.NewRecorder(cfg.Width, cfg.Height)
	ctx, err := rlgl.New(rec, cfg.Width, cfg.Height, opts...)
	if err != nil {
		return err
	}
	if err := drawScene(ctx, cfg); err != nil {
		return err
	}
	if err := ctx.Close(); err != nil {
		return err
	}

	r := rec.FinishRecording()
	counts := make(map[string]int)
	for _, cmd := range r.Commands() {
		counts[cmd.Type().String()]++
	}
	fmt.Printf("%d commands\n", len(r.Commands()))
	for _, name := range slices.Sorted(maps.Keys(counts)) {
		fmt.Printf("  %-22s %d\n", name, counts[name])
	}
	stats := ctx.Stats()
	fmt.Printf("stats: %+v\n", stats)
	return nil
}

// savePNG writes tightly packed RGBA8 rows, top row first.
func savePNG(path string, pix []byte, w, h int) error {
	img := &image.NRGBA{Pix: pix, Stride: w * 4, Rect: image.Rect(0, 0, w, h)}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

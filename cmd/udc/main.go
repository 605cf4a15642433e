// Command udc drives a character display from a JSON configuration.
//
// The display kind selects the hardware:
//
//	ws281x       segment display on one SPI bus (MOSI drives the LED chain)
//	ws281x-dual  segment display split over two SPI buses
//	flipdot      flipdot panels, control word on SPI and coil pulse on a GPIO line
//	splitflap    split-flap units on a UART
//	ibis         IBIS destination sign on a UART
//
// With -preview the frames are drawn on the console instead, and no hardware
// is opened.
package main

import (
	"context"
	"flag"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"periph.io/x/host/v3"

	"github.com/flavioheleno/udc/config"
	"github.com/flavioheleno/udc/display"
	"github.com/flavioheleno/udc/internal/preview"
)

var (
	configPath = flag.String("config", "", "Path to configuration file (empty for defaults)")
	previewOut = flag.Bool("preview", false, "Draw frames on the console instead of the display")
	pixels     = flag.Bool("pixels", false, "With -preview, also draw the pixel buffer in colour")
	verbose    = flag.Bool("v", false, "Log debug messages")
)

func main() {
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg := config.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = config.LoadConfig(*configPath); err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}

	sc, err := newScene(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to set up display content: %v", err)
	}
	defer sc.Close()

	var r display.Renderer
	if *previewOut {
		c := preview.New(os.Stdout)
		c.Pixels = *pixels
		r = c
	} else {
		if _, err := host.Init(); err != nil {
			log.Fatalf("Failed to initialize periph.io: %v", err)
		}
		hw, err := openHardware(cfg, sc)
		if err != nil {
			log.Fatalf("Failed to open display: %v", err)
		}
		defer hw.Close()
		logger.Info("display opened", "kind", cfg.Display.Kind, "dev", hw.dev)
		r = hw.dev
	}

	loop := sc.loop(r, time.Duration(cfg.Display.Interval), logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := loop.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Error("render loop failed", "err", err)
	}
}

// closers releases resources in reverse order of acquisition.
type closers []io.Closer

func (c closers) Close() error {
	var first error
	for i := len(c) - 1; i >= 0; i-- {
		if err := c[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

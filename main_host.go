//go:build !tinygo

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"time"

	"orbit/app"
	"orbit/hal"
	"orbit/internal/buildinfo"
	"orbit/record"
	"orbit/stream"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	var cfg hal.HeadlessConfig
	var appCfg app.Config
	var recordDir, streamAddr string
	flag.BoolVar(&cfg.Enabled, "headless", false, "Run without a window.")
	flag.IntVar(&cfg.Hz, "hz", 60, "Tick rate in headless mode.")
	flag.Uint64Var(&cfg.Ticks, "ticks", 0, "Stop after N ticks in headless mode (0 = run forever).")
	flag.IntVar(&cfg.Width, "width", 640, "Framebuffer width (initial window width).")
	flag.IntVar(&cfg.Height, "height", 480, "Framebuffer height (initial window height).")
	flag.IntVar(&appCfg.Workers, "workers", 0, "Render goroutines (0 = one per CPU).")
	flag.BoolVar(&appCfg.HUD, "hud", false, "Show the stats overlay (F1 toggles).")
	flag.Uint64Var(&appCfg.FrameEvery, "frame-every", 1, "Minimum milliseconds between frames.")
	flag.StringVar(&recordDir, "record", "", "Record frames into a bundle under this directory.")
	flag.StringVar(&streamAddr, "stream", "", "Serve frames to websocket viewers on this address (e.g. :8080).")
	flag.Parse()

	logger := hal.StdoutLogger()

	if recordDir != "" {
		w, _, err := record.NewWriter(recordDir, "orbit", nil)
		if err != nil {
			return err
		}
		defer func() {
			if err := w.Close(); err != nil {
				logger.WriteLineString("record: " + err.Error())
				return
			}
			logger.WriteLineString(fmt.Sprintf("record: %d frames in %s", w.Frames(), w.Directory()))
		}()
		appCfg.Sinks = append(appCfg.Sinks, w)
	}

	if streamAddr != "" {
		b := stream.NewBroker(logger)
		srv, err := serveStream(streamAddr, b, logger)
		if err != nil {
			return err
		}
		defer func() {
			_ = b.Close()
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(ctx)
		}()
		appCfg.Sinks = append(appCfg.Sinks, b)
	}

	newApp := func(h hal.HAL) func() error {
		return app.New(h, appCfg)
	}

	if cfg.Enabled {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if err := hal.RunHeadless(ctx, newApp, cfg); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	}
	return hal.RunWindow(hal.WindowConfig{
		Width:  cfg.Width,
		Height: cfg.Height,
		Title:  buildinfo.Title(),
	}, newApp)
}

func serveStream(addr string, b *stream.Broker, logger hal.Logger) (*http.Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("stream: %w", err)
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/frames", b.ServeWS)
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WriteLineString("stream: " + err.Error())
		}
	}()
	logger.WriteLineString("stream: serving ws://" + ln.Addr().String() + "/frames")
	return srv, nil
}
